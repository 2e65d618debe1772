package usecases

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/domain/repositories"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/events"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
)

// PaymentMethodUsecase manages the append-only fiat payment method table
type PaymentMethodUsecase struct {
	methodRepo repositories.PaymentMethodRepository
	publisher  events.Publisher
	ownerAddr  string
}

// NewPaymentMethodUsecase creates a new payment method usecase
func NewPaymentMethodUsecase(
	methodRepo repositories.PaymentMethodRepository,
	publisher events.Publisher,
	ownerAddr string,
) *PaymentMethodUsecase {
	return &PaymentMethodUsecase{
		methodRepo: methodRepo,
		publisher:  publisher,
		ownerAddr:  ownerAddr,
	}
}

// AddMethodInput holds fields for a new payment method
type AddMethodInput struct {
	DisplayName              string `json:"displayName" binding:"required"`
	OracleAddr               string `json:"oracleAddr" binding:"required"`
	NewMakerJobID            string `json:"newMakerJobId" binding:"required"`
	BuyCryptoOrderJobID      string `json:"buyCryptoOrderJobId" binding:"required"`
	BuyCryptoOrderPayedJobID string `json:"buyCryptoOrderPayedJobId" binding:"required"`
}

// AddMethod registers a new fiat payment rail. Owner-only: methods carry
// the oracle and job bindings every later verification depends on.
// Methods are never updated or removed, only appended.
func (u *PaymentMethodUsecase) AddMethod(ctx context.Context, callerAddr string, input *AddMethodInput) (*entities.FiatPaymentMethod, error) {
	if !strings.EqualFold(callerAddr, u.ownerAddr) {
		return nil, domainerrors.ErrUnauthorized
	}

	method := &entities.FiatPaymentMethod{
		DisplayName:              input.DisplayName,
		OracleAddr:               input.OracleAddr,
		NewMakerJobID:            input.NewMakerJobID,
		BuyCryptoOrderJobID:      input.BuyCryptoOrderJobID,
		BuyCryptoOrderPayedJobID: input.BuyCryptoOrderPayedJobID,
	}
	if err := u.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment method added",
		zap.Int64("idx", method.Idx),
		zap.String("display_name", method.DisplayName),
		zap.String("oracle", method.OracleAddr))
	u.publisher.Publish(ctx, events.TypeMethodAdded, method)

	return method, nil
}

// GetMethod returns one payment method by index
func (u *PaymentMethodUsecase) GetMethod(ctx context.Context, idx int64) (*entities.FiatPaymentMethod, error) {
	return u.methodRepo.GetByIdx(ctx, idx)
}

// ListMethods returns all registered payment methods in insertion order
func (u *PaymentMethodUsecase) ListMethods(ctx context.Context) ([]*entities.FiatPaymentMethod, error) {
	return u.methodRepo.List(ctx)
}
