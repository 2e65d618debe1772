package usecases

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	"github.com/DrZedd42/fiat-gateway/internal/domain/repositories"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/events"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
	"github.com/DrZedd42/fiat-gateway/pkg/metrics"
)

// MakerUsecase handles maker registration and activation
type MakerUsecase struct {
	makerRepo  repositories.MakerRepository
	methodRepo repositories.PaymentMethodRepository
	uow        repositories.UnitOfWork
	bridge     *OracleBridge
	publisher  events.Publisher
}

// NewMakerUsecase creates a new maker usecase and registers the
// activation callback on the bridge.
func NewMakerUsecase(
	makerRepo repositories.MakerRepository,
	methodRepo repositories.PaymentMethodRepository,
	uow repositories.UnitOfWork,
	bridge *OracleBridge,
	publisher events.Publisher,
) *MakerUsecase {
	u := &MakerUsecase{
		makerRepo:  makerRepo,
		methodRepo: methodRepo,
		uow:        uow,
		bridge:     bridge,
		publisher:  publisher,
	}
	bridge.RegisterCallback(entities.CallbackMakerActivate, u.onActivate)
	return u
}

// RegisterMakerInput holds fields for a maker registration
type RegisterMakerInput struct {
	FiatPaymentMethodIdx int64  `json:"fiatPaymentMethodIdx"`
	Crypto               string `json:"crypto" binding:"required"`
	Fiat                 string `json:"fiat" binding:"required"`
	PaymentDestination   string `json:"paymentDestination" binding:"required"`
	APICredsHash         string `json:"apiCredsHash" binding:"required"`
}

// RegisterMakerResult pairs the created maker with its activation request
type RegisterMakerResult struct {
	Maker         *entities.Maker        `json:"maker"`
	OracleRequest *entities.OracleRequest `json:"oracleRequest"`
}

// Register creates an inactive maker and dispatches the verification
// job bound to it. The maker turns active only when the oracle answers
// positively; the caller address becomes the maker identity.
func (u *MakerUsecase) Register(ctx context.Context, callerAddr string, input *RegisterMakerInput) (*RegisterMakerResult, error) {
	method, err := u.methodRepo.GetByIdx(ctx, input.FiatPaymentMethodIdx)
	if err != nil {
		return nil, err
	}

	maker := &entities.Maker{
		MakerAddr:            callerAddr,
		FiatPaymentMethodIdx: input.FiatPaymentMethodIdx,
		Crypto:               input.Crypto,
		Fiat:                 input.Fiat,
		PaymentDestination:   input.PaymentDestination,
		APICredsHash:         input.APICredsHash,
		Active:               false,
	}

	var request *entities.OracleRequest
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.makerRepo.Create(txCtx, maker); err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]interface{}{
			"makerAddr":          maker.MakerAddr,
			"paymentDestination": maker.PaymentDestination,
			"apiCredsHash":       maker.APICredsHash,
			"crypto":             maker.Crypto,
			"fiat":               maker.Fiat,
		})
		if err != nil {
			return err
		}
		request, err = u.bridge.SendRequest(txCtx,
			method.OracleAddr, method.NewMakerJobID,
			entities.CallbackMakerActivate, entities.SubjectMaker, maker.ID,
			string(payload))
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "maker registered",
		zap.Uint64("maker_id", maker.ID),
		zap.String("maker_addr", maker.MakerAddr),
		zap.Int64("method_idx", maker.FiatPaymentMethodIdx))
	metrics.MakersRegistered.Inc()

	result := &RegisterMakerResult{Maker: maker, OracleRequest: request}
	u.publisher.Publish(ctx, events.TypeMakerRegistered, result)
	return result, nil
}

// GetMaker returns one maker by id
func (u *MakerUsecase) GetMaker(ctx context.Context, id uint64) (*entities.Maker, error) {
	return u.makerRepo.GetByID(ctx, id)
}

// ListMakers returns makers with pagination
func (u *MakerUsecase) ListMakers(ctx context.Context, limit, offset int) ([]*entities.Maker, int, error) {
	limit, offset = clampPage(limit, offset)
	return u.makerRepo.List(ctx, limit, offset)
}

// onActivate flips the maker active when its verification request is
// fulfilled positively.
func (u *MakerUsecase) onActivate(ctx context.Context, request *entities.OracleRequest, _ []byte) error {
	if err := u.makerRepo.Activate(ctx, request.SubjectID); err != nil {
		return err
	}
	logger.Info(ctx, "maker activated", zap.Uint64("maker_id", request.SubjectID))
	return nil
}
