package repositories

import (
	"context"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
)

// PaymentMethodRepository interface
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *entities.FiatPaymentMethod) error
	GetByIdx(ctx context.Context, idx int64) (*entities.FiatPaymentMethod, error)
	List(ctx context.Context) ([]*entities.FiatPaymentMethod, error)
}
