package repositories

import (
	"context"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
)

// MakerRepository interface
type MakerRepository interface {
	Create(ctx context.Context, maker *entities.Maker) error
	GetByID(ctx context.Context, id uint64) (*entities.Maker, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Maker, int, error)
	// FirstActiveForPair returns the oldest active maker offering the pair
	// under the given method, by registration order.
	FirstActiveForPair(ctx context.Context, methodIdx int64, crypto, fiat string) (*entities.Maker, error)
	Activate(ctx context.Context, id uint64) error
}
