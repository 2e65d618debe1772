package repositories

import (
	"context"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
)

// OrderRepository interface
type OrderRepository interface {
	Create(ctx context.Context, order *entities.BuyOrder) error
	GetByID(ctx context.Context, id uint64) (*entities.BuyOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entities.BuyOrder, int, error)
	GetByTaker(ctx context.Context, taker string, limit, offset int) ([]*entities.BuyOrder, int, error)
	UpdateStatus(ctx context.Context, id uint64, status entities.OrderStatus) error
	MarkOracleConfirmed(ctx context.Context, id uint64) error
	MarkSettled(ctx context.Context, id uint64) error
	MarkCancelled(ctx context.Context, id uint64) error
}
