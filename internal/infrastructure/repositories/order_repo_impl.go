package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/models"
)

// OrderRepository implements buy order data operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order and writes the assigned id back into the entity.
func (r *OrderRepository) Create(ctx context.Context, order *entities.BuyOrder) error {
	m := &models.BuyOrder{
		Taker:                order.Taker,
		MakerID:              order.MakerID,
		Crypto:               order.Crypto,
		Fiat:                 order.Fiat,
		Amount:               order.Amount,
		FiatPaymentMethodIdx: order.FiatPaymentMethodIdx,
		Status:               string(order.Status),
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	order.ID = m.ID
	order.CreatedAt = m.CreatedAt
	order.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id uint64) (*entities.BuyOrder, error) {
	var m models.BuyOrder
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List returns orders with pagination, newest first
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]*entities.BuyOrder, int, error) {
	return r.list(ctx, nil, limit, offset)
}

// GetByTaker returns a taker's orders with pagination
func (r *OrderRepository) GetByTaker(ctx context.Context, taker string, limit, offset int) ([]*entities.BuyOrder, int, error) {
	cond := map[string]interface{}{"taker": taker}
	return r.list(ctx, cond, limit, offset)
}

func (r *OrderRepository) list(ctx context.Context, cond map[string]interface{}, limit, offset int) ([]*entities.BuyOrder, int, error) {
	db := GetDB(ctx, r.db)

	query := db.WithContext(ctx).Model(&models.BuyOrder{})
	if cond != nil {
		query = query.Where(cond)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.BuyOrder
	if err := query.
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*entities.BuyOrder, 0, len(ms))
	for i := range ms {
		orders = append(orders, r.toEntity(&ms[i]))
	}
	return orders, int(total), nil
}

// UpdateStatus moves an order to the given status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint64, status entities.OrderStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
}

// MarkOracleConfirmed records the audit-checkpoint fulfillment timestamp
func (r *OrderRepository) MarkOracleConfirmed(ctx context.Context, id uint64) error {
	return r.update(ctx, id, map[string]interface{}{
		"oracle_confirmed_at": time.Now(),
		"updated_at":          time.Now(),
	})
}

// MarkSettled moves the order to its settled terminal state
func (r *OrderRepository) MarkSettled(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.update(ctx, id, map[string]interface{}{
		"status":     string(entities.OrderStatusSettled),
		"settled_at": now,
		"updated_at": now,
	})
}

// MarkCancelled moves the order to its cancelled terminal state
func (r *OrderRepository) MarkCancelled(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.update(ctx, id, map[string]interface{}{
		"status":       string(entities.OrderStatusCancelled),
		"cancelled_at": now,
		"updated_at":   now,
	})
}

func (r *OrderRepository) update(ctx context.Context, id uint64, values map[string]interface{}) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.BuyOrder{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) toEntity(m *models.BuyOrder) *entities.BuyOrder {
	return &entities.BuyOrder{
		ID:                   m.ID,
		Taker:                m.Taker,
		MakerID:              m.MakerID,
		Crypto:               m.Crypto,
		Fiat:                 m.Fiat,
		Amount:               m.Amount,
		FiatPaymentMethodIdx: m.FiatPaymentMethodIdx,
		Status:               entities.OrderStatus(m.Status),
		OracleConfirmedAt:    null.TimeFromPtr(m.OracleConfirmedAt),
		SettledAt:            null.TimeFromPtr(m.SettledAt),
		CancelledAt:          null.TimeFromPtr(m.CancelledAt),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
