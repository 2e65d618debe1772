package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/models"
)

// PaymentMethodRepository implements fiat payment method data operations
type PaymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Create appends a new method record and writes the assigned index back
// into the entity. Methods are append-only and never updated or removed.
func (r *PaymentMethodRepository) Create(ctx context.Context, method *entities.FiatPaymentMethod) error {
	m := &models.FiatPaymentMethod{
		DisplayName:              method.DisplayName,
		OracleAddr:               method.OracleAddr,
		NewMakerJobID:            method.NewMakerJobID,
		BuyCryptoOrderJobID:      method.BuyCryptoOrderJobID,
		BuyCryptoOrderPayedJobID: method.BuyCryptoOrderPayedJobID,
		CreatedAt:                method.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	method.Idx = m.Idx
	method.CreatedAt = m.CreatedAt
	return nil
}

// GetByIdx gets a method by its assigned index
func (r *PaymentMethodRepository) GetByIdx(ctx context.Context, idx int64) (*entities.FiatPaymentMethod, error) {
	var m models.FiatPaymentMethod
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("idx = ?", idx).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrMethodNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List returns all methods in index order
func (r *PaymentMethodRepository) List(ctx context.Context) ([]*entities.FiatPaymentMethod, error) {
	var ms []models.FiatPaymentMethod
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("idx ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	methods := make([]*entities.FiatPaymentMethod, 0, len(ms))
	for i := range ms {
		methods = append(methods, r.toEntity(&ms[i]))
	}
	return methods, nil
}

func (r *PaymentMethodRepository) toEntity(m *models.FiatPaymentMethod) *entities.FiatPaymentMethod {
	return &entities.FiatPaymentMethod{
		Idx:                      m.Idx,
		DisplayName:              m.DisplayName,
		OracleAddr:               m.OracleAddr,
		NewMakerJobID:            m.NewMakerJobID,
		BuyCryptoOrderJobID:      m.BuyCryptoOrderJobID,
		BuyCryptoOrderPayedJobID: m.BuyCryptoOrderPayedJobID,
		CreatedAt:                m.CreatedAt,
	}
}
