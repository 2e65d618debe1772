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

// MakerRepository implements maker data operations
type MakerRepository struct {
	db *gorm.DB
}

// NewMakerRepository creates a new maker repository
func NewMakerRepository(db *gorm.DB) *MakerRepository {
	return &MakerRepository{db: db}
}

// Create inserts a maker and writes the assigned id back into the entity.
func (r *MakerRepository) Create(ctx context.Context, maker *entities.Maker) error {
	m := &models.Maker{
		MakerAddr:            maker.MakerAddr,
		FiatPaymentMethodIdx: maker.FiatPaymentMethodIdx,
		Crypto:               maker.Crypto,
		Fiat:                 maker.Fiat,
		PaymentDestination:   maker.PaymentDestination,
		APICredsHash:         maker.APICredsHash,
		Active:               maker.Active,
		CreatedAt:            maker.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	maker.ID = m.ID
	maker.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a maker by ID
func (r *MakerRepository) GetByID(ctx context.Context, id uint64) (*entities.Maker, error) {
	var m models.Maker
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List returns makers with pagination, oldest first
func (r *MakerRepository) List(ctx context.Context, limit, offset int) ([]*entities.Maker, int, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Maker{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Maker
	if err := db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	makers := make([]*entities.Maker, 0, len(ms))
	for i := range ms {
		makers = append(makers, r.toEntity(&ms[i]))
	}
	return makers, int(total), nil
}

// FirstActiveForPair resolves the maker an order binds to. When several
// active makers cover the same tuple the lowest id wins: ids are assigned
// in registration order, which makes the selection deterministic.
func (r *MakerRepository) FirstActiveForPair(ctx context.Context, methodIdx int64, crypto, fiat string) (*entities.Maker, error) {
	var m models.Maker
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("fiat_payment_method_idx = ? AND crypto = ? AND fiat = ? AND active = ?", methodIdx, crypto, fiat, true).
		Order("id ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNoActiveMaker
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Activate flips the maker active. Active is the only mutable field.
func (r *MakerRepository) Activate(ctx context.Context, id uint64) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Maker{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":       true,
			"activated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *MakerRepository) toEntity(m *models.Maker) *entities.Maker {
	return &entities.Maker{
		ID:                   m.ID,
		MakerAddr:            m.MakerAddr,
		FiatPaymentMethodIdx: m.FiatPaymentMethodIdx,
		Crypto:               m.Crypto,
		Fiat:                 m.Fiat,
		PaymentDestination:   m.PaymentDestination,
		APICredsHash:         m.APICredsHash,
		Active:               m.Active,
		ActivatedAt:          null.TimeFromPtr(m.ActivatedAt),
		CreatedAt:            m.CreatedAt,
	}
}
