package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/models"
)

// OracleRequestRepository implements oracle request tracking
type OracleRequestRepository struct {
	db *gorm.DB
}

// NewOracleRequestRepository creates a new oracle request repository
func NewOracleRequestRepository(db *gorm.DB) *OracleRequestRepository {
	return &OracleRequestRepository{db: db}
}

// Create records a pending request
func (r *OracleRequestRepository) Create(ctx context.Context, request *entities.OracleRequest) error {
	m := &models.OracleRequest{
		RequestID:        request.RequestID,
		OracleAddr:       request.OracleAddr,
		JobID:            request.JobID,
		CallbackSelector: string(request.CallbackSelector),
		SubjectType:      string(request.SubjectType),
		SubjectID:        request.SubjectID,
		FeeAmount:        request.FeeAmount,
		Payload:          request.Payload,
		Expired:          request.Expired,
		CreatedAt:        request.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	request.CreatedAt = m.CreatedAt
	return nil
}

// GetPending returns a request while it is still fulfillable
func (r *OracleRequestRepository) GetPending(ctx context.Context, requestID string) (*entities.OracleRequest, error) {
	var m models.OracleRequest
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("request_id = ? AND expired = ?", requestID, false).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUnknownRequest
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetPendingBySubject returns the outstanding request for a subject, if any
func (r *OracleRequestRepository) GetPendingBySubject(ctx context.Context, subjectType entities.SubjectType, subjectID uint64) (*entities.OracleRequest, error) {
	var m models.OracleRequest
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ? AND expired = ?", string(subjectType), subjectID, false).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUnknownRequest
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Consume marks the request expired. The guarded UPDATE makes consumption
// a compare-and-swap: of two racing fulfillments only one sees a row
// flip, the other gets ErrUnknownRequest.
func (r *OracleRequestRepository) Consume(ctx context.Context, requestID string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.OracleRequest{}).
		Where("request_id = ? AND expired = ?", requestID, false).
		Update("expired", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnknownRequest
	}
	return nil
}

// ListPendingOlderThan returns stale pending requests for observability
func (r *OracleRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entities.OracleRequest, error) {
	var ms []models.OracleRequest
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("expired = ? AND created_at < ?", false, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	requests := make([]*entities.OracleRequest, 0, len(ms))
	for i := range ms {
		requests = append(requests, r.toEntity(&ms[i]))
	}
	return requests, nil
}

func (r *OracleRequestRepository) toEntity(m *models.OracleRequest) *entities.OracleRequest {
	return &entities.OracleRequest{
		RequestID:        m.RequestID,
		OracleAddr:       m.OracleAddr,
		JobID:            m.JobID,
		CallbackSelector: entities.CallbackSelector(m.CallbackSelector),
		SubjectType:      entities.SubjectType(m.SubjectType),
		SubjectID:        m.SubjectID,
		FeeAmount:        m.FeeAmount,
		Payload:          m.Payload,
		Expired:          m.Expired,
		CreatedAt:        m.CreatedAt,
	}
}
