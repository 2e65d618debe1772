package repositories

import (
	"context"
	"time"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
)

// OracleRequestRepository tracks pending oracle requests. Records are
// never physically removed: consumption and expiry set the expired flag
// so a request id can never be honored twice.
type OracleRequestRepository interface {
	Create(ctx context.Context, request *entities.OracleRequest) error
	// GetPending returns the request only while it is still fulfillable.
	GetPending(ctx context.Context, requestID string) (*entities.OracleRequest, error)
	GetPendingBySubject(ctx context.Context, subjectType entities.SubjectType, subjectID uint64) (*entities.OracleRequest, error)
	// Consume marks the request expired; it reports ErrUnknownRequest if the
	// request was already consumed, so two racing fulfillments cannot both win.
	Consume(ctx context.Context, requestID string) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entities.OracleRequest, error)
}
