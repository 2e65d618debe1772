package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DrZedd42/fiat-gateway/internal/domain/repositories"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
)

// StuckRequestMonitor reports oracle requests that stay pending past a
// threshold. Pending requests have no timeout of their own, so the
// monitor only surfaces them; the reissue endpoint is the recovery path.
type StuckRequestMonitor struct {
	repo       repositories.OracleRequestRepository
	interval   time.Duration
	staleAfter time.Duration
	stop       chan struct{}
}

func NewStuckRequestMonitor(repo repositories.OracleRequestRepository, staleAfter time.Duration) *StuckRequestMonitor {
	return &StuckRequestMonitor{
		repo:       repo,
		interval:   time.Minute,
		staleAfter: staleAfter,
		stop:       make(chan struct{}),
	}
}

func (j *StuckRequestMonitor) Start(ctx context.Context) {
	logger.Info(ctx, "starting stuck oracle request monitor",
		zap.Duration("stale_after", j.staleAfter))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "stuck request monitor stopped")
			return
		case <-j.stop:
			logger.Info(ctx, "stuck request monitor stopped")
			return
		case <-ticker.C:
			j.report(ctx)
		}
	}
}

func (j *StuckRequestMonitor) Stop() {
	close(j.stop)
}

func (j *StuckRequestMonitor) report(ctx context.Context) {
	cutoff := time.Now().Add(-j.staleAfter)
	stale, err := j.repo.ListPendingOlderThan(ctx, cutoff, 100)
	if err != nil {
		logger.Error(ctx, "listing stale oracle requests", zap.Error(err))
		return
	}

	for _, request := range stale {
		logger.Warn(ctx, "oracle request pending past threshold",
			zap.String("request_id", request.RequestID),
			zap.String("callback", string(request.CallbackSelector)),
			zap.Uint64("subject_id", request.SubjectID),
			zap.Time("created_at", request.CreatedAt))
	}
}
