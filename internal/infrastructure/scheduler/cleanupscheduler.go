package scheduler

import (
	"context"
	"sync"
	"time"

	"lexid/internal/application/account/usecases"
	"lexid/internal/shared/logger"
)

// CleanupScheduler periodically sweeps expired sessions and oauth
// states. The sweep only removes rows already past their deadline, so it
// is safe to run concurrently with in-flight requests and with another
// instance of the service.
type CleanupScheduler struct {
	cleanupUC *usecases.CleanupExpiredUseCase
	logger    logger.Interface
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	interval  time.Duration
}

// NewCleanupScheduler creates a new CleanupScheduler
func NewCleanupScheduler(
	cleanupUC *usecases.CleanupExpiredUseCase,
	interval time.Duration,
	logger logger.Interface,
) *CleanupScheduler {
	return &CleanupScheduler{
		cleanupUC: cleanupUC,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  interval,
	}
}

// Start starts the scheduler
func (s *CleanupScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting cleanup scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *CleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping cleanup scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("cleanup scheduler stopped")
	})
}

func (s *CleanupScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear anything left over from the
	// previous process lifetime
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("cleanup scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CleanupScheduler) sweep(ctx context.Context) {
	startTime := time.Now()

	result, err := s.cleanupUC.Execute(ctx)
	if err != nil {
		// logged inside the usecase; the loop keeps running
		return
	}

	if result.SessionsRemoved > 0 || result.StatesRemoved > 0 {
		s.logger.Infow("expired auth records swept",
			"sessions_removed", result.SessionsRemoved,
			"states_removed", result.StatesRemoved,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired auth records to sweep",
			"duration", time.Since(startTime),
		)
	}
}
