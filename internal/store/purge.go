package store

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/pkg/logger"
	"github.com/evalplatform/evalreport/pkg/telemetry"
)

const (
	// DefaultPurgeAfterDays is how long soft-deleted reports are kept
	DefaultPurgeAfterDays = 30
	// DefaultPurgeSchedule runs the purge daily at 3 AM
	DefaultPurgeSchedule = "0 3 * * *"
)

// PurgeService periodically hard-deletes soft-deleted saved reports
type PurgeService struct {
	store          SavedReportStore
	cron           *cron.Cron
	schedule       string
	purgeAfterDays int
	entryID        cron.EntryID
	now            func() time.Time
	mu             sync.Mutex
}

// NewPurgeService creates a purge service. Empty or non-positive settings
// fall back to the defaults.
func NewPurgeService(store SavedReportStore, purgeAfterDays int, schedule string) *PurgeService {
	if purgeAfterDays <= 0 {
		purgeAfterDays = DefaultPurgeAfterDays
	}
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}

	return &PurgeService{
		store:          store,
		cron:           cron.New(),
		schedule:       schedule,
		purgeAfterDays: purgeAfterDays,
		now:            time.Now,
	}
}

// Start schedules the purge job and runs one pass in the background
func (s *PurgeService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		logger.Error("Failed to schedule saved report purge", zap.String("schedule", s.schedule), zap.Error(err))
		return err
	}
	s.entryID = entryID
	s.cron.Start()

	logger.Info("Saved report purge service started",
		zap.String("schedule", s.schedule),
		zap.Int("purge_after_days", s.purgeAfterDays),
	)

	go s.run()
	return nil
}

// Stop stops the scheduler and waits for a running purge to finish
func (s *PurgeService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		logger.Info("Stopping saved report purge service")
		ctx := s.cron.Stop()
		<-ctx.Done()
		logger.Info("Saved report purge service stopped")
	}
}

func (s *PurgeService) run() {
	if _, err := s.Purge(context.Background()); err != nil {
		logger.Error("Failed to purge deleted saved reports", zap.Error(err))
	}
}

// Purge removes reports soft-deleted more than purgeAfterDays ago and
// returns how many rows were removed.
func (s *PurgeService) Purge(ctx context.Context) (int64, error) {
	startTime := time.Now()
	cutoff := s.now().AddDate(0, 0, -s.purgeAfterDays)

	deleted, err := s.store.PurgeDeletedBefore(cutoff)
	if err != nil {
		return 0, err
	}

	telemetry.GetMetrics().RecordReportsPurged(ctx, deleted)
	logger.Info("Saved report purge completed",
		zap.Int64("deleted_count", deleted),
		zap.Time("cutoff", cutoff),
		zap.Duration("duration", time.Since(startTime)),
	)
	return deleted, nil
}
