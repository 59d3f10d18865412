package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// SchedulerService runs the periodic lifecycle housekeeping jobs:
// expiring stale pending requests and reminding parties to rate.
type SchedulerService struct {
	cron        *cron.Cron
	records     repositories.RentalRecordRepository
	transitions StatusTransitioner
	notifier    Notifier
	pendingTTL  time.Duration
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	records repositories.RentalRecordRepository,
	transitions StatusTransitioner,
	notifier Notifier,
	pendingTTL time.Duration,
) *SchedulerService {
	return &SchedulerService{
		cron:        cron.New(),
		records:     records,
		transitions: transitions,
		notifier:    notifier,
		pendingTTL:  pendingTTL,
	}
}

// Start registers and starts the cron jobs
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc("@every 1h", s.cancelStalePending); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 9 * * *", s.remindUnrated); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Scheduler started (pending TTL: %s)", s.pendingTTL)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Scheduler stopped")
}

// cancelStalePending cancels requests the owner never answered.
func (s *SchedulerService) cancelStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.pendingTTL)
	records, err := s.records.ListStaleByStatus(ctx, domain.StatusPending, cutoff)
	if err != nil {
		log.Printf("⚠️ Stale pending scan failed: %v", err)
		return
	}

	canceled := 0
	for _, record := range records {
		err := s.transitions.UpdateStatus(ctx, &StatusChangeInput{
			ID:          record.ID,
			NewStatus:   domain.StatusCanceled,
			Description: "request expired without a response",
		})
		if err != nil {
			log.Printf("⚠️ Auto-cancel of record %d failed: %v", record.ID, err)
			continue
		}
		canceled++
	}

	if canceled > 0 {
		log.Printf("✅ Auto-canceled %d stale pending requests", canceled)
	}
}

// remindUnrated nudges both parties of records still waiting on ratings.
func (s *SchedulerService) remindUnrated() {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := s.records.ListByStatus(ctx, domain.StatusNotCommented)
	if err != nil {
		log.Printf("⚠️ Unrated record scan failed: %v", err)
		return
	}

	for _, record := range records {
		s.notifier.Notify(record)
	}

	if len(records) > 0 {
		log.Printf("✅ Sent rating reminders for %d records", len(records))
	}
}
