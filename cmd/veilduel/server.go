package main

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/veilduel/veilduel-backend/internal/config"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/service"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// startMaintenance runs the periodic background work: dropping expired
// matchmaking queue entries and abandoning matches nobody is playing.
func startMaintenance(repo storage.Repository, cfg *config.LoadedConfig) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("Failed to create maintenance scheduler", err, nil)
	}
	workerID := uuid.NewString()
	queueExpiry := time.Duration(cfg.QueueExpirySeconds) * time.Second
	staleAfter := time.Duration(cfg.AbandonAfterMinutes) * time.Minute

	_, err = scheduler.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() {
			n, err := repo.PurgeExpiredQueueEntries(time.Now().UTC().Add(-queueExpiry))
			if err != nil {
				logging.Error("queue purge failed", err, logging.Fields{"worker": workerID})
				return
			}
			if n > 0 {
				logging.Info("purged expired queue entries", logging.Fields{"count": n, "worker": workerID})
			}
		}),
	)
	if err != nil {
		logging.Fatal("Failed to schedule queue purge", err, nil)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			if _, err := service.AbandonStaleMatches(repo, staleAfter); err != nil {
				logging.Error("stale match sweep failed", err, logging.Fields{"worker": workerID})
			}
		}),
	)
	if err != nil {
		logging.Fatal("Failed to schedule stale match sweep", err, nil)
	}

	scheduler.Start()
}
