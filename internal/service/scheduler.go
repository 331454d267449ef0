// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	db            *sql.DB
	cron          *cron.Cron
	logger        *slog.Logger
	events        *EventService
	retentionDays int
}

// NewScheduler creates a scheduler. Events older than retentionDays are
// pruned nightly.
func NewScheduler(db *sql.DB, logger *slog.Logger, retentionDays int) *Scheduler {
	return &Scheduler{
		db:            db,
		cron:          cron.New(),
		logger:        logger,
		events:        NewEventService(db),
		retentionDays: retentionDays,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Nightly at 03:00.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.pruneEvents(); err != nil {
			s.logger.Error("event pruning failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) pruneEvents() error {
	if s.retentionDays <= 0 {
		return nil
	}
	pruned, err := s.events.DeleteOldEvents(context.Background(),
		time.Duration(s.retentionDays)*24*time.Hour)
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Info("pruned old events", "count", pruned, "retention_days", s.retentionDays)
	}
	return nil
}
