package database

import (
	"context"
	"fmt"
	"time"

	"landlord-game/internal/game"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Recorder returns a game.Options.OnFinish callback that stores each result.
// Inserts run in their own goroutine so a slow database never holds a room.
func (s *Service) Recorder(timeout time.Duration) func(game.Result) {
	return func(r game.Result) {
		row := FromGame(r)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := s.Insert(ctx, row); err != nil {
				s.logger.Error("failed to record result", zap.String("room", r.RoomID), zap.Error(err))
				return
			}
			s.logger.Info("result recorded", zap.String("id", row.ID), zap.String("room", r.RoomID))
		}()
	}
}

// StartCleaner schedules the retention job and starts the scheduler. A zero
// retention keeps results forever and starts nothing.
func (s *Service) StartCleaner(schedule string, retention time.Duration) (*cron.Cron, error) {
	c := cron.New()
	if retention <= 0 {
		return c, nil
	}
	if _, err := c.AddFunc(schedule, s.cleanupJob(retention)); err != nil {
		return nil, fmt.Errorf("schedule cleanup %q: %w", schedule, err)
	}
	c.Start()
	s.logger.Info("result cleanup scheduled", zap.String("schedule", schedule), zap.Duration("retention", retention))
	return c, nil
}

func (s *Service) cleanupJob(retention time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := s.PruneBefore(ctx, time.Now().Add(-retention))
		if err != nil {
			s.logger.Error("result cleanup failed", zap.Error(err))
			return
		}
		s.logger.Info("result cleanup done", zap.Int64("deleted", n))
	}
}
