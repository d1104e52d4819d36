package autotheme

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the switcher on a fixed interval using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	switcher  *Switcher
	interval  time.Duration
}

// NewScheduler creates a scheduler ticking the switcher every interval.
func NewScheduler(switcher *Switcher, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{scheduler: s, switcher: switcher, interval: interval}, nil
}

// Start registers the periodic job and begins the scheduler. The first
// evaluation runs immediately so the session starts in the right theme.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.tick, ctx),
		gocron.WithName("autotheme"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule autotheme job: %w", err)
	}

	slog.Info("autotheme scheduler starting", "interval", s.interval.String())
	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running tick to finish.
func (s *Scheduler) Stop() error {
	slog.Info("autotheme scheduler stopping")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) tick(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, _, err := s.switcher.Evaluate(tickCtx, time.Now()); err != nil {
		slog.Error("autotheme evaluation failed", "error", err)
	}
}
