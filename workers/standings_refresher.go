package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var ErrInvalidInterval = errors.New("refresh interval must be positive")

// Refresher recomputes standings of every scheduled tournament.
type Refresher interface {
	RefreshScheduled(ctx context.Context) (int, error)
}

// StandingsRefresher periodically recomputes standings so the table catches up with
// results confirmed without an explicit recompute.
type StandingsRefresher struct {
	scheduler gocron.Scheduler
	refresher Refresher
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewStandingsRefresher(refresher Refresher, interval time.Duration, logger *slog.Logger) (*StandingsRefresher, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &StandingsRefresher{
		scheduler: scheduler,
		refresher: refresher,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(w.run),
		gocron.WithName("standings-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule standings refresh: %w", err)
	}
	return w, nil
}

func (w *StandingsRefresher) Start() {
	w.scheduler.Start()
}

// Shutdown cancels a running refresh and waits for the scheduler to stop.
func (w *StandingsRefresher) Shutdown() error {
	w.cancel()
	return w.scheduler.Shutdown()
}

func (w *StandingsRefresher) run() {
	started := time.Now()
	refreshed, err := w.refresher.RefreshScheduled(w.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.logger.Error("standings refresh failed", slog.Any("error", err))
		return
	}
	w.logger.Debug("standings refreshed",
		slog.Int("tournaments", refreshed),
		slog.Duration("took", time.Since(started)),
	)
}
