package worker

import (
	"context"
	"log/slog"
	"time"
)

// Task is one periodic maintenance job. Run returns how many items it
// removed or touched.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// Janitor runs its tasks on a fixed interval until the context ends.
type Janitor struct {
	tasks    []Task
	interval time.Duration
	logger   *slog.Logger
}

func NewJanitor(interval time.Duration, logger *slog.Logger, tasks ...Task) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Janitor{tasks: tasks, interval: interval, logger: logger.With(slog.String("component", "janitor"))}
}

// Start blocks until ctx is cancelled. Run it in a goroutine.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("janitor started", slog.Duration("interval", j.interval), slog.Int("tasks", len(j.tasks)))

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce runs every task in order. A failing task is logged and does not
// stop the others.
func (j *Janitor) RunOnce(ctx context.Context) {
	for _, t := range j.tasks {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		n, err := t.Run(ctx)
		if err != nil {
			j.logger.Error("janitor task failed",
				slog.String("task", t.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if n > 0 {
			j.logger.Info("janitor task completed",
				slog.String("task", t.Name),
				slog.Int("removed", n),
				slog.Duration("duration", time.Since(start)),
			)
		}
	}
}
