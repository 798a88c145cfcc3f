package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// JanitorTask is one periodic cleanup job. Run returns how many records it removed.
type JanitorTask struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Janitor runs cleanup tasks on a fixed interval until its context is cancelled
type Janitor struct {
	interval time.Duration
	tasks    []JanitorTask
	log      *zap.Logger
}

// NewJanitor creates a janitor; a non-positive interval defaults to an hour
func NewJanitor(interval time.Duration, log *zap.Logger, tasks ...JanitorTask) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Janitor{interval: interval, tasks: tasks, log: log.Named("janitor")}
}

// Start runs every task once, then on each tick, in a background goroutine.
// The returned channel closes when the loop exits.
func (j *Janitor) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		j.loop(ctx)
	}()
	return done
}

func (j *Janitor) loop(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce runs every task once. A failing task is logged and does not stop the others.
func (j *Janitor) RunOnce(ctx context.Context) {
	for _, task := range j.tasks {
		if ctx.Err() != nil {
			return
		}
		n, err := task.Run(ctx)
		if err != nil {
			j.log.Error("cleanup task failed", zap.String("task", task.Name), zap.Error(err))
			continue
		}
		if n > 0 {
			j.log.Info("cleanup task removed records", zap.String("task", task.Name), zap.Int64("count", n))
		}
	}
}
