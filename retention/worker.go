package retention

import (
	"log/slog"
	"sync"
	"time"
)

// Pruner is the slice of the subscription manager the worker needs.
type Pruner interface {
	PruneNotifications(olderThan int64) (int64, error)
}

// Worker periodically deletes notifications older than the retention window.
type Worker struct {
	pruner    Pruner
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	running   bool
	mu        sync.Mutex
	stopChan  chan struct{}
}

// NewWorker creates a retention worker. Notifications older than retention
// are pruned every interval.
func NewWorker(pruner Pruner, retention, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the background retention worker
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("starting retention worker", "retention", w.retention, "interval", w.interval)

	go w.run()
}

// Stop gracefully stops the background retention worker
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.logger.Info("stopping retention worker")
	close(w.stopChan)
	w.running = false
}

func (w *Worker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start
	w.prune()

	for {
		select {
		case <-ticker.C:
			w.prune()
		case <-w.stopChan:
			return
		}
	}
}

func (w *Worker) prune() {
	threshold := time.Now().Add(-w.retention).Unix()
	pruned, err := w.pruner.PruneNotifications(threshold)
	if err != nil {
		w.logger.Error("retention prune failed", "error", err)
		return
	}
	if pruned > 0 {
		w.logger.Info("retention prune completed", "pruned", pruned, "threshold", threshold)
	}
}
