package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LikeCountStore repairs stored like counts
type LikeCountStore interface {
	ReconcileLikeCounts(ctx context.Context) (int, error)
}

// LikeCountReconciler periodically rewrites like_count on ideas where it
// no longer matches the size of liked_by. The schema derives the count on
// every write; this catches rows stored before that rule existed.
type LikeCountReconciler struct {
	store    LikeCountStore
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewLikeCountReconciler creates a new reconciler job
func NewLikeCountReconciler(store LikeCountStore, interval time.Duration) *LikeCountReconciler {
	if interval == 0 {
		interval = 10 * time.Minute
	}
	return &LikeCountReconciler{
		store:    store,
		interval: interval,
	}
}

// Start begins the reconciler job
func (j *LikeCountReconciler) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	stop := make(chan struct{})
	j.stopCh = stop
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run(stop)
	slog.Info("like count reconciler started", slog.Duration("interval", j.interval))
}

// Stop gracefully stops the reconciler job
func (j *LikeCountReconciler) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	stop := j.stopCh
	j.mu.Unlock()

	close(stop)
	j.wg.Wait()
	slog.Info("like count reconciler stopped")
}

func (j *LikeCountReconciler) run(stop <-chan struct{}) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.reconcile()
		case <-stop:
			return
		}
	}
}

func (j *LikeCountReconciler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fixed, err := j.RunOnce(ctx)
	if err != nil {
		// A conflict with live toggles is harmless; the next tick retries.
		slog.Warn("like count reconcile failed", slog.String("error", err.Error()))
		return
	}
	if fixed > 0 {
		slog.Info("repaired like counts", slog.Int("ideas", fixed))
	}
}

// RunOnce runs a single reconcile pass
func (j *LikeCountReconciler) RunOnce(ctx context.Context) (int, error) {
	return j.store.ReconcileLikeCounts(ctx)
}

// IsRunning returns whether the job is running
func (j *LikeCountReconciler) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
