package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"interviewai-backend/internal/app"
)

// RetentionSweeper runs the expiry sweep on a fixed interval. The
// sweep is also exposed as an operator endpoint; this goroutine is
// just the unattended trigger for the same idempotent operation.
type RetentionSweeper struct {
	sweep    *app.SweepService
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRetentionSweeper(sweep *app.SweepService, interval time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		sweep:    sweep,
		interval: interval,
	}
}

func (w *RetentionSweeper) Start(ctx context.Context) {
	if w.cancel != nil || w.interval <= 0 {
		return
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				report, err := w.sweep.RunSweep(workerCtx)
				if err != nil {
					log.Printf("retention sweep failed: %v", err)
					continue
				}
				if report.UsersSwept > 0 || len(report.FailedUserIDs) > 0 {
					log.Printf("retention sweep: %d users swept, %d sessions, %d segments, %d suggestions, %d audit events deleted, %d failed",
						report.UsersSwept, report.Sessions, report.Segments, report.Suggestions, report.AuditEvents, len(report.FailedUserIDs))
				}
			}
		}
	}()
}

func (w *RetentionSweeper) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
