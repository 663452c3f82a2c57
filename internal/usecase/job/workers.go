package job

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StartWorkerPool starts the bounded pool plus the stale-job sweeper and
// the terminal-job pruner.
func (o *Orchestrator) StartWorkerPool(ctx context.Context, workerCount int) error {
	o.workerMutex.Lock()
	defer o.workerMutex.Unlock()

	if o.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	o.isWorkerPoolRunning = true
	o.workerStopChan = make(chan struct{})

	if o.logger != nil {
		o.logger.Info("🚀 Starting job worker pool",
			zap.Int("worker_count", workerCount),
			zap.Duration("poll_interval", o.cfg.PollInterval),
		)
	}

	for i := 0; i < workerCount; i++ {
		o.workerWg.Add(1)
		go o.worker(ctx, i)
	}

	o.workerWg.Add(1)
	go o.staleSweeper(ctx)

	o.workerWg.Add(1)
	go o.terminalPruner(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (o *Orchestrator) StopWorkerPool() error {
	o.workerMutex.Lock()
	defer o.workerMutex.Unlock()

	if !o.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if o.logger != nil {
		o.logger.Info("🛑 Stopping job worker pool...")
	}

	close(o.workerStopChan)
	o.workerWg.Wait()
	o.isWorkerPoolRunning = false

	if o.logger != nil {
		o.logger.Info("✅ Job worker pool stopped")
	}

	return nil
}

// worker polls for queued jobs and runs one at a time to completion.
// After finishing a job it immediately polls again, so a backlog drains
// at full pool speed and the ticker only paces the idle case.
func (o *Orchestrator) worker(parentCtx context.Context, workerID int) {
	defer o.workerWg.Done()

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	if o.logger != nil {
		o.logger.Info("👷 Worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-o.workerStopChan:
			if o.logger != nil {
				o.logger.Info("👷 Worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			for {
				claimed, err := o.runNext(parentCtx, workerID)
				if err != nil {
					if o.logger != nil {
						o.logger.Error("❌ Failed to poll jobs",
							zap.Int("worker_id", workerID),
							zap.Error(err),
						)
					}
					break
				}
				if !claimed {
					break
				}
			}
		}
	}
}

// staleSweeper fails jobs stuck in processing beyond the staleness
// threshold. A job gets there when the process died mid-pipeline; there
// is no lease/heartbeat recovery, the operator resubmits manually.
func (o *Orchestrator) staleSweeper(parentCtx context.Context) {
	defer o.workerWg.Done()

	ticker := time.NewTicker(o.cfg.StaleAfter / 2)
	defer ticker.Stop()

	for {
		select {
		case <-o.workerStopChan:
			return

		case <-ticker.C:
			stale, err := o.jobs.FailStaleProcessing(parentCtx, o.cfg.StaleAfter)
			if err != nil {
				if o.logger != nil {
					o.logger.Error("❌ Failed to sweep stale jobs", zap.Error(err))
				}
				continue
			}
			for _, j := range stale {
				detail := "job stale in processing, worker presumed dead; resubmit manually"
				if markErr := o.packs.MarkAsFailed(parentCtx, j.TargetSlidePackID, detail); markErr != nil && o.logger != nil {
					o.logger.Error("❌ Failed to fail pack of stale job",
						zap.String("job_id", j.ID.String()),
						zap.Error(markErr),
					)
				}
				o.releaseLease(parentCtx, j.TargetSlidePackID)
				if o.logger != nil {
					o.logger.Warn("⚠️ Stale processing job failed",
						zap.String("job_id", j.ID.String()),
						zap.String("slide_pack_id", j.TargetSlidePackID.String()),
					)
				}
			}
		}
	}
}

// terminalPruner deletes terminal jobs past the retention window. The
// pack row keeps the outcome; the job row is just bookkeeping.
func (o *Orchestrator) terminalPruner(parentCtx context.Context) {
	defer o.workerWg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-o.workerStopChan:
			return

		case <-ticker.C:
			cutoff := time.Now().Add(-o.cfg.PruneAfter)
			n, err := o.jobs.DeleteTerminalBefore(parentCtx, cutoff)
			if err != nil {
				if o.logger != nil {
					o.logger.Error("❌ Failed to prune terminal jobs", zap.Error(err))
				}
				continue
			}
			if n > 0 && o.logger != nil {
				o.logger.Info("🧹 Pruned terminal jobs",
					zap.Int64("count", n),
				)
			}
		}
	}
}
