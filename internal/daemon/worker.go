package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sempr/cph-go/pkg/models"
)

// Worker manages the cycle of fetching and running jobs.
type Worker struct {
	cfg     *Config
	fetcher JobFetcher
	runner  JobRunner
	done    chan int      // Channel to receive client IDs of finished jobs
	running map[int]int64 // Maps clientID to job ID
	wg      sync.WaitGroup
}

func NewWorker(cfg *Config, fetcher JobFetcher, runner JobRunner) *Worker {
	return &Worker{
		cfg:     cfg,
		fetcher: fetcher,
		runner:  runner,
		done:    make(chan int, cfg.MaxRunning),
		running: make(map[int]int64),
	}
}

// Run starts the main worker loop. It returns when ctx is cancelled, or in
// once mode when the queue is empty, after all started jobs have finished.
func (w *Worker) Run(ctx context.Context) {
	defer w.wg.Wait()

	ticker := time.NewTicker(time.Duration(w.cfg.SleepTime) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			jobsProcessed := w.work(ctx)

			// If in 'once' mode and nothing was processed, exit.
			if w.cfg.Once && jobsProcessed == 0 {
				return
			}

			// If there were no jobs, wait before trying again.
			if jobsProcessed == 0 {
				slog.Debug("Sleeping", "duration_sec", w.cfg.SleepTime)
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// work performs a single iteration of fetching and assigning jobs.
func (w *Worker) work(ctx context.Context) int {
	// Clean up finished jobs
	w.cleanupFinishedJobs()

	free := w.cfg.MaxRunning - len(w.running)
	if free <= 0 {
		w.waitForSlot(ctx)
		if free = w.cfg.MaxRunning - len(w.running); free <= 0 {
			return 0
		}
	}

	// Get new jobs
	jobs, err := w.fetcher.GetJobs(ctx, free)
	if err != nil {
		slog.Error("Could not get jobs", "err", err)
	}
	if len(jobs) == 0 {
		return 0
	}

	jobCount := 0
	// Assign new jobs
	for _, job := range jobs {
		if len(w.running) >= w.cfg.MaxRunning {
			break // No available slots
		}

		// Find a free clientID
		clientID := -1
		for i := 0; i < w.cfg.MaxRunning; i++ {
			if _, exists := w.running[i]; !exists {
				clientID = i
				break
			}
		}
		if clientID == -1 {
			break
		}

		ok, err := w.fetcher.CheckOut(ctx, job)
		if err != nil {
			slog.Error("Checkout failed for job", "job_id", job.ID, "err", err)
			continue
		}
		if !ok {
			continue
		}
		slog.Info("Starting run", "job_id", job.ID, "client_id", clientID, "lang", job.Language, "workspace", job.Workspace)
		w.start(ctx, job, clientID)
		jobCount++
	}
	return jobCount
}

func (w *Worker) start(ctx context.Context, job models.RunJob, clientID int) {
	w.running[clientID] = job.ID
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		RunJob(ctx, w.runner, w.fetcher, job, clientID, w.done)
	}()
}

// waitForSlot blocks until a running job finishes.
func (w *Worker) waitForSlot(ctx context.Context) {
	select {
	case clientID := <-w.done:
		w.finish(clientID)
	case <-ctx.Done():
	}
}

func (w *Worker) cleanupFinishedJobs() {
	for {
		select {
		case clientID := <-w.done:
			w.finish(clientID)
		default:
			return // No more finished jobs
		}
	}
}

func (w *Worker) finish(clientID int) {
	slog.Info("Run finished", "job_id", w.running[clientID], "client_id", clientID)
	delete(w.running, clientID)
}
