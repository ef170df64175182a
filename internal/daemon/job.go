package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/sempr/cph-go/internal/runner"
	"github.com/sempr/cph-go/pkg/models"
)

// JobRunner runs one request. *runner.Runner implements it.
type JobRunner interface {
	Run(ctx context.Context, req runner.Request) (*models.RunReport, error)
}

// logNotifier forwards runner notifications to the daemon log.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Info(msg string)  { n.logger.Info(msg) }
func (n logNotifier) Error(msg string) { n.logger.Warn(msg) }

// RunJob executes one job and publishes its report. It always signals done
// with clientID when it returns.
func RunJob(ctx context.Context, r JobRunner, fetcher JobFetcher, job models.RunJob, clientID int, done chan<- int) {
	defer func() {
		done <- clientID // Notify that the job has finished
	}()

	req := runner.Request{
		Language:  job.Language,
		Workspace: job.Workspace,
		Manual:    job.Manual,
		Timeout:   time.Duration(job.TimeoutMs) * time.Millisecond,
	}
	report, err := r.Run(ctx, req)

	out := models.JobReport{JobID: job.ID, Report: report}
	if err != nil {
		out.Error = err.Error()
		slog.Warn("run failed", "job_id", job.ID, "client_id", clientID, "err", err)
	}

	// 即使 daemon 正在退出也要写回结果
	if err := fetcher.Report(context.WithoutCancel(ctx), out); err != nil {
		slog.Error("Could not report job", "job_id", job.ID, "err", err)
	}
}
