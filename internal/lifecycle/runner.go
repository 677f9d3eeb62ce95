package lifecycle

import (
	"context"
	"log"
	"time"

	"spectres-crm/internal/metrics"
)

// Archiver ships a finished run summary somewhere durable.
type Archiver interface {
	ArchiveRun(ctx context.Context, trigger string, result *RunResult) error
}

// Run triggers, recorded in logs and archive keys
const (
	TriggerSchedule = "schedule"
	TriggerHTTP     = "http"
	TriggerCron     = "cron"
	TriggerCLI      = "cli"
)

// Runner is the entry point shared by the HTTP endpoint, the scheduler and the CLI.
// It does not serialize runs: overlapping triggers each run the job.
type Runner struct {
	job      *Job
	archiver Archiver
	hooks    []func(*RunResult)
}

func NewRunner(job *Job) *Runner {
	return &Runner{job: job}
}

// SetArchiver enables archiving of run summaries
func (r *Runner) SetArchiver(a Archiver) {
	r.archiver = a
}

// OnComplete registers fn to be called after every successful run
func (r *Runner) OnComplete(fn func(*RunResult)) {
	r.hooks = append(r.hooks, fn)
}

func (r *Runner) Run(ctx context.Context, trigger string) (*RunResult, error) {
	start := time.Now()
	log.Printf("[Lifecycle] Run started (trigger: %s)", trigger)

	result, err := r.job.Run(ctx)
	metrics.LifecycleRunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LifecycleRunsTotal.WithLabelValues("failed").Inc()
		log.Printf("[Lifecycle] Run aborted: %v", err)
		return nil, err
	}

	metrics.LifecycleRunsTotal.WithLabelValues("ok").Inc()
	metrics.LifecycleMutationsTotal.WithLabelValues("status_changed").Add(float64(result.StatusChanged))
	metrics.LifecycleMutationsTotal.WithLabelValues("owner_reset").Add(float64(result.OwnersReset))
	metrics.LifecycleClientErrorsTotal.Add(float64(len(result.Errors)))
	metrics.LifecycleLastRunTimestamp.SetToCurrentTime()

	log.Printf("[Lifecycle] Run finished in %v: processed=%d statusChanged=%d ownersReset=%d errors=%d",
		time.Since(start).Round(time.Millisecond), result.Processed, result.StatusChanged, result.OwnersReset, len(result.Errors))

	for _, fn := range r.hooks {
		fn(result)
	}

	if r.archiver != nil {
		if err := r.archiver.ArchiveRun(ctx, trigger, result); err != nil {
			log.Printf("[Lifecycle] Failed to archive run summary: %v", err)
		}
	}

	return result, nil
}
