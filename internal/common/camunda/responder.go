// internal/common/camunda/responder.go
package camunda

import (
	"context"
	"time"

	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/metrics"
	"fantasy-research/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobResponder sends the terminal command for a job and records its metrics.
type JobResponder struct {
	errors *apperrors.ErrorHandler
	obs    *observability.Observability
	logger logger.Logger
}

// NewJobResponder returns a responder. obs may be nil.
func NewJobResponder(log logger.Logger, obs *observability.Observability) *JobResponder {
	return &JobResponder{
		errors: apperrors.NewErrorHandler(log),
		obs:    obs,
		logger: log,
	}
}

// Complete sends output as the job's variables. Completion metrics are only
// recorded once the broker accepted the command; an unencodable output fails
// the job instead.
func (r *JobResponder) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, started time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to encode job output", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.Fail(ctx, client, job, apperrors.NewInternalError(err), started)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	elapsed := time.Since(started)
	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
	metrics.WorkerJobDuration.WithLabelValues(job.Type).Observe(elapsed.Seconds())
	r.obs.RecordJob(ctx, job.Type, "completed", elapsed)

	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"taskType":   job.Type,
		"durationMs": elapsed.Milliseconds(),
	})
}

// Fail reports err through the error handler, which picks between a retrying
// fail command and a BPMN error.
func (r *JobResponder) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time) {
	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(stdErr.Code)).Inc()
	r.obs.RecordJob(ctx, job.Type, "failed", time.Since(started))

	r.errors.HandleJobError(ctx, client, job, stdErr)
}
