// internal/workers/research/recent-insights/handler.go
package recentinsights

import (
	"context"
	"time"

	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/validation"
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "research-recent-insights"
)

var inputSchema = validation.MustCompile(InputSchema)

type Orchestrator interface {
	RecentInsights(ctx context.Context, category models.Category, limit int) ([]research.Insight, error)
}

type Responder interface {
	Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, started time.Time)
	Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time)
}

type Handler struct {
	config       *Config
	orchestrator Orchestrator
	responder    Responder
	logger       logger.Logger
}

func NewHandler(config *Config, orchestrator Orchestrator, responder Responder, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		orchestrator: orchestrator,
		responder:    responder,
		logger:       log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := inputSchema.Decode(job.Variables, &input); err != nil {
		h.responder.Fail(context.Background(), client, job, err, started)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.responder.Fail(context.Background(), client, job, err, started)
		return
	}
	h.responder.Complete(context.Background(), client, job, output, started)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	category, err := models.ParseCategory(input.Category)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	insights, err := h.orchestrator.RecentInsights(ctx, category, input.Limit)
	if err != nil {
		return nil, research.ToStandardError(err)
	}
	if insights == nil {
		insights = []research.Insight{}
	}
	return &Output{Insights: insights, Count: len(insights)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
