// internal/workers/research/search-insights/handler.go
package searchinsights

import (
	"context"
	"strings"
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
	TaskType = "research-search-insights"
)

var inputSchema = validation.MustCompile(InputSchema)

// Searcher is the full-text insight index.
type Searcher interface {
	Search(ctx context.Context, text string, category models.Category, limit int) ([]research.IndexedInsight, error)
}

type Responder interface {
	Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, started time.Time)
	Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time)
}

type Handler struct {
	config    *Config
	searcher  Searcher
	responder Responder
	logger    logger.Logger
}

func NewHandler(config *Config, searcher Searcher, responder Responder, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		searcher:  searcher,
		responder: responder,
		logger:    log.With(map[string]interface{}{"taskType": TaskType}),
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

	hits, err := h.searcher.Search(ctx, strings.TrimSpace(input.Text), category, input.Limit)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	if hits == nil {
		hits = []research.IndexedInsight{}
	}

	h.logger.Debug("insight search completed", map[string]interface{}{
		"category": string(category),
		"hits":     len(hits),
	})
	return &Output{Insights: hits, Count: len(hits)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
