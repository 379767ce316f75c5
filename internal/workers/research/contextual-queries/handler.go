// internal/workers/research/contextual-queries/handler.go
package contextualqueries

import (
	"context"
	"time"

	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/validation"
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "research-contextual-queries"
)

var inputSchema = validation.MustCompile(InputSchema)

type Orchestrator interface {
	CurrentWeek(ctx context.Context) int
	ContextualQueries(roster []models.Player, matchups models.MatchupMap, league models.League) []research.Query
	AnswerQueries(ctx context.Context, queries []research.Query) []research.AnsweredQuery
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
	league := models.League{}
	if input.League != nil {
		league = *input.League
	}
	if league.CurrentWeek <= 0 {
		league.CurrentWeek = h.orchestrator.CurrentWeek(ctx)
	}

	queries := h.orchestrator.ContextualQueries(input.Roster, input.Matchups, league)
	output := &Output{
		Queries: queries,
		Count:   len(queries),
		Week:    league.CurrentWeek,
	}

	if input.Answer && len(queries) > 0 {
		output.Answers = h.orchestrator.AnswerQueries(ctx, queries)
		answered := 0
		for _, a := range output.Answers {
			if a.Result != nil {
				answered++
			}
		}
		h.logger.Info("contextual queries answered", map[string]interface{}{
			"queries":  len(queries),
			"answered": answered,
		})
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
