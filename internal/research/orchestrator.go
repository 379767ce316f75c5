// internal/research/orchestrator.go
package research

import (
	"context"
	"fmt"
	"strings"

	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/metrics"
	"fantasy-research/internal/models"
)

// Researcher answers a single prompt.
type Researcher interface {
	Enabled() bool
	Research(ctx context.Context, prompt string) Outcome
}

// InsightSink receives insights after they have been persisted.
type InsightSink interface {
	Name() string
	Publish(ctx context.Context, insight *Insight) error
}

// Orchestrator turns fantasy-sports state into research questions, asks them
// and records the answers. Each call is independent; the only shared state is
// the store.
type Orchestrator struct {
	researcher Researcher
	store      Store
	sinks      []InsightSink
	logger     logger.Logger
}

func NewOrchestrator(researcher Researcher, store Store, log logger.Logger, sinks ...InsightSink) *Orchestrator {
	return &Orchestrator{
		researcher: researcher,
		store:      store,
		sinks:      sinks,
		logger:     logger.ForComponent(log, "orchestrator"),
	}
}

// Enabled reports whether research calls can be made at all.
func (o *Orchestrator) Enabled() bool {
	return o.researcher.Enabled()
}

// run is the explicit outcome of one orchestrated query. The public methods
// collapse it to a nil result for anything but StatusAnswered.
type run struct {
	Outcome
	Insight    *Insight
	PersistErr error
}

func (o *Orchestrator) execute(ctx context.Context, q Query, persist bool) run {
	out := o.researcher.Research(ctx, q.Prompt)
	r := run{Outcome: out}
	if out.Status != StatusAnswered || out.Result == nil {
		return r
	}
	if !persist || o.store == nil {
		return r
	}

	insight, err := o.store.SaveInsight(ctx, q.Category, q.Prompt, out.Result)
	if err != nil {
		o.logger.Warn("insight not persisted, returning answer anyway", map[string]interface{}{
			"category": string(q.Category),
			"error":    err.Error(),
		})
		r.PersistErr = err
		return r
	}
	r.Insight = insight
	o.publish(ctx, insight)
	return r
}

func (o *Orchestrator) publish(ctx context.Context, insight *Insight) {
	if insight == nil {
		return
	}
	for _, sink := range o.sinks {
		if err := sink.Publish(ctx, insight); err != nil {
			metrics.InsightSinkFailures.WithLabelValues(sink.Name()).Inc()
			o.logger.Warn("insight sink failed", map[string]interface{}{
				"sink":      sink.Name(),
				"insightId": insight.ID,
				"error":     err.Error(),
			})
		}
	}
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

// PerformResearch asks a free-text question. The answer is not persisted.
func (o *Orchestrator) PerformResearch(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("query", "is required")
	}
	return o.execute(ctx, FreeTextQuery(text), false).Result, nil
}

// StartSit assesses the current lineup.
func (o *Orchestrator) StartSit(ctx context.Context, starters, bench []models.Player) (*Result, error) {
	if len(starters) == 0 {
		return nil, invalid("starters", "must not be empty")
	}
	return o.execute(ctx, StartSitQuery(starters, bench), true).Result, nil
}

// EvaluateTrade grades a trade proposal. teamNeeds may be empty.
func (o *Orchestrator) EvaluateTrade(ctx context.Context, giving, receiving []models.Player, teamNeeds []string) (*Result, error) {
	if len(giving) == 0 {
		return nil, invalid("giving", "must not be empty")
	}
	if len(receiving) == 0 {
		return nil, invalid("receiving", "must not be empty")
	}
	return o.execute(ctx, TradeQuery(giving, receiving, teamNeeds), true).Result, nil
}

// WaiverRecommendations ranks pickups from the available pool. faabBudget is optional.
func (o *Orchestrator) WaiverRecommendations(ctx context.Context, roster, available []models.Player, faabBudget *float64) (*Result, error) {
	if len(available) == 0 {
		return nil, invalid("available", "must not be empty")
	}
	if faabBudget != nil && *faabBudget < 0 {
		return nil, invalid("faabBudget", "must not be negative")
	}
	return o.execute(ctx, WaiverQuery(roster, available, faabBudget), true).Result, nil
}

// BreakingNewsContext explains the fantasy impact of a headline. The answer is
// not persisted.
func (o *Orchestrator) BreakingNewsContext(ctx context.Context, item models.NewsItem) (*Result, error) {
	if strings.TrimSpace(item.Headline) == "" {
		return nil, invalid("headline", "is required")
	}
	return o.execute(ctx, NewsQuery(item), false).Result, nil
}

// ContextualQueries builds pending questions for the roster without asking them.
func (o *Orchestrator) ContextualQueries(roster []models.Player, matchups models.MatchupMap, league models.League) []Query {
	return ContextualQueries(roster, matchups, league)
}

// AnsweredQuery pairs a generated question with its answer, if any.
type AnsweredQuery struct {
	Query  Query   `json:"query"`
	Result *Result `json:"result,omitempty"`
}

// AnswerQueries asks each query in order and persists every answer under the
// query's category. Queries are asked one at a time. A closed gate returns the
// queries unanswered without any network call.
func (o *Orchestrator) AnswerQueries(ctx context.Context, queries []Query) []AnsweredQuery {
	answers := make([]AnsweredQuery, 0, len(queries))
	for _, q := range queries {
		a := AnsweredQuery{Query: q}
		if o.researcher.Enabled() && ctx.Err() == nil {
			a.Result = o.execute(ctx, q, true).Result
		}
		answers = append(answers, a)
	}
	return answers
}

// RecentInsights lists stored insights newest first. An empty category lists all.
func (o *Orchestrator) RecentInsights(ctx context.Context, category models.Category, limit int) ([]Insight, error) {
	if category != "" && !category.Valid() {
		return nil, invalid("category", fmt.Sprintf("%q is unknown", category))
	}
	if o.store == nil {
		return nil, fmt.Errorf("%w: no insight store", ErrPersistence)
	}
	return o.store.RecentInsights(ctx, category, NormalizeLimit(limit))
}

// CurrentWeek returns the league's current week, or 1 without a store.
func (o *Orchestrator) CurrentWeek(ctx context.Context) int {
	if o.store == nil {
		return 1
	}
	return o.store.CurrentWeek(ctx)
}
