// internal/workers/research/contextual-queries/handler_test.go
package contextualqueries

import (
	"context"
	"testing"
	"time"

	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeOrchestrator builds real queries and records what it was asked.
type fakeOrchestrator struct {
	week     int
	answered [][]research.Query
	league   models.League
}

func (f *fakeOrchestrator) CurrentWeek(context.Context) int { return f.week }

func (f *fakeOrchestrator) ContextualQueries(roster []models.Player, matchups models.MatchupMap, league models.League) []research.Query {
	f.league = league
	return research.ContextualQueries(roster, matchups, league)
}

func (f *fakeOrchestrator) AnswerQueries(_ context.Context, queries []research.Query) []research.AnsweredQuery {
	f.answered = append(f.answered, queries)
	out := make([]research.AnsweredQuery, len(queries))
	for i, q := range queries {
		out[i] = research.AnsweredQuery{Query: q}
		if i == 0 {
			out[i].Result = &research.Result{Content: "answer"}
		}
	}
	return out
}

type nopResponder struct{}

func (nopResponder) Complete(context.Context, worker.JobClient, entities.Job, interface{}, time.Time) {
}

func (nopResponder) Fail(context.Context, worker.JobClient, entities.Job, error, time.Time) {
}

const rosterVariables = `{
	"roster": [
		{"id": "1", "name": "Christian McCaffrey", "position": "RB", "positionType": "starter", "status": "questionable", "nflTeam": "SF"},
		{"id": "2", "name": "CeeDee Lamb", "position": "WR", "positionType": "starter", "nflTeam": "DAL"},
		{"id": "3", "name": "Zay Flowers", "position": "WR", "positionType": "bench", "nflTeam": "BAL"},
		{"id": "4", "name": "Sam LaPorta", "position": "TE", "positionType": "bench", "nflTeam": "DET"}
	],
	"matchups": {"DAL": {"opponent": "PHI"}},
	"league": {"currentWeek": 9}
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BuildsQueriesWithoutAsking(t *testing.T) {
	o := &fakeOrchestrator{week: 3}
	h := NewHandler(LoadConfig(), o, nopResponder{}, logger.NewTestLogger(t))

	var input Input
	require.NoError(t, inputSchema.Decode(rosterVariables, &input))

	out, err := h.Execute(context.Background(), &input)
	require.NoError(t, err)
	assert.Equal(t, 9, out.Week)
	require.Equal(t, 3, out.Count)
	assert.Equal(t, models.CategoryInjury, out.Queries[0].Category)
	assert.Equal(t, "1", out.Queries[0].SubjectID)
	assert.Equal(t, models.CategoryMatchup, out.Queries[1].Category)
	assert.Equal(t, models.CategoryStartSit, out.Queries[2].Category)
	assert.Empty(t, out.Answers)
	assert.Empty(t, o.answered)
}

func TestHandler_Execute_FallsBackToStoredWeek(t *testing.T) {
	o := &fakeOrchestrator{week: 7}
	h := NewHandler(LoadConfig(), o, nopResponder{}, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		Roster: []models.Player{{ID: "1", Name: "A", Position: "RB", PositionType: "starter", Status: "out"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Week)
	assert.Equal(t, 7, o.league.CurrentWeek)
	require.Equal(t, 1, out.Count)
	assert.Contains(t, out.Queries[0].Prompt, "Week 7")
}

func TestHandler_Execute_AnswersWhenAsked(t *testing.T) {
	o := &fakeOrchestrator{week: 1}
	h := NewHandler(LoadConfig(), o, nopResponder{}, logger.NewTestLogger(t))

	var input Input
	require.NoError(t, inputSchema.Decode(rosterVariables, &input))
	input.Answer = true

	out, err := h.Execute(context.Background(), &input)
	require.NoError(t, err)
	require.Len(t, o.answered, 1)
	assert.Len(t, out.Answers, out.Count)
	assert.NotNil(t, out.Answers[0].Result)
	assert.Nil(t, out.Answers[1].Result)
}

func TestHandler_Execute_EmptyRoster(t *testing.T) {
	o := &fakeOrchestrator{week: 2}
	h := NewHandler(LoadConfig(), o, nopResponder{}, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Roster: []models.Player{}, Answer: true})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.Empty(t, out.Queries)
	assert.Empty(t, o.answered)
}

// ==========================
// Input Validation Tests
// ==========================

func TestInputSchema_Rejects(t *testing.T) {
	for _, doc := range []string{
		`{}`,
		`{"roster": [{"name": "A"}]}`,
		`{"roster": [], "matchups": {"DAL": {}}}`,
		`{"roster": [], "league": {"currentWeek": "nine"}}`,
	} {
		var in Input
		err := inputSchema.Decode(doc, &in)
		require.Error(t, err, doc)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code, doc)
	}
}
