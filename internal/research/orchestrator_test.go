// internal/research/orchestrator_test.go
package research

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeResearcher struct {
	mu      sync.Mutex
	enabled bool
	outcome Outcome
	prompts []string
}

func answeringResearcher(content string) *fakeResearcher {
	return &fakeResearcher{
		enabled: true,
		outcome: answered(&Result{Content: content, Citations: []string{}, Confidence: Score(content)}),
	}
}

func (f *fakeResearcher) Enabled() bool { return f.enabled }

func (f *fakeResearcher) Research(_ context.Context, prompt string) Outcome {
	if !f.enabled {
		return disabled()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.outcome
}

func (f *fakeResearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type savedInsight struct {
	category models.Category
	query    string
	result   *Result
}

type fakeStore struct {
	mu      sync.Mutex
	saved   []savedInsight
	saveErr error
	recent  []Insight
	listed  []int
}

func (s *fakeStore) SaveInsight(_ context.Context, category models.Category, queryText string, result *Result) (*Insight, error) {
	if result == nil {
		return nil, nil
	}
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, savedInsight{category, queryText, result})
	return &Insight{
		ID:           "id-" + string(category),
		QueryType:    category,
		QueryText:    queryText,
		Confidence:   result.Confidence,
		Week:         1,
		IsActionable: IsActionable(result.Confidence),
	}, nil
}

func (s *fakeStore) RecentInsights(_ context.Context, category models.Category, limit int) ([]Insight, error) {
	s.listed = append(s.listed, limit)
	var out []Insight
	for _, in := range s.recent {
		if category != "" && in.QueryType != category {
			continue
		}
		out = append(out, in)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) CurrentWeek(context.Context) int { return 1 }

func (s *fakeStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type fakeSink struct {
	name      string
	err       error
	published []*Insight
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Publish(_ context.Context, in *Insight) error {
	f.published = append(f.published, in)
	return f.err
}

var (
	mahomes = models.Player{ID: "1", Name: "Patrick Mahomes", Position: "QB", PositionType: "starter", NFLTeam: "KC"}
	kelce   = models.Player{ID: "2", Name: "Travis Kelce", Position: "TE", PositionType: "starter", NFLTeam: "KC"}
	pacheco = models.Player{ID: "3", Name: "Isiah Pacheco", Position: "RB", PositionType: "bench", NFLTeam: "KC"}
	hill    = models.Player{ID: "4", Name: "Tyreek Hill", Position: "WR", PositionType: "starter", NFLTeam: "MIA"}
)

// ==========================
// Disabled Gate
// ==========================

func TestOrchestrator_Disabled_NoCallsNoWrites(t *testing.T) {
	researcher := &fakeResearcher{enabled: false}
	store := &fakeStore{}
	sink := &fakeSink{name: "index"}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t), sink)
	ctx := context.Background()
	budget := 40.0

	results := []func() (*Result, error){
		func() (*Result, error) { return o.PerformResearch(ctx, "who wins?") },
		func() (*Result, error) { return o.StartSit(ctx, []models.Player{mahomes}, []models.Player{pacheco}) },
		func() (*Result, error) {
			return o.EvaluateTrade(ctx, []models.Player{kelce}, []models.Player{hill}, nil)
		},
		func() (*Result, error) {
			return o.WaiverRecommendations(ctx, []models.Player{mahomes}, []models.Player{pacheco}, &budget)
		},
		func() (*Result, error) { return o.BreakingNewsContext(ctx, models.NewsItem{Headline: "Kelce out"}) },
	}

	for i, call := range results {
		res, err := call()
		assert.NoError(t, err, "operation %d", i)
		assert.Nil(t, res, "operation %d", i)
	}

	answers := o.AnswerQueries(ctx, []Query{InjuryQuery(kelce, 3)})
	require.Len(t, answers, 1)
	assert.Nil(t, answers[0].Result)

	assert.Equal(t, 0, researcher.calls())
	assert.Equal(t, 0, store.writes())
	assert.Empty(t, sink.published)
	assert.False(t, o.Enabled())
}

// ==========================
// Validation
// ==========================

func TestOrchestrator_InvalidInput_RejectedBeforeResearch(t *testing.T) {
	researcher := answeringResearcher("definitely")
	store := &fakeStore{}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t))
	ctx := context.Background()
	negative := -1.0

	tests := []struct {
		name  string
		call  func() (*Result, error)
		field string
	}{
		{"blank free text", func() (*Result, error) { return o.PerformResearch(ctx, "   ") }, "query"},
		{"no starters", func() (*Result, error) { return o.StartSit(ctx, nil, []models.Player{pacheco}) }, "starters"},
		{"empty giving", func() (*Result, error) {
			return o.EvaluateTrade(ctx, []models.Player{}, []models.Player{hill}, nil)
		}, "giving"},
		{"empty receiving", func() (*Result, error) {
			return o.EvaluateTrade(ctx, []models.Player{kelce}, nil, nil)
		}, "receiving"},
		{"no available players", func() (*Result, error) {
			return o.WaiverRecommendations(ctx, []models.Player{mahomes}, nil, nil)
		}, "available"},
		{"negative budget", func() (*Result, error) {
			return o.WaiverRecommendations(ctx, nil, []models.Player{pacheco}, &negative)
		}, "faabBudget"},
		{"empty headline", func() (*Result, error) { return o.BreakingNewsContext(ctx, models.NewsItem{}) }, "headline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.call()
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.Equal(t, 0, researcher.calls())
	assert.Equal(t, 0, store.writes())
}

func TestOrchestrator_InvalidInput_EvenWhenDisabled(t *testing.T) {
	o := NewOrchestrator(&fakeResearcher{enabled: false}, &fakeStore{}, logger.NewTestLogger(t))

	_, err := o.EvaluateTrade(context.Background(), nil, []models.Player{hill}, nil)

	assert.True(t, errors.Is(err, ErrInvalidInput))
}

// ==========================
// Persistence
// ==========================

func TestOrchestrator_PersistsOnlyPersistentOperations(t *testing.T) {
	researcher := answeringResearcher("He will definitely help.")
	store := &fakeStore{}
	sink := &fakeSink{name: "index"}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t), sink)
	ctx := context.Background()

	_, err := o.PerformResearch(ctx, "who wins?")
	require.NoError(t, err)
	_, err = o.BreakingNewsContext(ctx, models.NewsItem{Headline: "Kelce questionable"})
	require.NoError(t, err)
	assert.Equal(t, 0, store.writes())

	res, err := o.StartSit(ctx, []models.Player{mahomes}, []models.Player{pacheco})
	require.NoError(t, err)
	require.NotNil(t, res)
	_, err = o.EvaluateTrade(ctx, []models.Player{kelce}, []models.Player{hill}, []string{"WR depth"})
	require.NoError(t, err)
	_, err = o.WaiverRecommendations(ctx, []models.Player{mahomes}, []models.Player{pacheco}, nil)
	require.NoError(t, err)

	require.Equal(t, 3, store.writes())
	assert.Equal(t, models.CategoryStartSit, store.saved[0].category)
	assert.Equal(t, models.CategoryTrade, store.saved[1].category)
	assert.Equal(t, models.CategoryWaiver, store.saved[2].category)
	assert.Contains(t, store.saved[1].query, "GIVING: Travis Kelce")
	assert.Equal(t, 0.75, store.saved[0].result.Confidence)

	require.Len(t, sink.published, 3)
	assert.True(t, sink.published[0].IsActionable)
	assert.Equal(t, 5, researcher.calls())
}

func TestOrchestrator_UpstreamFailure_NoWrite(t *testing.T) {
	researcher := &fakeResearcher{enabled: true, outcome: failed(ErrUpstream)}
	store := &fakeStore{}
	sink := &fakeSink{name: "notifier"}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t), sink)

	res, err := o.StartSit(context.Background(), []models.Player{mahomes}, nil)

	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, researcher.calls())
	assert.Equal(t, 0, store.writes())
	assert.Empty(t, sink.published)
}

func TestOrchestrator_PersistenceFailure_StillReturnsAnswer(t *testing.T) {
	researcher := answeringResearcher("Start Kelce.")
	store := &fakeStore{saveErr: ErrPersistence}
	sink := &fakeSink{name: "index"}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t), sink)

	res, err := o.EvaluateTrade(context.Background(), []models.Player{kelce}, []models.Player{hill}, nil)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Start Kelce.", res.Content)
	assert.Empty(t, sink.published, "sinks only see persisted insights")
}

func TestOrchestrator_SinkFailureIsSwallowed(t *testing.T) {
	researcher := answeringResearcher("Clearly a win.")
	store := &fakeStore{}
	broken := &fakeSink{name: "index", err: errors.New("es down")}
	healthy := &fakeSink{name: "notifier"}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t), broken, healthy)

	res, err := o.StartSit(context.Background(), []models.Player{mahomes}, nil)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Len(t, broken.published, 1)
	assert.Len(t, healthy.published, 1)
}

func TestOrchestrator_ExecuteDistinguishesOutcomes(t *testing.T) {
	q := StartSitQuery([]models.Player{mahomes}, nil)

	off := NewOrchestrator(&fakeResearcher{enabled: false}, &fakeStore{}, logger.NewTestLogger(t))
	assert.Equal(t, StatusDisabled, off.execute(context.Background(), q, true).Status)

	down := NewOrchestrator(&fakeResearcher{enabled: true, outcome: failed(ErrUpstreamTimeout)}, &fakeStore{}, logger.NewTestLogger(t))
	r := down.execute(context.Background(), q, true)
	assert.Equal(t, StatusUpstreamFailed, r.Status)
	assert.True(t, errors.Is(r.Err, ErrUpstreamTimeout))

	store := &fakeStore{saveErr: ErrPersistence}
	up := NewOrchestrator(answeringResearcher("ok"), store, logger.NewTestLogger(t))
	r = up.execute(context.Background(), q, true)
	assert.Equal(t, StatusAnswered, r.Status)
	assert.Nil(t, r.Insight)
	assert.True(t, errors.Is(r.PersistErr, ErrPersistence))
}

// ==========================
// Contextual + Listing
// ==========================

func TestOrchestrator_AnswerQueries_PersistsUnderQueryCategory(t *testing.T) {
	researcher := answeringResearcher("He might play.")
	store := &fakeStore{}
	o := NewOrchestrator(researcher, store, logger.NewTestLogger(t))

	injured := kelce
	injured.Status = "Questionable"
	queries := o.ContextualQueries([]models.Player{injured, mahomes}, models.MatchupMap{"KC": {Opponent: "BUF"}}, models.League{CurrentWeek: 7})
	answers := o.AnswerQueries(context.Background(), queries)

	require.Len(t, answers, len(queries))
	for _, a := range answers {
		require.NotNil(t, a.Result)
	}
	require.Equal(t, len(queries), store.writes())
	assert.Equal(t, models.CategoryInjury, store.saved[0].category)
	assert.Equal(t, models.CategoryMatchup, store.saved[1].category)
}

func TestOrchestrator_RecentInsights(t *testing.T) {
	store := &fakeStore{recent: []Insight{
		{ID: "3", QueryType: models.CategoryTrade},
		{ID: "2", QueryType: models.CategoryWaiver},
		{ID: "1", QueryType: models.CategoryTrade},
	}}
	o := NewOrchestrator(answeringResearcher("x"), store, logger.NewTestLogger(t))
	ctx := context.Background()

	trades, err := o.RecentInsights(ctx, models.CategoryTrade, 1)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "3", trades[0].ID)

	all, err := o.RecentInsights(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, []int{1, DefaultInsightLimit}, store.listed)

	_, err = o.RecentInsights(ctx, models.Category("bogus"), 5)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, strings.Contains(err.Error(), "bogus"))
}

func TestOrchestrator_RecentInsights_NoStore(t *testing.T) {
	o := NewOrchestrator(answeringResearcher("x"), nil, logger.NewTestLogger(t))

	insights, err := o.RecentInsights(context.Background(), models.CategoryTrade, 5)

	assert.Nil(t, insights)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.Equal(t, apperrors.ErrCodePersistenceFailure, ToStandardError(err).Code)

	_, err = o.RecentInsights(context.Background(), models.Category("bogus"), 5)
	assert.True(t, errors.Is(err, ErrInvalidInput), "input is checked before the store")
}

func TestOrchestrator_CurrentWeek(t *testing.T) {
	withStore := NewOrchestrator(answeringResearcher("x"), &fakeStore{}, logger.NewTestLogger(t))
	assert.Equal(t, 1, withStore.CurrentWeek(context.Background()))

	noStore := NewOrchestrator(answeringResearcher("x"), nil, logger.NewTestLogger(t))
	assert.Equal(t, 1, noStore.CurrentWeek(context.Background()))
}

func TestNewAnswer(t *testing.T) {
	r := &Result{Content: "start him", Confidence: 0.8}

	got := NewAnswer(true, r)
	assert.True(t, got.Available)
	assert.Same(t, r, got.Result)
	assert.Empty(t, got.Message)

	assert.Equal(t, Answer{Message: MessageDisabled}, NewAnswer(false, nil))
	assert.Equal(t, Answer{Message: MessageUnavailable}, NewAnswer(true, nil))
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkOrchestrator_StartSit(b *testing.B) {
	o := NewOrchestrator(answeringResearcher("He will definitely start."), &fakeStore{}, logger.NewNoOpLogger())
	starters := []models.Player{mahomes, kelce}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.StartSit(ctx, starters, nil); err != nil {
			b.Fatal(err)
		}
	}
}
