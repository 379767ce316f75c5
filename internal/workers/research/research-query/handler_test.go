// internal/workers/research/research-query/handler_test.go
package researchquery

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/research"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeOrchestrator struct {
	enabled bool
	result  *research.Result
	err     error
	asked   []string
}

func (f *fakeOrchestrator) Enabled() bool { return f.enabled }

func (f *fakeOrchestrator) PerformResearch(_ context.Context, text string) (*research.Result, error) {
	f.asked = append(f.asked, text)
	return f.result, f.err
}

type nopResponder struct{}

func (nopResponder) Complete(context.Context, worker.JobClient, entities.Job, interface{}, time.Time) {
}

func (nopResponder) Fail(context.Context, worker.JobClient, entities.Job, error, time.Time) {
}

func newTestHandler(t *testing.T, o Orchestrator) *Handler {
	return NewHandler(LoadConfig(), o, nopResponder{}, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Answered(t *testing.T) {
	o := &fakeOrchestrator{enabled: true, result: &research.Result{Content: "Start Jefferson", Confidence: 0.85}}
	h := newTestHandler(t, o)

	out, err := h.Execute(context.Background(), &Input{Query: "Should I start Jefferson?"})
	require.NoError(t, err)
	assert.True(t, out.Available)
	assert.Equal(t, "Start Jefferson", out.Result.Content)
	assert.Equal(t, []string{"Should I start Jefferson?"}, o.asked)
}

func TestHandler_Execute_NoResult(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		message string
	}{
		{"disabled", false, research.MessageDisabled},
		{"upstream failed", true, research.MessageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &fakeOrchestrator{enabled: tt.enabled})
			out, err := h.Execute(context.Background(), &Input{Query: "q"})
			require.NoError(t, err)
			assert.False(t, out.Available)
			assert.Nil(t, out.Result)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	o := &fakeOrchestrator{err: fmt.Errorf("%w: query is required", research.ErrInvalidInput)}
	h := newTestHandler(t, o)

	_, err := h.Execute(context.Background(), &Input{Query: "   "})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)
}

// ==========================
// Input Validation Tests
// ==========================

func TestInputSchema(t *testing.T) {
	var in Input
	require.NoError(t, inputSchema.Decode(`{"query":"Who is the WR1 this week?"}`, &in))
	assert.Equal(t, "Who is the WR1 this week?", in.Query)

	for _, doc := range []string{`{}`, `{"query":""}`, `{"query":42}`, `not json`} {
		err := inputSchema.Decode(doc, &in)
		require.Error(t, err, doc)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code, doc)
	}
}
