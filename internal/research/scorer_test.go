// internal/research/scorer_test.go
package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"no markers", "Start him this week.", 0.70},
		{"one high marker", "This will definitely help your lineup", 0.75},
		{"two low markers", "This might possibly help", 0.60},
		{"case insensitive", "DEFINITELY start him, CERTAINLY", 0.80},
		{"repeated marker counts once", "definitely definitely definitely", 0.75},
		{"substring match", "He is clearly the better option", 0.75},
		{"mixed markers cancel", "He could definitely break out", 0.70},
		{"all high markers", "definitely certainly strongly clear obvious", 0.95},
		{"all low markers", "might could possibly perhaps uncertain", 0.45},
		{"empty", "", 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.content))
		})
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	inputs := []string{
		"",
		strings.Repeat("might could possibly perhaps uncertain ", 50),
		strings.Repeat("definitely certainly strongly clear obvious ", 50),
		"Perhaps. Uncertain. Might. COULD. possibly.",
		"\x00\xff weird bytes",
	}
	for _, in := range inputs {
		s := Score(in)
		assert.GreaterOrEqual(t, s, 0.30)
		assert.LessOrEqual(t, s, 1.00)
	}
}

func TestScore_Deterministic(t *testing.T) {
	text := "He could clearly be a strong start, but it's uncertain."
	first := Score(text)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Score(text))
	}
}

func TestIsActionable(t *testing.T) {
	assert.False(t, IsActionable(0.70))
	assert.True(t, IsActionable(0.75))
	assert.False(t, IsActionable(0.30))
	assert.True(t, IsActionable(1.0))
}
