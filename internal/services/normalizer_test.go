package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseNormalizer_NormalizeScore(t *testing.T) {
	t.Parallel()

	normalizer := NewResponseNormalizer()

	tests := []struct {
		name      string
		reply     string
		wantOk    bool
		score     float64
		strategy  string
		reasoning string
	}{
		{
			name:      "strict json",
			reply:     `{"score": 82, "reasoning": "Accurate and complete"}`,
			wantOk:    true,
			score:     82,
			strategy:  "strict_json",
			reasoning: "Accurate and complete",
		},
		{
			name:      "json in code fence with prose",
			reply:     "Here you go:\n```json\n{\"score\": 64.5, \"reasoning\": \"Partially correct\"}\n```",
			wantOk:    true,
			score:     64.5,
			strategy:  "strict_json",
			reasoning: "Partially correct",
		},
		{
			name:      "score as string",
			reply:     `{"score": "40", "reasoning": "Shallow"}`,
			wantOk:    true,
			score:     40,
			strategy:  "strict_json",
			reasoning: "Shallow",
		},
		{
			name:      "missing reasoning",
			reply:     `{"score": 10}`,
			wantOk:    true,
			score:     10,
			strategy:  "strict_json",
			reasoning: "No reasoning provided",
		},
		{
			name:      "malformed json keeps score field",
			reply:     `{"score": 55, "reasoning": "Mostly right" trailing garbage`,
			wantOk:    true,
			score:     55,
			strategy:  "score_field",
			reasoning: "Mostly right",
		},
		{
			name:     "free text number",
			reply:    "garbage text with score 73 somewhere",
			wantOk:   true,
			score:    73,
			strategy: "numeric_scan",
		},
		{
			name:     "above range clamps",
			reply:    `{"score": 140, "reasoning": "Generous"}`,
			wantOk:   true,
			score:    100,
			strategy: "strict_json",
		},
		{
			name:     "below range clamps",
			reply:    `{"score": -12, "reasoning": "Nothing"}`,
			wantOk:   true,
			score:    0,
			strategy: "strict_json",
		},
		{
			name:     "out of range numbers are skipped by scan",
			reply:    "rated 250 points, final 35",
			wantOk:   true,
			score:    35,
			strategy: "numeric_scan",
		},
		{
			name:     "exponent in malformed json",
			reply:    `{"score": 8.5e1, "reasoning": "Solid" oops`,
			wantOk:   true,
			score:    85,
			strategy: "score_field",
		},
		{
			name:     "nan string falls through to scan",
			reply:    `{"score": "NaN", "reasoning": "x"} final 42`,
			wantOk:   true,
			score:    42,
			strategy: "numeric_scan",
		},
		{name: "nan string alone", reply: `{"score": "NaN", "reasoning": "x"}`},
		{name: "infinite string", reply: `{"score": "Inf"}`},
		{name: "overflowing exponent", reply: `{"score": "1e400"}`},
		{name: "no number at all", reply: "I cannot evaluate this answer."},
		{name: "empty reply", reply: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalizer.NormalizeScore(tt.reply)
			assert.Equal(t, tt.wantOk, got.Ok())
			assert.Equal(t, tt.reply, got.Raw)
			if !tt.wantOk {
				assert.Equal(t, OutcomeUnparseable, got.Kind)
				return
			}
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.strategy, got.Strategy)
			if tt.reasoning != "" {
				assert.Equal(t, tt.reasoning, got.Reasoning)
			}
		})
	}
}

func TestResponseNormalizer_AlwaysBounded(t *testing.T) {
	t.Parallel()

	normalizer := NewResponseNormalizer()
	replies := []string{
		`{"score": 1e9}`,
		`{"score": -1e9}`,
		`"score": 999.9`,
		`"score": -3`,
		"100.0001 and 100",
		"-0.5",
		"```\n{\"score\": 101}\n```",
		`{"score": "NaN"}`,
		`{"score": "-Infinity"}`,
		`"score": 8.5e1`,
		`{"score": "1e400"}`,
	}
	for _, reply := range replies {
		got := normalizer.NormalizeScore(reply)
		if got.Ok() {
			assert.False(t, math.IsNaN(got.Score), reply)
			assert.GreaterOrEqual(t, got.Score, 0.0, reply)
			assert.LessOrEqual(t, got.Score, 100.0, reply)
		}
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, clampScore(math.NaN()))
	assert.Equal(t, 0.0, clampScore(math.Inf(-1)))
	assert.Equal(t, 100.0, clampScore(math.Inf(1)))
	assert.Equal(t, 42.5, clampScore(42.5))
}

func TestResponseNormalizer_CustomChain(t *testing.T) {
	t.Parallel()

	normalizer := NewResponseNormalizer(ScoreStrategy{Name: "strict_json", Parse: parseStrictScore})
	got := normalizer.NormalizeScore("garbage text with score 73 somewhere")
	assert.False(t, got.Ok())
}
