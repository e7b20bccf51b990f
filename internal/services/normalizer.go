package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type OutcomeKind int

const (
	OutcomeUnparseable OutcomeKind = iota
	OutcomeSuccess
)

// ScoreOutcome is the tagged result of normalizing one scoring reply:
// either Success with a bounded score, or Unparseable with the raw text.
type ScoreOutcome struct {
	Kind      OutcomeKind
	Score     float64
	Reasoning string
	Strategy  string
	Raw       string
}

func (o ScoreOutcome) Ok() bool { return o.Kind == OutcomeSuccess }

// ScoreStrategy is one named stage of the normalization chain.
type ScoreStrategy struct {
	Name  string
	Parse func(text string) (score float64, reasoning string, ok bool)
}

var (
	scoreFieldPattern = regexp.MustCompile(`"score"\s*:\s*"?(-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)`)
	reasoningPattern  = regexp.MustCompile(`"reasoning"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	numberPattern     = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)
	codeFencePattern  = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
)

// DefaultScoreStrategies is the ordered chain: strict JSON, then a regex
// for a score field in malformed JSON, then the first in-range number.
func DefaultScoreStrategies() []ScoreStrategy {
	return []ScoreStrategy{
		{Name: "strict_json", Parse: parseStrictScore},
		{Name: "score_field", Parse: parseScoreField},
		{Name: "numeric_scan", Parse: parseNumericScan},
	}
}

type ResponseNormalizer struct {
	strategies []ScoreStrategy
}

func NewResponseNormalizer(strategies ...ScoreStrategy) *ResponseNormalizer {
	if len(strategies) == 0 {
		strategies = DefaultScoreStrategies()
	}
	return &ResponseNormalizer{strategies: strategies}
}

// NormalizeScore runs reply through the chain. Every successful score is
// clamped to [0,100].
func (n *ResponseNormalizer) NormalizeScore(reply string) ScoreOutcome {
	text := stripCodeFences(reply)
	for _, s := range n.strategies {
		score, reasoning, ok := s.Parse(text)
		if !ok {
			continue
		}
		return ScoreOutcome{
			Kind:      OutcomeSuccess,
			Score:     clampScore(score),
			Reasoning: reasoning,
			Strategy:  s.Name,
			Raw:       reply,
		}
	}
	return ScoreOutcome{Kind: OutcomeUnparseable, Raw: reply}
}

func parseStrictScore(text string) (float64, string, bool) {
	obj, ok := decodeObject(text)
	if !ok {
		return 0, "", false
	}
	score, ok := numberValue(obj["score"])
	if !ok {
		return 0, "", false
	}
	reasoning, _ := obj["reasoning"].(string)
	if strings.TrimSpace(reasoning) == "" {
		reasoning = "No reasoning provided"
	}
	return score, reasoning, true
}

func parseScoreField(text string) (float64, string, bool) {
	m := scoreFieldPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	score, ok := parseFinite(m[1])
	if !ok {
		return 0, "", false
	}
	reasoning := "Score extracted from response text"
	if r := reasoningPattern.FindStringSubmatch(text); r != nil {
		if unq, err := strconv.Unquote(`"` + r[1] + `"`); err == nil && strings.TrimSpace(unq) != "" {
			reasoning = unq
		}
	}
	return score, reasoning, true
}

func parseNumericScan(text string) (float64, string, bool) {
	for _, m := range numberPattern.FindAllString(text, -1) {
		v, ok := parseFinite(m)
		if !ok {
			continue
		}
		if v >= 0 && v <= 100 {
			return v, "Score extracted from response", true
		}
	}
	return 0, "", false
}

func decodeObject(text string) (map[string]interface{}, bool) {
	candidate := strings.TrimSpace(text)
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
		return obj, true
	}
	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case string:
		return parseFinite(n)
	}
	return 0, false
}

// parseFinite rejects NaN, Inf and out-of-range values that ParseFloat
// would otherwise accept.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func stripCodeFences(text string) string {
	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
