package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/metrics"
	"alfredoptarigan/interview-assessor/internal/models"
)

const (
	warnLLMUnavailable = "Using fallback question generation. LLM service unavailable."
	warnLLMUnusable    = "Using fallback question generation. LLM reply could not be parsed."
	warnLLMPartial     = "Some questions use fallback templates because the LLM reply was incomplete."
)

type QuestionSet struct {
	SelectedSkills []string
	Questions      []models.Question
	Warning        string
}

// Texts returns the question strings in order.
func (s *QuestionSet) Texts() []string {
	out := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.Text
	}
	return out
}

type QuestionGenerator interface {
	Generate(ctx context.Context, skills []string) (*QuestionSet, error)
}

// QuestionStrategy is one named stage of the question parsing chain.
type QuestionStrategy struct {
	Name  string
	Parse func(text string) []string
}

func DefaultQuestionStrategies() []QuestionStrategy {
	return []QuestionStrategy{
		{Name: "json_array", Parse: parseQuestionArray},
		{Name: "questions_field", Parse: parseQuestionsField},
		{Name: "flatten_arrays", Parse: parseFlattenedArrays},
		{Name: "line_split", Parse: parseQuestionLines},
	}
}

type questionGenerator struct {
	llm        LLMService
	prompts    *PromptBuilder
	policy     Policy[string]
	strategies []QuestionStrategy
	log        *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type QuestionGeneratorOption func(*questionGenerator)

// WithRandSource makes skill selection reproducible.
func WithRandSource(src rand.Source) QuestionGeneratorOption {
	return func(g *questionGenerator) {
		g.rng = rand.New(src)
	}
}

func NewQuestionGenerator(llm LLMService, timeout time.Duration, log *logger.Logger, opts ...QuestionGeneratorOption) QuestionGenerator {
	g := &questionGenerator{
		llm:     llm,
		prompts: NewPromptBuilder(),
		policy: Policy[string]{
			Collaborator: "llm.questions",
			Timeout:      timeout,
			OnFailure:    func(error) string { return "" },
		},
		strategies: DefaultQuestionStrategies(),
		log:        log.With("component", "question_generator"),
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements QuestionGenerator. It always returns exactly
// models.QuestionsPerTest questions unless skills is empty.
func (g *questionGenerator) Generate(ctx context.Context, skills []string) (*QuestionSet, error) {
	distinct := normalizeSkills(skills)
	if len(distinct) == 0 {
		return nil, ErrNoSkills
	}

	selected := g.selectSkills(distinct)
	fallback := fallbackQuestions(selected)

	reply, err := g.policy.Run(ctx, g.log, func(ctx context.Context) (string, error) {
		return g.llm.Complete(ctx, CompletionRequest{
			Messages:    g.prompts.BuildQuestionMessages(distinct, selected),
			JSON:        true,
			Temperature: 0.7,
		})
	})
	if err != nil {
		metrics.QuestionGeneration.WithLabelValues("fallback").Inc()
		return &QuestionSet{
			SelectedSkills: selected,
			Questions:      tagQuestions(fallback, models.SourceFallback),
			Warning:        warnLLMUnavailable,
		}, nil
	}

	parsed, strategy := g.parseQuestions(reply)
	g.log.Debug("parsed generated questions", "strategy", strategy, "count", len(parsed))

	set := &QuestionSet{SelectedSkills: selected}
	for _, text := range parsed {
		set.Questions = append(set.Questions, models.Question{Text: text, Source: models.SourceGenerated})
	}

	switch {
	case len(parsed) == 0:
		set.Warning = warnLLMUnusable
		metrics.QuestionGeneration.WithLabelValues("fallback").Inc()
	case len(parsed) < models.QuestionsPerTest:
		set.Warning = warnLLMPartial
		metrics.QuestionGeneration.WithLabelValues("partial").Inc()
	default:
		metrics.QuestionGeneration.WithLabelValues("llm").Inc()
	}

	for i := len(set.Questions); i < models.QuestionsPerTest; i++ {
		set.Questions = append(set.Questions, models.Question{Text: fallback[i], Source: models.SourceFallback})
	}
	return set, nil
}

func (g *questionGenerator) parseQuestions(reply string) ([]string, string) {
	text := stripCodeFences(reply)
	for _, s := range g.strategies {
		found := usableQuestions(s.Parse(text))
		if len(found) == 0 {
			continue
		}
		if len(found) > models.QuestionsPerTest {
			found = found[:models.QuestionsPerTest]
		}
		return found, s.Name
	}
	return nil, ""
}

// selectSkills samples up to three distinct skills without replacement and
// repeats random picks when fewer than three exist.
func (g *questionGenerator) selectSkills(distinct []string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	shuffled := append([]string(nil), distinct...)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := min(models.QuestionsPerTest, len(shuffled))
	selected := shuffled[:n:n]
	for len(selected) < models.QuestionsPerTest {
		selected = append(selected, distinct[g.rng.IntN(len(distinct))])
	}
	return selected
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	var out []string
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// fallbackQuestions builds the deterministic templates for the three
// selected skill slots.
func fallbackQuestions(selected []string) []string {
	first, second, third := selected[0], selected[1], selected[2]
	eq := strings.EqualFold

	questions := []string{
		fmt.Sprintf("Explain the core concepts and working principles of %s.", first),
	}

	if !eq(second, first) {
		questions = append(questions, fmt.Sprintf("What are the key differences between %s and %s? When would you use each?", first, second))
	} else {
		questions = append(questions, fmt.Sprintf("What are the main advantages and limitations of %s?", first))
	}

	switch {
	case !eq(third, first) && !eq(third, second):
		questions = append(questions, fmt.Sprintf("How does %s work under the hood? Explain the fundamental mechanism.", third))
	case !eq(second, first):
		questions = append(questions, fmt.Sprintf("What are the best practices and common pitfalls when working with %s?", second))
	default:
		questions = append(questions, fmt.Sprintf("Explain the architecture or algorithm behind %s.", first))
	}
	return questions
}

func tagQuestions(texts []string, source models.QuestionSource) []models.Question {
	out := make([]models.Question, len(texts))
	for i, t := range texts {
		out[i] = models.Question{Text: t, Source: source}
	}
	return out
}

var questionTextKeys = []string{"description", "question", "text", "content", "title"}

var placeholderQuestions = map[string]bool{
	"[object object]":      true,
	"technical question 1": true,
	"technical question 2": true,
	"technical question 3": true,
	"null":                 true,
	"undefined":            true,
}

// usableQuestions trims, drops placeholders and duplicates.
func usableQuestions(candidates []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		c = strings.TrimSpace(strings.Trim(strings.TrimSpace(c), `"'`))
		key := strings.ToLower(c)
		if c == "" || placeholderQuestions[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func parseQuestionArray(text string) []string {
	arr, obj := strings.IndexByte(text, '['), strings.IndexByte(text, '{')
	if arr == -1 || (obj != -1 && obj < arr) {
		return nil
	}
	var items []interface{}
	if !decodeJSON(text, '[', ']', &items) {
		return nil
	}
	return questionItems(items)
}

func parseQuestionsField(text string) []string {
	var obj map[string]interface{}
	if !decodeJSON(text, '{', '}', &obj) {
		return nil
	}
	items, ok := obj["questions"].([]interface{})
	if !ok {
		return nil
	}
	return questionItems(items)
}

func parseFlattenedArrays(text string) []string {
	var obj map[string]interface{}
	if !decodeJSON(text, '{', '}', &obj) {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		if items, ok := obj[k].([]interface{}); ok {
			out = append(out, questionItems(items)...)
		}
	}
	return out
}

var listMarkerPattern = regexp.MustCompile(`^(?:[-*•]+|\d+[.):]|[Qq]\d+[.):]?)\s*`)

func parseQuestionLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = listMarkerPattern.ReplaceAllString(line, "")
		line = strings.TrimRight(strings.TrimSpace(line), ",")
		line = strings.Trim(line, `"'`)
		if len(line) < 10 || strings.HasSuffix(line, ":") || strings.ContainsAny(line[:1], "[]{}") {
			continue
		}
		if !looksLikeQuestion(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

var questionLeadWords = map[string]bool{
	"explain": true, "describe": true, "compare": true, "contrast": true,
	"implement": true, "design": true, "walk": true, "discuss": true, "define": true,
	"how": true, "what": true, "why": true, "when": true, "which": true, "where": true,
	"can": true, "could": true, "would": true, "is": true, "are": true, "does": true, "do": true,
}

// looksLikeQuestion keeps lines with a question mark or a leading
// interrogative or imperative word. Prose such as "Sure, here are..." is dropped.
func looksLikeQuestion(line string) bool {
	if strings.Contains(line, "?") {
		return true
	}
	first := strings.ToLower(strings.TrimRight(strings.Fields(line)[0], ",.:;!"))
	return questionLeadWords[first]
}

func questionItems(items []interface{}) []string {
	var out []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			for _, key := range questionTextKeys {
				if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

// decodeJSON tries text as-is, then the outermost open..close slice.
func decodeJSON(text string, open, close byte, target interface{}) bool {
	text = strings.TrimSpace(text)
	if json.Unmarshal([]byte(text), target) == nil {
		return true
	}
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end <= start {
		return false
	}
	return json.Unmarshal([]byte(text[start:end+1]), target) == nil
}
