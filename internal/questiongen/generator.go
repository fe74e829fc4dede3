package questiongen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/session"
)

// Gateway is the slice of the LLM gateway this package consumes.
type Gateway interface {
	GenerateJSON(ctx context.Context, req llm.Request, schema *llm.Schema) (*llm.Response, error)
}

// Config controls generation behavior.
type Config struct {
	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// TimeBudget is stamped onto every produced question.
	TimeBudget time.Duration
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.7,
		TimeBudget:  3 * time.Minute,
	}
}

// Generator produces the next interview question from session context.
// Provider and parse failures are absorbed into the canned fallback;
// the only externally visible failure is malformed caller input.
type Generator struct {
	gateway Gateway
	cfg     Config
	log     *zap.Logger
}

// New creates a Generator.
func New(gateway Gateway, cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{gateway: gateway, cfg: cfg, log: log}
}

// questionOutput is the raw model response before normalization.
// Some models emit "text" instead of "question"; both are accepted.
type questionOutput struct {
	Question       string   `json:"question"`
	Text           string   `json:"text"`
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	ExpectedPoints []string `json:"expectedPoints"`
}

// Generate produces the next question for the given context.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*session.Question, error) {
	if input.Type == "" {
		return nil, &session.ValidationError{Field: "type", Message: "interview type is required"}
	}
	if !input.Type.Valid() {
		return nil, &session.ValidationError{Field: "type", Message: "unknown interview type"}
	}

	ctx = llm.WithPurpose(ctx, "question-gen")

	req := llm.Request{
		System: systemPrompts[input.Type],
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.gateway.GenerateJSON(ctx, req, QuestionSchema)
	if err != nil {
		g.log.Warn("question generation degraded to fallback", zap.Error(err))
		return g.fallback(input), nil
	}

	var raw questionOutput
	if err := llm.DecodeLenient(resp.Content, &raw); err != nil {
		g.log.Warn("unparseable question response, using fallback", zap.Error(err))
		return g.fallback(input), nil
	}

	text := raw.Question
	if text == "" {
		text = raw.Text
	}
	if text == "" {
		g.log.Warn("question response missing question text, using fallback")
		return g.fallback(input), nil
	}

	// The model's own difficulty label wins over the derived default.
	difficulty := session.Difficulty(raw.Difficulty)
	if !difficulty.Valid() {
		difficulty = effectiveDifficulty(input)
	}

	topic := raw.Topic
	if topic == "" {
		topic = "General"
	}

	return &session.Question{
		ID:             uuid.NewString(),
		Text:           text,
		Topic:          topic,
		Difficulty:     difficulty,
		ExpectedPoints: raw.ExpectedPoints,
		TimeBudget:     g.cfg.TimeBudget,
		Type:           input.Type,
	}, nil
}

func (g *Generator) fallback(input GenerateInput) *session.Question {
	fb := fallbackFor(input.Type, input.TechStack)
	return &session.Question{
		ID:             uuid.NewString(),
		Text:           fb.Text,
		Topic:          fb.Topic,
		Difficulty:     effectiveDifficulty(input),
		ExpectedPoints: append([]string(nil), fb.ExpectedPoints...),
		TimeBudget:     g.cfg.TimeBudget,
		Type:           input.Type,
	}
}
