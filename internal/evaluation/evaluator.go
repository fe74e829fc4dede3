package evaluation

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/session"
)

// Gateway is the slice of the LLM gateway this package consumes.
type Gateway interface {
	GenerateJSON(ctx context.Context, req llm.Request, schema *llm.Schema) (*llm.Response, error)
}

// Config controls evaluator behavior.
type Config struct {
	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness. Scoring wants it low.
	Temperature float64

	// Parallelism bounds concurrent per-answer evaluations during bulk
	// session evaluation.
	Parallelism int
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.2,
		Parallelism: 4,
	}
}

// Evaluator scores answers against their questions. Provider and parse
// failures never surface: a missing field degrades to a neutral value,
// an unusable response degrades to the complete default Evaluation.
type Evaluator struct {
	gateway Gateway
	cfg     Config
	log     *zap.Logger
}

// New creates an Evaluator.
func New(gateway Gateway, cfg Config, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{gateway: gateway, cfg: cfg, log: log}
}

// evaluationOutput is the raw model response. Score fields are pointers
// so a missing field is distinguishable from an explicit zero and can be
// substituted with the neutral value.
type evaluationOutput struct {
	Correctness            *int     `json:"correctness"`
	Depth                  *int     `json:"depth"`
	Clarity                *int     `json:"clarity"`
	PracticalUnderstanding *int     `json:"practicalUnderstanding"`
	Confidence             *int     `json:"confidence"`
	Overall                *float64 `json:"overall"`
	Feedback               string   `json:"feedback"`
	StrongPoints           []string `json:"strongPoints"`
	WeakPoints             []string `json:"weakPoints"`
	MissedConcepts         []string `json:"missedConcepts"`
	FollowUp               string   `json:"followUp"`
}

// Evaluate scores one answer. It never returns an error: any failure
// path yields the default Evaluation instead.
func (e *Evaluator) Evaluate(ctx context.Context, question session.Question, answerText, extraContext string, interviewType session.InterviewType) *Evaluation {
	ctx = llm.WithPurpose(ctx, "answer-eval")

	req := llm.Request{
		System: buildSystemPrompt(interviewType),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(question, answerText, extraContext)},
		},
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.gateway.GenerateJSON(ctx, req, EvaluationSchema)
	if err != nil {
		e.log.Warn("evaluation degraded to neutral default", zap.Error(err))
		return DefaultEvaluation(question.ID)
	}

	var raw evaluationOutput
	if err := llm.DecodeLenient(resp.Content, &raw); err != nil {
		e.log.Warn("unparseable evaluation response, using neutral default", zap.Error(err))
		return DefaultEvaluation(question.ID)
	}

	return normalize(raw, question.ID)
}

// normalize converts raw model output into a complete Evaluation,
// substituting the neutral value for each missing score field.
func normalize(raw evaluationOutput, questionID string) *Evaluation {
	ev := &Evaluation{
		QuestionID:             questionID,
		Correctness:            scoreOrNeutral(raw.Correctness),
		Depth:                  scoreOrNeutral(raw.Depth),
		Clarity:                scoreOrNeutral(raw.Clarity),
		PracticalUnderstanding: scoreOrNeutral(raw.PracticalUnderstanding),
		Confidence:             scoreOrNeutral(raw.Confidence),
		Feedback:               raw.Feedback,
		StrongPoints:           emptyIfNil(raw.StrongPoints),
		WeakPoints:             emptyIfNil(raw.WeakPoints),
		MissedConcepts:         emptyIfNil(raw.MissedConcepts),
		FollowUp:               raw.FollowUp,
	}

	if raw.Overall != nil && *raw.Overall >= 0 && *raw.Overall <= 10 {
		ev.Overall = math.Round(*raw.Overall*10) / 10
	} else {
		ev.Overall = WeightedOverall(ev.Correctness, ev.Depth, ev.Clarity, ev.PracticalUnderstanding, ev.Confidence)
	}

	if ev.Feedback == "" {
		ev.Feedback = "No detailed feedback was produced for this answer."
	}

	return ev
}

func scoreOrNeutral(p *int) int {
	if p == nil {
		return neutralScore
	}
	return clampScore(*p)
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
