package evaluation

import "math"

// Weights of the five sub-scores in the derived overall score.
const (
	weightCorrectness   = 0.30
	weightDepth         = 0.25
	weightClarity       = 0.20
	weightPractical     = 0.15
	weightConfidence    = 0.10
	neutralScore        = 5
)

// Evaluation scores one answer along five bounded dimensions.
// Created once by the Evaluator and never mutated afterward. When
// scoring fails entirely it is replaced wholesale by DefaultEvaluation,
// never returned partially filled.
type Evaluation struct {
	QuestionID string `json:"questionId,omitempty"`

	// Sub-scores, each an integer 0-10.
	Correctness            int `json:"correctness"`
	Depth                  int `json:"depth"`
	Clarity                int `json:"clarity"`
	PracticalUnderstanding int `json:"practicalUnderstanding"`
	Confidence             int `json:"confidence"`

	// Overall is the weighted score on 0-10, one decimal.
	Overall float64 `json:"overall"`

	Feedback       string   `json:"feedback"`
	StrongPoints   []string `json:"strongPoints"`
	WeakPoints     []string `json:"weakPoints"`
	MissedConcepts []string `json:"missedConcepts"`

	// FollowUp is an optional suggested follow-up question.
	FollowUp string `json:"followUp,omitempty"`
}

// WeightedOverall derives the overall score from the five sub-scores:
// correctness 0.30, depth 0.25, clarity 0.20, practical 0.15,
// confidence 0.10, rounded to one decimal.
func WeightedOverall(correctness, depth, clarity, practical, confidence int) float64 {
	sum := float64(correctness)*weightCorrectness +
		float64(depth)*weightDepth +
		float64(clarity)*weightClarity +
		float64(practical)*weightPractical +
		float64(confidence)*weightConfidence
	return math.Round(sum*10) / 10
}

// DefaultEvaluation is the fixed-value substitute used when the provider
// or its response is unusable. All sub-scores are neutral fives.
func DefaultEvaluation(questionID string) *Evaluation {
	return &Evaluation{
		QuestionID:             questionID,
		Correctness:            neutralScore,
		Depth:                  neutralScore,
		Clarity:                neutralScore,
		PracticalUnderstanding: neutralScore,
		Confidence:             neutralScore,
		Overall:                WeightedOverall(neutralScore, neutralScore, neutralScore, neutralScore, neutralScore),
		Feedback:               "The answer could not be scored automatically; a neutral assessment was recorded.",
		StrongPoints:           []string{},
		WeakPoints:             []string{},
		MissedConcepts:         []string{},
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
