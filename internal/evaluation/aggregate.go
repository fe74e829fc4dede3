package evaluation

import "math"

// maxListedItems caps the deduplicated strength/weakness/missed lists.
const maxListedItems = 5

// SkillBreakdown holds per-dimension aggregates scaled onto 0-100.
type SkillBreakdown struct {
	Correctness            int `json:"correctness"`
	Depth                  int `json:"depth"`
	Clarity                int `json:"clarity"`
	PracticalUnderstanding int `json:"practicalUnderstanding"`
	Confidence             int `json:"confidence"`
}

// Aggregate is the session-level roll-up of per-answer evaluations.
type Aggregate struct {
	// AverageScore is the mean overall score scaled onto 0-100.
	AverageScore int `json:"averageScore"`

	Skills SkillBreakdown `json:"skills"`

	// Deduplicated, first-seen order, capped at five each.
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	MissedConcepts []string `json:"missedConcepts"`

	Recommendation string `json:"recommendation"`
	Readiness      string `json:"readiness"`
}

// Aggregate rolls N per-answer evaluations into a session aggregate.
// N = 0 yields zeros and empty lists, never an error.
func AggregateEvaluations(evals []*Evaluation) Aggregate {
	agg := Aggregate{
		Strengths:      []string{},
		Weaknesses:     []string{},
		MissedConcepts: []string{},
	}

	if len(evals) == 0 {
		return agg
	}

	var correctness, depth, clarity, practical, confidence, overall float64
	for _, ev := range evals {
		correctness += float64(ev.Correctness)
		depth += float64(ev.Depth)
		clarity += float64(ev.Clarity)
		practical += float64(ev.PracticalUnderstanding)
		confidence += float64(ev.Confidence)
		overall += ev.Overall
	}

	n := float64(len(evals))
	meanOverall := overall / n

	agg.Skills = SkillBreakdown{
		Correctness:            scaleTo100(correctness / n),
		Depth:                  scaleTo100(depth / n),
		Clarity:                scaleTo100(clarity / n),
		PracticalUnderstanding: scaleTo100(practical / n),
		Confidence:             scaleTo100(confidence / n),
	}
	agg.AverageScore = scaleTo100(meanOverall)

	for _, ev := range evals {
		agg.Strengths = mergeCapped(agg.Strengths, ev.StrongPoints)
		agg.Weaknesses = mergeCapped(agg.Weaknesses, ev.WeakPoints)
		agg.MissedConcepts = mergeCapped(agg.MissedConcepts, ev.MissedConcepts)
	}

	// Banding runs on the unscaled 0-10 mean.
	agg.Recommendation = recommendationFor(meanOverall)
	agg.Readiness = readinessFor(meanOverall)

	return agg
}

// scaleTo100 maps a 0-10 mean onto the 0-100 display range.
func scaleTo100(mean float64) int {
	return int(math.Round(mean * 10))
}

// mergeCapped appends items not already present, keeping first-seen
// order and the overall cap. Dedup is exact string equality.
func mergeCapped(acc, items []string) []string {
	for _, item := range items {
		if len(acc) >= maxListedItems {
			return acc
		}
		seen := false
		for _, existing := range acc {
			if existing == item {
				seen = true
				break
			}
		}
		if !seen {
			acc = append(acc, item)
		}
	}
	return acc
}

func recommendationFor(meanOverall float64) string {
	switch {
	case meanOverall >= 8:
		return "strong candidate, advance"
	case meanOverall >= 6:
		return "good, needs improvement"
	case meanOverall >= 4:
		return "needs more preparation"
	default:
		return "significant gaps, recommend practice"
	}
}

func readinessFor(meanOverall float64) string {
	switch {
	case meanOverall >= 7:
		return "high"
	case meanOverall >= 5:
		return "medium"
	default:
		return "low"
	}
}
