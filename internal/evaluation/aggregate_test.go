package evaluation

import (
	"testing"
)

func uniformEvaluation(score int) *Evaluation {
	return &Evaluation{
		Correctness:            score,
		Depth:                  score,
		Clarity:                score,
		PracticalUnderstanding: score,
		Confidence:             score,
		Overall:                float64(score),
	}
}

func TestAggregateEvaluations_Empty(t *testing.T) {
	agg := AggregateEvaluations(nil)
	if agg.AverageScore != 0 {
		t.Errorf("expected zero average, got %d", agg.AverageScore)
	}
	if agg.Strengths == nil || len(agg.Strengths) != 0 {
		t.Errorf("expected empty (not nil) strengths")
	}
	if agg.Recommendation != "" || agg.Readiness != "" {
		t.Errorf("no bands expected for an empty session")
	}
}

func TestAggregateEvaluations_StrongCandidate(t *testing.T) {
	agg := AggregateEvaluations([]*Evaluation{
		uniformEvaluation(9), uniformEvaluation(9), uniformEvaluation(9),
	})
	if agg.AverageScore != 90 {
		t.Errorf("expected average 90, got %d", agg.AverageScore)
	}
	if agg.Recommendation != "strong candidate, advance" {
		t.Errorf("unexpected recommendation: %q", agg.Recommendation)
	}
	if agg.Readiness != "high" {
		t.Errorf("unexpected readiness: %q", agg.Readiness)
	}
	if agg.Skills.Correctness != 90 {
		t.Errorf("unexpected skill breakdown: %+v", agg.Skills)
	}
}

func TestAggregateEvaluations_WeakCandidate(t *testing.T) {
	agg := AggregateEvaluations([]*Evaluation{
		uniformEvaluation(3), uniformEvaluation(3), uniformEvaluation(3),
	})
	if agg.AverageScore != 30 {
		t.Errorf("expected average 30, got %d", agg.AverageScore)
	}
	if agg.Recommendation != "significant gaps, recommend practice" {
		t.Errorf("unexpected recommendation: %q", agg.Recommendation)
	}
	if agg.Readiness != "low" {
		t.Errorf("unexpected readiness: %q", agg.Readiness)
	}
}

func TestAggregateEvaluations_Bands(t *testing.T) {
	cases := []struct {
		score          int
		recommendation string
		readiness      string
	}{
		{8, "strong candidate, advance", "high"},
		{7, "good, needs improvement", "high"},
		{6, "good, needs improvement", "medium"},
		{5, "needs more preparation", "medium"},
		{4, "needs more preparation", "low"},
		{2, "significant gaps, recommend practice", "low"},
	}
	for _, tc := range cases {
		agg := AggregateEvaluations([]*Evaluation{uniformEvaluation(tc.score)})
		if agg.Recommendation != tc.recommendation {
			t.Errorf("score %d: recommendation %q, want %q", tc.score, agg.Recommendation, tc.recommendation)
		}
		if agg.Readiness != tc.readiness {
			t.Errorf("score %d: readiness %q, want %q", tc.score, agg.Readiness, tc.readiness)
		}
	}
}

func TestAggregateEvaluations_DedupAndCap(t *testing.T) {
	ev1 := uniformEvaluation(7)
	ev1.StrongPoints = []string{"clear structure", "good examples", "clear structure"}
	ev2 := uniformEvaluation(7)
	ev2.StrongPoints = []string{"good examples", "solid fundamentals", "tested claims", "owns mistakes", "asks questions", "extra beyond cap"}

	agg := AggregateEvaluations([]*Evaluation{ev1, ev2})

	want := []string{"clear structure", "good examples", "solid fundamentals", "tested claims", "owns mistakes"}
	if len(agg.Strengths) != len(want) {
		t.Fatalf("expected %d strengths, got %d: %v", len(want), len(agg.Strengths), agg.Strengths)
	}
	for i, s := range want {
		if agg.Strengths[i] != s {
			t.Errorf("strengths[%d] = %q, want %q (first-seen order)", i, agg.Strengths[i], s)
		}
	}
}

func TestAggregateEvaluations_FractionalRounding(t *testing.T) {
	evals := []*Evaluation{uniformEvaluation(7), uniformEvaluation(8)}
	agg := AggregateEvaluations(evals)
	// Mean 7.5 scales to 75.
	if agg.AverageScore != 75 {
		t.Errorf("expected 75, got %d", agg.AverageScore)
	}
}
