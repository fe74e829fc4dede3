package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/session"
)

func completedSession(answered int) *session.Session {
	sess := &session.Session{
		ID:       "sess-1",
		Type:     session.TypeTechnical,
		Role:     "backend engineer",
		Status:   session.StatusCompleted,
		Duration: "12:30",
	}
	for i := 0; i < answered; i++ {
		q := testQuestion()
		q.ID = string(rune('a' + i))
		sess.Questions = append(sess.Questions, q)
		sess.Answers = append(sess.Answers, session.Answer{
			QuestionID:  q.ID,
			Text:        "an answer with some substance. It has sentences. Three of them.",
			TimeSpent:   time.Minute,
			SubmittedAt: time.Now(),
		})
	}
	return sess
}

func TestBuildReport_RejectsActiveSession(t *testing.T) {
	eval, _ := newTestEvaluator()
	sess := completedSession(1)
	sess.Status = session.StatusActive

	_, err := eval.BuildReport(context.Background(), sess)
	var active *ErrSessionActive
	if !errors.As(err, &active) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
	if active.SessionID != "sess-1" {
		t.Errorf("unexpected session id on error: %q", active.SessionID)
	}
}

func TestBuildReport_ScoresEveryAnswer(t *testing.T) {
	responses := make([]llm.MockResponse, 3)
	for i := range responses {
		responses[i] = llm.MockResponse{Content: validEvaluationJSON()}
	}
	eval, mock := newTestEvaluator(responses...)

	report, err := eval.BuildReport(context.Background(), completedSession(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.QuestionsAnswered != 3 || report.TotalQuestions != 3 {
		t.Errorf("unexpected counts: %d/%d", report.QuestionsAnswered, report.TotalQuestions)
	}
	if len(report.Evaluations) != 3 {
		t.Fatalf("expected 3 evaluations, got %d", len(report.Evaluations))
	}
	if len(report.Communication) != 3 {
		t.Errorf("expected communication entries per answer")
	}
	// Order must follow answers even under concurrent evaluation.
	for i, ev := range report.Evaluations {
		if ev.QuestionID != string(rune('a'+i)) {
			t.Errorf("evaluation %d out of order: %q", i, ev.QuestionID)
		}
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 provider calls, got %d", mock.CallCount())
	}
}

func TestBuildReport_DegradesPerAnswer(t *testing.T) {
	// One good response; the remaining calls fail and degrade to the
	// default evaluation without failing the report.
	eval, _ := newTestEvaluator(llm.MockResponse{Content: validEvaluationJSON()})

	report, err := eval.BuildReport(context.Background(), completedSession(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(report.Evaluations))
	}
	var neutral int
	for _, ev := range report.Evaluations {
		if ev.Overall == 5.0 && ev.Correctness == 5 {
			neutral++
		}
	}
	if neutral != 1 {
		t.Errorf("expected exactly one neutral default, got %d", neutral)
	}
}

func TestAssembleReport_UsesRecordedEvaluations(t *testing.T) {
	sess := completedSession(2)
	evals := []*Evaluation{uniformEvaluation(9), uniformEvaluation(7)}

	report, err := AssembleReport(sess, evals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Aggregate.AverageScore != 80 {
		t.Errorf("expected aggregate 80, got %d", report.Aggregate.AverageScore)
	}
	if report.Duration != "12:30" {
		t.Errorf("duration must come from the session, got %q", report.Duration)
	}
}

func TestAssessCommunication(t *testing.T) {
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'x'
	}

	cases := []struct {
		name string
		text string
		want Communication
	}{
		{"empty", "", Communication{Structure: "plain", Clarity: "fragmentary", Conciseness: "empty"}},
		{"short sentence", "It works.", Communication{Structure: "plain", Clarity: "brief", Conciseness: "concise"}},
		{"structured", string(long) + "\nFirst point. Second point. Third point.", Communication{Structure: "well-structured", Clarity: "clear", Conciseness: "concise"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AssessCommunication(tc.text); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
