package evaluation

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/intervue/internal/session"
)

// ErrSessionActive is returned when a report is requested for a session
// that has not completed. A report over a live ledger would be a partial
// result, which the protocol does not allow.
type ErrSessionActive struct {
	SessionID string
}

func (e *ErrSessionActive) Error() string {
	return fmt.Sprintf("session %s is still active; reports require a completed session", e.SessionID)
}

// Report is the read-only projection built once a session completes.
type Report struct {
	SessionID         string                `json:"sessionId"`
	Type              session.InterviewType `json:"type"`
	Role              string                `json:"role"`
	Duration          string                `json:"duration"`
	QuestionsAnswered int                   `json:"questionsAnswered"`
	TotalQuestions    int                   `json:"totalQuestions"`

	Evaluations []*Evaluation `json:"evaluations"`
	Aggregate   Aggregate     `json:"aggregate"`

	// Communication holds the per-answer local heuristics, index-aligned
	// with Evaluations.
	Communication []Communication `json:"communication"`
}

// BuildReport evaluates every answer of a completed session and rolls
// the results up. Answers are scored concurrently: unlike live question
// generation, bulk evaluation has no cross-answer data dependency, so
// fanning out only shortens report latency. Aggregation waits for all
// evaluations to finish.
func (e *Evaluator) BuildReport(ctx context.Context, sess *session.Session) (*Report, error) {
	if sess.Status != session.StatusCompleted {
		return nil, &ErrSessionActive{SessionID: sess.ID}
	}

	return AssembleReport(sess, e.evaluateAll(ctx, sess))
}

// AssembleReport builds the projection from already-scored evaluations.
// Used when per-answer evaluations were recorded live during the
// session; BuildReport is the bulk-scoring variant.
func AssembleReport(sess *session.Session, evals []*Evaluation) (*Report, error) {
	if sess.Status != session.StatusCompleted {
		return nil, &ErrSessionActive{SessionID: sess.ID}
	}

	comms := make([]Communication, len(sess.Answers))
	for i, a := range sess.Answers {
		comms[i] = AssessCommunication(a.Text)
	}

	return &Report{
		SessionID:         sess.ID,
		Type:              sess.Type,
		Role:              sess.Role,
		Duration:          sess.Duration,
		QuestionsAnswered: len(sess.Answers),
		TotalQuestions:    len(sess.Questions),
		Evaluations:       evals,
		Aggregate:         AggregateEvaluations(evals),
		Communication:     comms,
	}, nil
}

// evaluateAll scores each answered question with bounded parallelism.
// Results keep answer order regardless of completion order.
func (e *Evaluator) evaluateAll(ctx context.Context, sess *session.Session) []*Evaluation {
	evals := make([]*Evaluation, len(sess.Answers))

	parallelism := e.cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	sem := make(chan struct{}, parallelism)

	var wg sync.WaitGroup
	for i := range sess.Answers {
		// Ledger alignment pairs answer i with question i.
		if i >= len(sess.Questions) {
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			evals[i] = e.Evaluate(ctx, sess.Questions[i], sess.Answers[i].Text, "", sess.Type)
		}(i)
	}
	wg.Wait()

	return evals
}
