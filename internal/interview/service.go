// Package interview wires the session store, question generation and
// evaluation into the operations exposed to transport layers. It holds
// the per-session adaptive memory; all session state mutation goes
// through the store.
package interview

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/intervue/internal/evaluation"
	"github.com/abhisek/intervue/internal/questiongen"
	"github.com/abhisek/intervue/internal/session"
)

// Service implements the orchestration operations.
type Service struct {
	store     session.Store
	generator *questiongen.Generator
	evaluator *evaluation.Evaluator
	log       *zap.Logger

	// mu guards the per-session adaptive state below. Entries live from
	// CreateSession (or first use) until the session's report is
	// generated, which releases them.
	mu       sync.Mutex
	memories map[string]*sessionMemory
}

// sessionMemory is the service-side adaptive state for one session:
// topic history, aggregate memory and the evaluations recorded live as
// answers were submitted.
type sessionMemory struct {
	history []questiongen.TopicScore
	memory  questiongen.Memory
	evals   []*evaluation.Evaluation
}

// NewService creates the orchestration service.
func NewService(store session.Store, generator *questiongen.Generator, evaluator *evaluation.Evaluator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		generator: generator,
		evaluator: evaluator,
		log:       log,
		memories:  make(map[string]*sessionMemory),
	}
}

// CreateSession allocates a new active session.
func (s *Service) CreateSession(ctx context.Context, params session.CreateParams) (*session.Session, error) {
	sess, err := s.store.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.memories[sess.ID] = &sessionMemory{}
	s.mu.Unlock()

	s.log.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("type", string(sess.Type)),
		zap.String("role", sess.Role),
	)
	return sess, nil
}

// GetSession returns the session ledger.
func (s *Service) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// QuestionContext carries the optional collaborator payloads a caller
// may attach to a generation request.
type QuestionContext struct {
	Resume     *questiongen.ResumeData
	Project    *questiongen.ProjectAnalysis
	Difficulty session.Difficulty
}

// GenerateQuestion produces the next question for the session, appends
// it to the ledger and returns it. Provider failures degrade to the
// canned fallback inside the generator; the only errors surfaced here
// are unknown session and malformed input.
func (s *Service) GenerateQuestion(ctx context.Context, sessionID string, qctx QuestionContext) (*session.Question, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mem := s.memoryFor(sessionID)

	s.mu.Lock()
	input := questiongen.GenerateInput{
		Type:         sess.Type,
		Role:         sess.Role,
		TechStack:    sess.TechStack,
		Experience:   sess.Experience,
		TopicHistory: append([]questiongen.TopicScore(nil), mem.history...),
		Memory:       mem.memory,
		Difficulty:   qctx.Difficulty,
		Resume:       qctx.Resume,
		Project:      qctx.Project,
	}
	s.mu.Unlock()

	q, err := s.generator.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddQuestion(ctx, sessionID, *q); err != nil {
		return nil, err
	}
	return q, nil
}

// SubmitResult reports ledger position after an answer is recorded.
type SubmitResult struct {
	Progress     session.Progress
	CurrentIndex int
	Evaluation   *evaluation.Evaluation
}

// SubmitAnswer records an answer, scores it, and folds the score into
// the session's adaptive memory. Scoring failures degrade to the
// neutral default evaluation; they never block the interview.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, questionID, answerText string, timeSpent time.Duration) (*SubmitResult, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	question, ok := findQuestion(sess, questionID)
	if !ok {
		return nil, &session.ValidationError{Field: "questionId", Message: "question does not belong to this session"}
	}

	answer := session.Answer{
		QuestionID:  questionID,
		Text:        answerText,
		TimeSpent:   timeSpent,
		SubmittedAt: time.Now(),
	}

	progress, err := s.store.RecordAnswer(ctx, sessionID, answer)
	if err != nil {
		return nil, err
	}

	ev := s.evaluator.Evaluate(ctx, question, answerText, "", sess.Type)

	mem := s.memoryFor(sessionID)
	s.mu.Lock()
	mem.history = append(mem.history, questiongen.TopicScore{Topic: question.Topic, Score: ev.Overall})
	mem.memory.Observe(question.Topic, ev.Overall)
	mem.evals = append(mem.evals, ev)
	s.mu.Unlock()

	return &SubmitResult{
		Progress:     progress,
		CurrentIndex: progress.CurrentIndex,
		Evaluation:   ev,
	}, nil
}

// EndResult summarizes a completed session.
type EndResult struct {
	Duration          string
	QuestionsAnswered int
	TotalQuestions    int
}

// EndSession transitions the session to completed. Repeating the call
// returns the same result; the end time is never recomputed.
func (s *Service) EndSession(ctx context.Context, sessionID string) (*EndResult, error) {
	sess, err := s.store.Complete(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.log.Info("session completed",
		zap.String("session_id", sess.ID),
		zap.String("duration", sess.Duration),
		zap.Int("questions_answered", len(sess.Answers)),
	)

	return &EndResult{
		Duration:          sess.Duration,
		QuestionsAnswered: len(sess.Answers),
		TotalQuestions:    len(sess.Questions),
	}, nil
}

// GenerateReport builds the read-only projection for a completed
// session. Evaluations recorded live during the session are reused;
// answers missing one (e.g. after a process restart with a durable
// store) are bulk-scored concurrently. The report is the terminal read
// of a session, so a successful build releases the session's adaptive
// state; a repeated request rebuilds from the ledger by bulk scoring.
func (s *Service) GenerateReport(ctx context.Context, sessionID string) (*evaluation.Report, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	var recorded []*evaluation.Evaluation
	if mem, ok := s.memories[sessionID]; ok {
		recorded = append(recorded, mem.evals...)
	}
	s.mu.Unlock()

	var report *evaluation.Report
	if len(recorded) == len(sess.Answers) && len(recorded) > 0 {
		report, err = evaluation.AssembleReport(sess, recorded)
	} else {
		report, err = s.evaluator.BuildReport(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.memories, sessionID)
	s.mu.Unlock()

	return report, nil
}

// EvaluateAnswer scores one answer outside any session.
func (s *Service) EvaluateAnswer(ctx context.Context, question session.Question, answerText, extraContext string, interviewType session.InterviewType) *evaluation.Evaluation {
	return s.evaluator.Evaluate(ctx, question, answerText, extraContext, interviewType)
}

// ListSessions returns the owner's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, owner string, limit, offset int) ([]*session.Session, error) {
	return s.store.ListByOwner(ctx, owner, limit, offset)
}

func (s *Service) memoryFor(sessionID string) *sessionMemory {
	s.mu.Lock()
	defer s.mu.Unlock()
	mem, ok := s.memories[sessionID]
	if !ok {
		mem = &sessionMemory{}
		s.memories[sessionID] = mem
	}
	return mem
}

func findQuestion(sess *session.Session, questionID string) (session.Question, bool) {
	for _, q := range sess.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return session.Question{}, false
}
