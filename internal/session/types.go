// Package session owns the interview session ledger and its lifecycle.
// A Session is mutated only through the Store operations; everything
// above this package reads.
package session

import (
	"fmt"
	"time"
)

// InterviewType selects the interview posture.
type InterviewType string

const (
	TypeTechnical      InterviewType = "technical"
	TypeBehavioral     InterviewType = "behavioral"
	TypeProjectDefense InterviewType = "project-defense"
)

// Valid reports whether t is a known interview type.
func (t InterviewType) Valid() bool {
	switch t {
	case TypeTechnical, TypeBehavioral, TypeProjectDefense:
		return true
	}
	return false
}

// ExperienceTier is the candidate's seniority bracket.
type ExperienceTier string

const (
	TierJunior ExperienceTier = "junior"
	TierMid    ExperienceTier = "mid"
	TierSenior ExperienceTier = "senior"
)

// Difficulty is the per-question difficulty label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty label.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Status is the session lifecycle state. The transition active →
// completed is terminal and happens exactly once.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Question is one generated interview question. Immutable once created.
type Question struct {
	ID             string        `json:"id"`
	Text           string        `json:"text"`
	Topic          string        `json:"topic"`
	Difficulty     Difficulty    `json:"difficulty"`
	ExpectedPoints []string      `json:"expectedPoints"`
	TimeBudget     time.Duration `json:"timeBudget"`
	Type           InterviewType `json:"type"`
}

// Answer is one submitted answer. Immutable once created. Answers are
// index-aligned with the session's question list.
type Answer struct {
	QuestionID  string        `json:"questionId"`
	Text        string        `json:"text"`
	TimeSpent   time.Duration `json:"timeSpent"`
	SubmittedAt time.Time     `json:"submittedAt"`
}

// Session is one end-to-end interview run.
type Session struct {
	ID         string         `json:"id"`
	Owner      string         `json:"owner"`
	Type       InterviewType  `json:"type"`
	Role       string         `json:"role"`
	TechStack  []string       `json:"techStack"`
	Experience ExperienceTier `json:"experience"`
	Persona    string         `json:"persona"`
	Status     Status         `json:"status"`

	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`

	// CurrentQuestionIndex advances with each recorded answer.
	CurrentQuestionIndex int `json:"currentQuestionIndex"`

	CreatedAt time.Time `json:"createdAt"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt,omitzero"`

	// Duration is the start-to-end wall-clock delta, formatted
	// "minutes:seconds". Computed exactly once, at completion.
	Duration string `json:"duration,omitempty"`
}

// Progress reports ledger position after an answer is recorded.
type Progress struct {
	// Ratio is answers / max(questions, 1).
	Ratio float64 `json:"ratio"`
	// CurrentIndex is the index of the next expected answer.
	CurrentIndex int `json:"currentIndex"`
}

// clone returns a deep copy so store internals never leak to readers.
func (s *Session) clone() *Session {
	out := *s
	out.TechStack = append([]string(nil), s.TechStack...)
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q
		out.Questions[i].ExpectedPoints = append([]string(nil), q.ExpectedPoints...)
	}
	out.Answers = append([]Answer(nil), s.Answers...)
	return &out
}

// FormatDuration renders a wall-clock delta as "minutes:seconds" with
// zero-padded seconds, e.g. "14:05". Negative deltas clamp to "0:00".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
