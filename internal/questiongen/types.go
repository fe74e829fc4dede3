package questiongen

import (
	"github.com/abhisek/intervue/internal/session"
)

// TopicScore pairs a previously asked topic with the score the answer
// received (0-10).
type TopicScore struct {
	Topic string
	Score float64
}

// Memory carries aggregate signals across a session, feeding the
// difficulty default and the prompt context.
type Memory struct {
	// StrongTopics are topics the candidate has handled well.
	StrongTopics []string

	// WeakTopics are topics the candidate has struggled with.
	WeakTopics []string

	// AverageScore is the running mean of per-answer overall scores (0-10).
	AverageScore float64

	// QuestionCount is the number of answers folded into AverageScore.
	QuestionCount int
}

// Observe folds one answered question into the memory.
func (m *Memory) Observe(topic string, score float64) {
	m.AverageScore = (m.AverageScore*float64(m.QuestionCount) + score) / float64(m.QuestionCount+1)
	m.QuestionCount++

	if score >= passThreshold {
		m.StrongTopics = appendUnique(m.StrongTopics, topic)
	} else {
		m.WeakTopics = appendUnique(m.WeakTopics, topic)
	}
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// ResumeData is the payload provided by the resume-parsing collaborator.
type ResumeData struct {
	Skills       []string
	Technologies []string
	Experience   []string
	Projects     []string
	Summary      string
}

// ProjectAnalysis is the payload provided by the repository-analysis
// collaborator.
type ProjectAnalysis struct {
	Technologies  []string
	Languages     map[string]int
	Features      []string
	ReadmeExcerpt string
}

// GenerateInput holds the full session context needed to produce the
// next question.
type GenerateInput struct {
	// Type is the interview type. The only mandatory field.
	Type session.InterviewType

	// Role is the target role, e.g. "Backend Engineer".
	Role string

	// TechStack lists the candidate's declared technologies. The first
	// entry is treated as the primary stack for fallback selection.
	TechStack []string

	// Experience is the candidate's seniority bracket.
	Experience session.ExperienceTier

	// TopicHistory is the ordered list of previously asked topics with
	// their scores, oldest first.
	TopicHistory []TopicScore

	// Memory carries the aggregate strong/weak topic lists and running
	// average score.
	Memory Memory

	// Difficulty, when set, overrides the memory-derived default.
	Difficulty session.Difficulty

	// Resume is the parsed-resume payload, when available.
	Resume *ResumeData

	// Project is the repository-analysis payload, when available.
	Project *ProjectAnalysis
}
