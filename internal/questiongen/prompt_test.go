package questiongen

import (
	"strings"
	"testing"

	"github.com/abhisek/intervue/internal/session"
)

func baseInput() GenerateInput {
	return GenerateInput{
		Type:       session.TypeTechnical,
		Role:       "backend engineer",
		TechStack:  []string{"go", "postgres"},
		Experience: session.TierMid,
	}
}

func TestBuildUserMessage_MustPivotOnPassingScore(t *testing.T) {
	input := baseInput()
	input.TopicHistory = []TopicScore{
		{Topic: "Concurrency", Score: 7.5},
	}

	msg := buildUserMessage(input)
	if !strings.Contains(msg, "MUST pivot") {
		t.Errorf("expected a MUST pivot instruction, got:\n%s", msg)
	}
	if !strings.Contains(msg, `do not ask about "Concurrency" again`) {
		t.Errorf("expected the covered topic to be named, got:\n%s", msg)
	}
}

func TestBuildUserMessage_MayFollowUpOnFailingScore(t *testing.T) {
	input := baseInput()
	input.TopicHistory = []TopicScore{
		{Topic: "Concurrency", Score: 3.0},
	}

	msg := buildUserMessage(input)
	if !strings.Contains(msg, "MAY ask a simpler follow-up") {
		t.Errorf("expected a MAY follow-up instruction, got:\n%s", msg)
	}
	if strings.Contains(msg, "MUST pivot") {
		t.Errorf("failing score must not force a pivot")
	}
}

func TestBuildUserMessage_ExactThresholdPivots(t *testing.T) {
	input := baseInput()
	input.TopicHistory = []TopicScore{{Topic: "SQL", Score: 5.0}}

	if msg := buildUserMessage(input); !strings.Contains(msg, "MUST pivot") {
		t.Errorf("a score of exactly 5 counts as passed")
	}
}

func TestBuildUserMessage_RecentTopicWindow(t *testing.T) {
	input := baseInput()
	for _, topic := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		input.TopicHistory = append(input.TopicHistory, TopicScore{Topic: topic, Score: 6})
	}

	msg := buildUserMessage(input)
	if strings.Contains(msg, "- A (") || strings.Contains(msg, "- B (") {
		t.Errorf("topics beyond the recent window should not be listed")
	}
	for _, topic := range []string{"C", "D", "E", "F", "G"} {
		if !strings.Contains(msg, "- "+topic+" (") {
			t.Errorf("expected recent topic %s to be listed", topic)
		}
	}
}

func TestBuildUserMessage_NoHistory(t *testing.T) {
	msg := buildUserMessage(baseInput())
	if strings.Contains(msg, "Topics already asked") {
		t.Errorf("no topic section expected for the first question")
	}
	if !strings.Contains(msg, "Difficulty for this question: medium") {
		t.Errorf("first question defaults to medium difficulty, got:\n%s", msg)
	}
}

func TestBuildUserMessage_ResumeAndProject(t *testing.T) {
	input := baseInput()
	input.Resume = &ResumeData{
		Skills:   []string{"distributed systems"},
		Projects: []string{"payments gateway"},
	}
	input.Project = &ProjectAnalysis{
		Languages: map[string]int{"Go": 8000, "Dockerfile": 40},
		Features:  []string{"rate limiting"},
	}

	msg := buildUserMessage(input)
	for _, want := range []string{"distributed systems", "payments gateway", "rate limiting"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in prompt", want)
		}
	}
	// Language map ordering must be deterministic.
	if !strings.Contains(msg, "Dockerfile, Go") {
		t.Errorf("expected sorted language keys, got:\n%s", msg)
	}
}

func TestEffectiveDifficulty(t *testing.T) {
	cases := []struct {
		name  string
		input GenerateInput
		want  session.Difficulty
	}{
		{"explicit wins", GenerateInput{Difficulty: session.DifficultyHard}, session.DifficultyHard},
		{"no history defaults medium", GenerateInput{}, session.DifficultyMedium},
		{"high average goes hard", GenerateInput{Memory: Memory{AverageScore: 8.5, QuestionCount: 3}}, session.DifficultyHard},
		{"low average goes easy", GenerateInput{Memory: Memory{AverageScore: 3.2, QuestionCount: 3}}, session.DifficultyEasy},
		{"middling average stays medium", GenerateInput{Memory: Memory{AverageScore: 6.0, QuestionCount: 3}}, session.DifficultyMedium},
		{"boundary 8 goes hard", GenerateInput{Memory: Memory{AverageScore: 8.0, QuestionCount: 1}}, session.DifficultyHard},
		{"boundary 4 goes easy", GenerateInput{Memory: Memory{AverageScore: 4.0, QuestionCount: 1}}, session.DifficultyEasy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := effectiveDifficulty(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMemoryObserve(t *testing.T) {
	var m Memory
	m.Observe("Concurrency", 8)
	m.Observe("SQL", 4)
	m.Observe("Concurrency", 6)

	if m.QuestionCount != 3 {
		t.Errorf("expected 3 observations, got %d", m.QuestionCount)
	}
	if m.AverageScore != 6 {
		t.Errorf("expected average 6, got %v", m.AverageScore)
	}
	if len(m.StrongTopics) != 1 || m.StrongTopics[0] != "Concurrency" {
		t.Errorf("expected deduplicated strong topics, got %v", m.StrongTopics)
	}
	if len(m.WeakTopics) != 1 || m.WeakTopics[0] != "SQL" {
		t.Errorf("unexpected weak topics: %v", m.WeakTopics)
	}
}
