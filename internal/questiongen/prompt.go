package questiongen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/intervue/internal/session"
)

// passThreshold is the 0-10 score at which a topic counts as passed.
// At or above it the next question MUST pivot to an uncovered topic;
// below it a simplifying follow-up on the same topic is allowed.
const passThreshold = 5.0

// recentTopicWindow is how many prior topics are listed in the prompt.
const recentTopicWindow = 5

// maxReadmeExcerpt caps the project README text included in the prompt.
const maxReadmeExcerpt = 1200

const jsonShapeInstruction = `Respond with a single JSON object of the shape:
{"question": "...", "topic": "...", "difficulty": "easy|medium|hard", "expectedPoints": ["...", "..."]}
No prose outside the JSON.`

// systemPrompts selects the evaluation posture per interview type.
var systemPrompts = map[session.InterviewType]string{
	session.TypeTechnical: `You are a senior technical interviewer. Generate one interview question at a time, probing for accuracy and depth of understanding. Questions should be answerable verbally in a few minutes, favor reasoning over trivia, and target the candidate's declared stack.

` + jsonShapeInstruction,

	session.TypeBehavioral: `You are an experienced behavioral interviewer. Generate one interview question at a time, probing for communication quality, collaboration, and role fit. Prefer concrete situation-based questions ("tell me about a time...") over hypotheticals.

` + jsonShapeInstruction,

	session.TypeProjectDefense: `You are a principal engineer reviewing a candidate's own project. Generate one question at a time, probing architecture decisions and trade-offs in the candidate's work. Ask about choices they actually made, alternatives they rejected, and what they would change.

` + jsonShapeInstruction,
}

// tierGuidance provides experience-specific instruction text.
var tierGuidance = map[session.ExperienceTier]string{
	session.TierJunior: "The candidate is junior: favor fundamentals and practical basics, avoid obscure edge cases.",
	session.TierMid:    "The candidate is mid-level: mix applied fundamentals with design reasoning.",
	session.TierSenior: "The candidate is senior: probe architecture, trade-offs and hard-won production lessons.",
}

// buildUserMessage assembles the user-turn context block. Assembly order
// is deterministic: candidate profile, resume, project analysis, topic
// history with the diversity rule, then the difficulty instruction.
func buildUserMessage(input GenerateInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Target role: %s\n", input.Role)
	if len(input.TechStack) > 0 {
		fmt.Fprintf(&b, "Tech stack: %s\n", strings.Join(input.TechStack, ", "))
	}
	if input.Experience != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", input.Experience)
		if g, ok := tierGuidance[input.Experience]; ok {
			b.WriteString(g)
			b.WriteString("\n")
		}
	}

	writeResumeContext(&b, input.Resume)
	writeProjectContext(&b, input.Project)
	writeTopicHistory(&b, input.TopicHistory, input.Memory)

	fmt.Fprintf(&b, "\nDifficulty for this question: %s\n", effectiveDifficulty(input))

	return b.String()
}

func writeResumeContext(b *strings.Builder, resume *ResumeData) {
	if resume == nil {
		return
	}
	b.WriteString("\nResume context (probe these where relevant):\n")
	if len(resume.Skills) > 0 {
		fmt.Fprintf(b, "- Skills: %s. Probe claimed proficiency.\n", strings.Join(resume.Skills, ", "))
	}
	if len(resume.Technologies) > 0 {
		fmt.Fprintf(b, "- Technologies: %s. Probe hands-on depth.\n", strings.Join(resume.Technologies, ", "))
	}
	if len(resume.Experience) > 0 {
		fmt.Fprintf(b, "- Experience: %s\n", strings.Join(resume.Experience, "; "))
	}
	if len(resume.Projects) > 0 {
		fmt.Fprintf(b, "- Projects: %s. Probe the candidate's actual contribution.\n", strings.Join(resume.Projects, "; "))
	}
	if resume.Summary != "" {
		fmt.Fprintf(b, "- Summary: %s\n", resume.Summary)
	}
}

func writeProjectContext(b *strings.Builder, project *ProjectAnalysis) {
	if project == nil {
		return
	}
	b.WriteString("\nProject under discussion:\n")
	if len(project.Technologies) > 0 {
		fmt.Fprintf(b, "- Technologies: %s\n", strings.Join(project.Technologies, ", "))
	}
	if len(project.Languages) > 0 {
		fmt.Fprintf(b, "- Languages: %s\n", strings.Join(sortedKeys(project.Languages), ", "))
	}
	if len(project.Features) > 0 {
		fmt.Fprintf(b, "- Features: %s\n", strings.Join(project.Features, "; "))
	}
	if project.ReadmeExcerpt != "" {
		excerpt := project.ReadmeExcerpt
		if len(excerpt) > maxReadmeExcerpt {
			excerpt = excerpt[:maxReadmeExcerpt] + "..."
		}
		fmt.Fprintf(b, "- README excerpt:\n%s\n", excerpt)
	}
}

// writeTopicHistory lists the most recent prior topics with scores and
// emits the diversity rule. Whether repetition is permitted is gated on
// the last answer's score, not on difficulty.
func writeTopicHistory(b *strings.Builder, history []TopicScore, memory Memory) {
	if len(history) == 0 {
		return
	}

	recent := history
	if len(recent) > recentTopicWindow {
		recent = recent[len(recent)-recentTopicWindow:]
	}

	b.WriteString("\nTopics already asked (most recent last):\n")
	for _, ts := range recent {
		fmt.Fprintf(b, "- %s (scored %.1f/10)\n", ts.Topic, ts.Score)
	}
	if len(memory.StrongTopics) > 0 {
		fmt.Fprintf(b, "Strong topics so far: %s\n", strings.Join(memory.StrongTopics, ", "))
	}
	if len(memory.WeakTopics) > 0 {
		fmt.Fprintf(b, "Weak topics so far: %s\n", strings.Join(memory.WeakTopics, ", "))
	}

	last := history[len(history)-1]
	if last.Score < passThreshold {
		fmt.Fprintf(b,
			"The last answer on %q scored %.1f/10. You MAY ask a simpler follow-up question on the same topic, or pivot to a new topic.\n",
			last.Topic, last.Score)
	} else {
		fmt.Fprintf(b,
			"The last answer on %q scored %.1f/10 and the topic is covered. You MUST pivot to a topic not listed above; do not ask about %q again.\n",
			last.Topic, last.Score, last.Topic)
	}
}

// effectiveDifficulty returns the requested difficulty, or derives a
// default from the running average score. The model's own label in the
// response still takes precedence over this default.
func effectiveDifficulty(input GenerateInput) session.Difficulty {
	if input.Difficulty.Valid() {
		return input.Difficulty
	}
	if input.Memory.QuestionCount == 0 {
		return session.DifficultyMedium
	}
	switch {
	case input.Memory.AverageScore >= 8:
		return session.DifficultyHard
	case input.Memory.AverageScore <= 4:
		return session.DifficultyEasy
	default:
		return session.DifficultyMedium
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic prompt assembly requires stable ordering.
	sort.Strings(keys)
	return keys
}
