package evaluation

import (
	"fmt"
	"strings"

	"github.com/abhisek/intervue/internal/session"
)

const rubricPreamble = `You are scoring one interview answer. Score each dimension as an integer from 0 to 10:
- correctness: factual and technical accuracy
- depth: understanding beyond surface recall
- clarity: how clearly the answer communicates
- practicalUnderstanding: evidence of applied, hands-on experience
- confidence: how assured the delivery reads

Be strict but fair. An empty or off-topic answer scores 0-2 across the board. List strong points, weak points, and concepts from the expected key points that the answer missed.`

// rubricEmphasis tunes the rubric instructions per interview type. The
// returned schema is identical; only the weighting guidance differs.
var rubricEmphasis = map[session.InterviewType]string{
	session.TypeTechnical:      "This is a technical interview: weigh correctness and depth most heavily.",
	session.TypeBehavioral:     "This is a behavioral interview: weigh clarity and confidence most heavily, and look for concrete situations over generalities.",
	session.TypeProjectDefense: "This is a project defense: weigh practical understanding and depth most heavily, and reward honest discussion of trade-offs.",
}

func buildSystemPrompt(interviewType session.InterviewType) string {
	emphasis, ok := rubricEmphasis[interviewType]
	if !ok {
		emphasis = rubricEmphasis[session.TypeTechnical]
	}
	return rubricPreamble + "\n\n" + emphasis
}

func buildUserMessage(question session.Question, answerText, extraContext string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question (%s, %s):\n%s\n", question.Topic, question.Difficulty, question.Text)

	if len(question.ExpectedPoints) > 0 {
		b.WriteString("\nExpected key points:\n")
		for _, p := range question.ExpectedPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	if extraContext != "" {
		fmt.Fprintf(&b, "\nAdditional context:\n%s\n", extraContext)
	}

	fmt.Fprintf(&b, "\nCandidate's answer:\n%s\n", answerText)

	return b.String()
}
