package evaluation

import "strings"

// Communication is a cheap local proxy for answer delivery quality.
// It is deliberately not an AI call and not a scored interview
// dimension; it runs on raw answer text only.
type Communication struct {
	// Structure reflects visible organization: line breaks in a
	// substantial answer read as deliberate structure.
	Structure string `json:"structure"`

	// Clarity is proxied by sentence count.
	Clarity string `json:"clarity"`

	// Conciseness is proxied by a length bucket.
	Conciseness string `json:"conciseness"`
}

// AssessCommunication computes the heuristic proxies for one answer.
func AssessCommunication(answerText string) Communication {
	text := strings.TrimSpace(answerText)

	return Communication{
		Structure:   structureOf(text),
		Clarity:     clarityOf(text),
		Conciseness: concisenessOf(text),
	}
}

func structureOf(text string) string {
	if len(text) > 200 && strings.Contains(text, "\n") {
		return "well-structured"
	}
	return "plain"
}

func clarityOf(text string) string {
	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	switch {
	case sentences >= 3:
		return "clear"
	case sentences >= 1:
		return "brief"
	default:
		return "fragmentary"
	}
}

func concisenessOf(text string) string {
	switch {
	case len(text) == 0:
		return "empty"
	case len(text) < 300:
		return "concise"
	case len(text) < 1200:
		return "balanced"
	default:
		return "verbose"
	}
}
