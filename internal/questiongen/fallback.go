package questiongen

import (
	"strings"

	"github.com/abhisek/intervue/internal/session"
)

// fallbackQuestion is one entry of the canned lookup table used when the
// provider or its response parsing fails. Always valid, never empty.
type fallbackQuestion struct {
	Text           string
	Topic          string
	ExpectedPoints []string
}

// fallbackTable maps interview type, then lowercased primary tech, to a
// canned question. The "" key is the per-type default.
var fallbackTable = map[session.InterviewType]map[string]fallbackQuestion{
	session.TypeTechnical: {
		"go": {
			Text:           "Walk me through how goroutines and channels work together, and describe a situation where you would reach for a mutex instead of a channel.",
			Topic:          "Concurrency",
			ExpectedPoints: []string{"goroutine scheduling", "channel semantics", "when shared state fits a mutex better"},
		},
		"python": {
			Text:           "Explain how Python's GIL affects multi-threaded programs, and how you would structure a CPU-bound workload around it.",
			Topic:          "Runtime model",
			ExpectedPoints: []string{"GIL and threads", "multiprocessing or native extensions", "I/O-bound vs CPU-bound"},
		},
		"javascript": {
			Text:           "Explain the JavaScript event loop and how promises and async/await relate to it.",
			Topic:          "Event loop",
			ExpectedPoints: []string{"task and microtask queues", "promise resolution", "async/await desugaring"},
		},
		"java": {
			Text:           "Describe how garbage collection works on the JVM and how you would diagnose a memory leak in a long-running service.",
			Topic:          "JVM memory",
			ExpectedPoints: []string{"heap generations", "GC pauses", "heap dumps and profiling"},
		},
		"": {
			Text:           "Describe a production bug you debugged end to end: how you found the cause, fixed it, and prevented regressions.",
			Topic:          "Debugging",
			ExpectedPoints: []string{"systematic narrowing", "root cause vs symptom", "regression protection"},
		},
	},
	session.TypeBehavioral: {
		"": {
			Text:           "Tell me about a time you disagreed with a teammate on a technical decision. How did you resolve it, and what was the outcome?",
			Topic:          "Conflict resolution",
			ExpectedPoints: []string{"concrete situation", "listening and trade-off framing", "resolution and reflection"},
		},
	},
	session.TypeProjectDefense: {
		"": {
			Text:           "Pick the most significant architectural decision in your project. What alternatives did you consider, and why did you reject them?",
			Topic:          "Architecture trade-offs",
			ExpectedPoints: []string{"named alternatives", "explicit trade-offs", "honest assessment of the chosen path"},
		},
	},
}

// fallbackFor returns the canned question for the interview type and
// primary tech. Unknown combinations degrade to the per-type default,
// then to the technical default.
func fallbackFor(interviewType session.InterviewType, techStack []string) fallbackQuestion {
	byTech, ok := fallbackTable[interviewType]
	if !ok {
		byTech = fallbackTable[session.TypeTechnical]
	}

	if len(techStack) > 0 {
		if q, ok := byTech[strings.ToLower(techStack[0])]; ok {
			return q
		}
	}
	return byTech[""]
}
