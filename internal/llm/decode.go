package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeLenient unmarshals model output into v, tolerating the common
// ways models wrap JSON. It tries, in order: a direct parse, extraction
// from a markdown code fence, and the substring from the first '{' to
// the last '}'. All leniency for structured model output lives here so
// question generation and evaluation share one decode path.
func DecodeLenient(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}

	text := string(raw)

	if fenced, ok := extractFenced(text); ok {
		if err := json.Unmarshal([]byte(fenced), v); err == nil {
			return nil
		}
	}

	if braced, ok := extractBraced(text); ok {
		if err := json.Unmarshal([]byte(braced), v); err == nil {
			return nil
		}
	}

	return &ErrInvalidResponse{
		Content: json.RawMessage(raw),
		Err:     fmt.Errorf("no parseable JSON object in response"),
	}
}

// extractFenced returns the body of the first markdown code fence,
// stripping an optional language tag such as ```json.
func extractFenced(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]

	// Drop the language tag line, if any.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		first := strings.TrimSpace(rest[:nl])
		if first != "" && !strings.HasPrefix(first, "{") {
			rest = rest[nl+1:]
		}
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractBraced returns the substring from the first '{' to the last '}'.
func extractBraced(text string) (string, bool) {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first < 0 || last <= first {
		return "", false
	}
	return text[first : last+1], true
}
