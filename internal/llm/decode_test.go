package llm

import (
	"errors"
	"testing"
)

type decoded struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

func TestDecodeLenient_Direct(t *testing.T) {
	var v decoded
	err := DecodeLenient([]byte(`{"question":"What is a goroutine?","topic":"Concurrency"}`), &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Question != "What is a goroutine?" || v.Topic != "Concurrency" {
		t.Errorf("unexpected decode result: %+v", v)
	}
}

func TestDecodeLenient_Fenced(t *testing.T) {
	raw := "Here is the question:\n```json\n{\"question\":\"Explain channels.\",\"topic\":\"Concurrency\"}\n```\nLet me know if you need another."
	var v decoded
	if err := DecodeLenient([]byte(raw), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Question != "Explain channels." {
		t.Errorf("unexpected question: %q", v.Question)
	}
}

func TestDecodeLenient_FencedNoLanguageTag(t *testing.T) {
	raw := "```\n{\"question\":\"Explain select.\",\"topic\":\"Concurrency\"}\n```"
	var v decoded
	if err := DecodeLenient([]byte(raw), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Question != "Explain select." {
		t.Errorf("unexpected question: %q", v.Question)
	}
}

func TestDecodeLenient_BracedSubstring(t *testing.T) {
	raw := `Sure! {"question":"Explain mutexes.","topic":"Concurrency"} Hope that helps.`
	var v decoded
	if err := DecodeLenient([]byte(raw), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Question != "Explain mutexes." {
		t.Errorf("unexpected question: %q", v.Question)
	}
}

func TestDecodeLenient_NoJSON(t *testing.T) {
	var v decoded
	err := DecodeLenient([]byte("I cannot produce a question right now."), &v)

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if len(invalid.Content) == 0 {
		t.Errorf("expected the raw content to be preserved on the error")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Anthropic.APIKey = "k1"
	cfg.OpenAI.APIKey = "k2"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Secondary = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error when secondary equals primary")
	}

	cfg = DefaultConfig()
	cfg.Secondary = ""
	cfg.Anthropic.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for missing primary API key")
	}
}
