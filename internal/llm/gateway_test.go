package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func okResponse(content string) MockResponse {
	return MockResponse{Content: json.RawMessage(content)}
}

func failResponse(err error) MockResponse {
	return MockResponse{Err: err}
}

func TestGateway_PrimarySuccess(t *testing.T) {
	primary := NewMockProvider(okResponse(`{"ok":true}`))
	secondary := NewMockProvider(okResponse(`{"ok":"secondary"}`))
	gw := NewGatewayFromProviders(primary, secondary, Config{})

	resp, err := gw.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("unexpected content: %s", resp.Content)
	}
	if secondary.CallCount() != 0 {
		t.Errorf("secondary should not be called on primary success, got %d calls", secondary.CallCount())
	}
}

func TestGateway_FallbackOnPrimaryFailure(t *testing.T) {
	primary := NewMockProvider(failResponse(&ErrProviderUnavailable{Err: errors.New("down")}))
	secondary := NewMockProvider(okResponse(`{"ok":"secondary"}`))
	gw := NewGatewayFromProviders(primary, secondary, Config{})

	resp, err := gw.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":"secondary"}` {
		t.Errorf("expected secondary content, got %s", resp.Content)
	}
	if primary.CallCount() != 1 || secondary.CallCount() != 1 {
		t.Errorf("expected one call each, got primary=%d secondary=%d",
			primary.CallCount(), secondary.CallCount())
	}
}

func TestGateway_BothFail(t *testing.T) {
	primaryErr := &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("429")}
	primary := NewMockProvider(failResponse(primaryErr))
	secondary := NewMockProvider(failResponse(&ErrProviderUnavailable{Err: errors.New("down")}))
	gw := NewGatewayFromProviders(primary, secondary, Config{RetryAfter: 30 * time.Second})

	_, err := gw.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	var all *ErrAllProvidersUnavailable
	if !errors.As(err, &all) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
	if all.RetryAfter != 30*time.Second {
		t.Errorf("expected RetryAfter 30s, got %s", all.RetryAfter)
	}
	if all.Primary == nil || all.Secondary == nil {
		t.Errorf("expected both underlying errors to be recorded")
	}
	// The primary failure is the unwrap target.
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Errorf("expected unwrap to reach the primary error")
	}
}

func TestGateway_NoSecondary(t *testing.T) {
	primary := NewMockProvider(failResponse(&ErrProviderUnavailable{Err: errors.New("down")}))
	gw := NewGatewayFromProviders(primary, nil, Config{})

	_, err := gw.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	var all *ErrAllProvidersUnavailable
	if !errors.As(err, &all) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
	if all.Secondary != nil {
		t.Errorf("expected nil secondary error, got %v", all.Secondary)
	}
}

func TestGateway_ContextCancellation(t *testing.T) {
	primary := NewMockProvider(failResponse(&ErrProviderUnavailable{Err: errors.New("down")}))
	secondary := NewMockProvider(okResponse(`{"ok":"secondary"}`))
	gw := NewGatewayFromProviders(primary, secondary, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Generate(ctx, Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if secondary.CallCount() != 0 {
		t.Errorf("cancelled call must not fall back to secondary")
	}
}

func TestGateway_GenerateJSONAttachesSchema(t *testing.T) {
	primary := NewMockProvider(okResponse(`{}`))
	gw := NewGatewayFromProviders(primary, nil, Config{})

	schema := &Schema{Name: "test-schema", Definition: map[string]any{"type": "object"}}
	if _, err := gw.GenerateJSON(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(primary.Calls) != 1 {
		t.Fatalf("expected one call, got %d", len(primary.Calls))
	}
	if primary.Calls[0].Schema != schema {
		t.Errorf("schema was not attached to the request")
	}
}

func TestGateway_Stream(t *testing.T) {
	primary := NewMockProvider()
	primary.StreamChunks = []string{"Hello", ", ", "world"}
	gw := NewGatewayFromProviders(primary, nil, Config{})

	deltas, err := gw.GenerateStream(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var text string
	var done bool
	for d := range deltas {
		if d.Err != nil {
			t.Fatalf("unexpected stream error: %v", d.Err)
		}
		text += d.Text
		done = d.Done
	}
	if text != "Hello, world" {
		t.Errorf("unexpected streamed text: %q", text)
	}
	if !done {
		t.Errorf("expected a terminal Done delta")
	}
}

func TestGateway_StreamError(t *testing.T) {
	primary := NewMockProvider()
	primary.StreamChunks = []string{"partial"}
	primary.StreamErr = errors.New("connection reset")
	gw := NewGatewayFromProviders(primary, nil, Config{})

	deltas, err := gw.GenerateStream(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawErr bool
	for d := range deltas {
		if d.Err != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Errorf("expected a terminal error delta")
	}
}

func TestNewGateway_MissingKeyDefersToCallTime(t *testing.T) {
	cfg := Config{Primary: "anthropic", Secondary: "mock"}

	gw, err := NewGateway(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("gateway should construct without an anthropic key, got %v", err)
	}
	if got := gw.PrimaryModelID(); got != "anthropic" {
		t.Errorf("PrimaryModelID() = %q, want placeholder name %q", got, "anthropic")
	}

	// The unconfigured primary fails per call and the hop to the empty
	// mock secondary fails too, so callers see the usual all-providers
	// error and degrade to their canned fallbacks.
	_, err = gw.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	var all *ErrAllProvidersUnavailable
	if !errors.As(err, &all) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
	var unavailable *ErrProviderUnavailable
	if !errors.As(all.Primary, &unavailable) {
		t.Errorf("primary error should be ErrProviderUnavailable, got %v", all.Primary)
	}
}

func TestGateway_FallbackWhenPrimaryUnconfigured(t *testing.T) {
	primary := &unavailableProvider{name: "anthropic", err: errors.New("anthropic API key is required")}
	secondary := NewMockProvider(okResponse(`{"ok":"secondary"}`))
	gw := NewGatewayFromProviders(primary, secondary, Config{})

	resp, err := gw.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("secondary should serve the call, got %v", err)
	}
	if string(resp.Content) != `{"ok":"secondary"}` {
		t.Errorf("unexpected content %s", resp.Content)
	}
}

func TestNewGateway_UnknownProviderName(t *testing.T) {
	_, err := NewGateway(context.Background(), Config{Primary: "carrier-pigeon"}, nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown provider name")
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(context.Context, Request) (*Response, error) {
	return &Response{Content: json.RawMessage(`{}`)}, nil
}
func (blockingProvider) ModelID() string { return "blocking" }

func TestGateway_StreamUnsupported(t *testing.T) {
	gw := NewGatewayFromProviders(blockingProvider{}, nil, Config{})

	_, err := gw.GenerateStream(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrProviderUnavailable for non-streaming primary, got %v", err)
	}
}
