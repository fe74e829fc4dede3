package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Gateway presents two interchangeable backends as one generate operation
// with automatic failover. The primary provider is tried first; on any
// failure the secondary is tried exactly once with the request
// re-serialized by that provider's own implementation. There is no retry
// loop beyond the single fallback hop, so call latency stays bounded.
type Gateway struct {
	primary   Provider
	secondary Provider // nil disables fallback
	cfg       Config
}

// NewGateway builds a Gateway from configuration, instantiating the
// configured primary and secondary providers. A provider that cannot be
// constructed (typically a missing API key) does not fail construction:
// it is replaced by a stub that fails at call time with
// *ErrProviderUnavailable, so the failover hop and the callers' canned
// fallbacks absorb the condition and the interview still runs. Only an
// unknown provider name is a construction error.
func NewGateway(ctx context.Context, cfg Config, log *zap.Logger) (*Gateway, error) {
	primary, err := newProvider(ctx, cfg, cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("initializing primary %s provider: %w", cfg.Primary, err)
	}

	var secondary Provider
	if cfg.Secondary != "" {
		secondary, err = newProvider(ctx, cfg, cfg.Secondary)
		if err != nil {
			return nil, fmt.Errorf("initializing secondary %s provider: %w", cfg.Secondary, err)
		}
	}

	if log != nil {
		primary = WithLogging(primary, log.Named("llm.primary"))
		if secondary != nil {
			secondary = WithLogging(secondary, log.Named("llm.secondary"))
		}
	}

	return &Gateway{primary: primary, secondary: secondary, cfg: cfg}, nil
}

// NewGatewayFromProviders builds a Gateway over already-constructed
// providers. Used by tests and by callers that wire their own decorators.
func NewGatewayFromProviders(primary, secondary Provider, cfg Config) *Gateway {
	return &Gateway{primary: primary, secondary: secondary, cfg: cfg}
}

func newProvider(ctx context.Context, cfg Config, name string) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch name {
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return &unavailableProvider{name: name, err: err}, nil
	}
	return p, nil
}

// unavailableProvider stands in for a backend that could not be
// constructed, usually because its API key is unset. Every call fails
// with *ErrProviderUnavailable so the failover hop, and ultimately the
// callers' canned fallbacks, take over.
type unavailableProvider struct {
	name string
	err  error
}

func (u *unavailableProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: fmt.Errorf("%s provider not configured: %w", u.name, u.err)}
}

func (u *unavailableProvider) ModelID() string {
	return u.name
}

// Generate sends the request to the primary provider and falls back to
// the secondary on any failure. Both failing yields
// *ErrAllProvidersUnavailable; callers are expected to degrade to their
// own fallback behavior rather than surface it to end users.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Response, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, primaryErr := g.primary.Generate(ctx, req)
	if primaryErr == nil {
		return resp, nil
	}

	// Context expiry is the caller's signal, not a provider fault.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if g.secondary == nil {
		return nil, &ErrAllProvidersUnavailable{
			Primary:    primaryErr,
			RetryAfter: g.cfg.RetryAfter,
		}
	}

	resp, secondaryErr := g.secondary.Generate(ctx, req)
	if secondaryErr == nil {
		return resp, nil
	}

	return nil, &ErrAllProvidersUnavailable{
		Primary:    primaryErr,
		Secondary:  secondaryErr,
		RetryAfter: g.cfg.RetryAfter,
	}
}

// GenerateJSON is the schema-carrying variant of Generate. The provider
// is asked to honor its JSON response mode; callers remain responsible
// for lenient parsing of the returned content (see DecodeLenient).
func (g *Gateway) GenerateJSON(ctx context.Context, req Request, schema *Schema) (*Response, error) {
	req.Schema = schema
	return g.Generate(ctx, req)
}

// GenerateStream opens a streaming connection to the primary provider
// only. Once streaming has started partial output cannot be safely
// retried, so there is no fallback hop. The primary must implement
// StreamingProvider.
func (g *Gateway) GenerateStream(ctx context.Context, req Request) (<-chan StreamDelta, error) {
	sp, ok := g.primary.(StreamingProvider)
	if !ok {
		return nil, &ErrProviderUnavailable{
			Err: fmt.Errorf("provider %s does not support streaming", g.primary.ModelID()),
		}
	}
	return sp.GenerateStream(ctx, req)
}

// PrimaryModelID returns the model identifier of the primary provider.
func (g *Gateway) PrimaryModelID() string {
	return g.primary.ModelID()
}
