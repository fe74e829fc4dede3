package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/intervue/internal/logger"
)

// maxLoggedPrompt caps the prompt excerpt recorded on debug logs.
const maxLoggedPrompt = 160

// LoggingProvider is a decorator that records every call with its
// purpose, latency, token usage and outcome.
type LoggingProvider struct {
	inner Provider
	log   *zap.Logger
}

// WithLogging wraps a Provider with structured call logging.
func WithLogging(p Provider, log *zap.Logger) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("model", l.inner.ModelID()),
		zap.String("purpose", PurposeFrom(ctx)),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}
	if len(req.Messages) > 0 {
		fields = append(fields, zap.String("prompt", logger.Truncate(req.Messages[0].Content, maxLoggedPrompt)))
	}
	if resp != nil {
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
			zap.String("stop_reason", resp.StopReason),
		)
	}

	if err != nil {
		l.log.Warn("llm call failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("llm call completed", fields...)
	}

	return resp, err
}

// GenerateStream delegates to the inner provider when it supports
// streaming. Deltas are not logged individually; only stream open.
func (l *LoggingProvider) GenerateStream(ctx context.Context, req Request) (<-chan StreamDelta, error) {
	sp, ok := l.inner.(StreamingProvider)
	if !ok {
		return nil, &ErrProviderUnavailable{
			Err: fmt.Errorf("provider %s does not support streaming", l.inner.ModelID()),
		}
	}

	l.log.Debug("llm stream opened",
		zap.String("model", l.inner.ModelID()),
		zap.String("purpose", PurposeFrom(ctx)),
	)
	return sp.GenerateStream(ctx, req)
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
