package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// NewLimited wraps a chat model so every call first waits on a shared
// requests-per-minute budget. A non-positive rate disables limiting.
func NewLimited(inner model.ToolCallingChatModel, requestsPerMinute float64) model.ToolCallingChatModel {
	if requestsPerMinute <= 0 {
		return inner
	}
	rps := requestsPerMinute / 60.0
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	return &limitedModel{inner: inner, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

type limitedModel struct {
	inner   model.ToolCallingChatModel
	limiter *rate.Limiter
}

func (m *limitedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("model rate limit: %w", err)
	}
	return m.inner.Generate(ctx, input, opts...)
}

func (m *limitedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("model rate limit: %w", err)
	}
	return m.inner.Stream(ctx, input, opts...)
}

// WithTools shares the limiter between the unbound and bound models, so
// binding tools never resets the budget.
func (m *limitedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	bound, err := m.inner.WithTools(tools)
	if err != nil {
		return nil, err
	}
	return &limitedModel{inner: bound, limiter: m.limiter}, nil
}
