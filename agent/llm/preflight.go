package llm

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/openrouter"
)

// Preflight verifies the provider credentials with a models list call, so a
// bad key fails at startup instead of on the first conversation turn. Set
// OPENROUTER_SKIP_PREFLIGHT to skip, e.g. for offline development.
func Preflight(ctx context.Context, cfg Config) error {
	if cfg.SkipPreflight {
		return nil
	}

	client := openrouterx.NewClient(cfg.OpenRouterFor(contractx.PersonaTypeCustomer))
	if client == nil {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if _, err := client.Models.List(ctx); err != nil {
		return fmt.Errorf("openrouter preflight: %w", err)
	}
	return nil
}
