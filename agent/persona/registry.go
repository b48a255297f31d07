package persona

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	llmx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/llm"
	promptx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/tool"
)

// Registry holds the two personas the assistant can speak as.
type Registry struct {
	customer contractx.Persona
	admin    contractx.Persona
}

var _ contractx.Registry = (*Registry)(nil)

// NewRegistry builds both personas from config: rendered instructions, an
// OpenRouter chat model with per-persona overrides applied, a shared request
// budget, and the persona's tool schemas bound.
func NewRegistry(ctx context.Context, cfg llmx.Config, profile promptx.StoreProfile) (*Registry, error) {
	customer, err := buildPersona(ctx, cfg, profile, contractx.PersonaTypeCustomer)
	if err != nil {
		return nil, err
	}
	admin, err := buildPersona(ctx, cfg, profile, contractx.PersonaTypeAdmin)
	if err != nil {
		return nil, err
	}
	return &Registry{customer: customer, admin: admin}, nil
}

// NewRegistryWith wires pre-built personas into a registry.
func NewRegistryWith(customer, admin contractx.Persona) (*Registry, error) {
	if customer == nil || admin == nil {
		return nil, fmt.Errorf("%w: registry requires both a customer and an admin persona", contractx.ErrValidation)
	}
	return &Registry{customer: customer, admin: admin}, nil
}

func buildPersona(ctx context.Context, cfg llmx.Config, profile promptx.StoreProfile, personaType contractx.PersonaType) (contractx.Persona, error) {
	instructions, err := promptx.ForPersona(personaType, profile)
	if err != nil {
		return nil, err
	}

	orCfg := cfg.OpenRouterFor(personaType)
	base, err := orCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("build chat model for persona=%s: %w", personaType, err)
	}

	limited := llmx.NewLimited(base, cfg.RequestsPerMinute)
	bound, err := limited.WithTools(toolx.InfosForPersona(personaType))
	if err != nil {
		return nil, fmt.Errorf("bind tools for persona=%s: %w", personaType, err)
	}

	return New(personaType, instructions, bound)
}

// Resolve maps a request role onto a persona. Unknown roles fall back to the
// customer persona, which carries the smallest tool surface.
func (r *Registry) Resolve(role string) contractx.Persona {
	switch contractx.PersonaType(strings.ToLower(strings.TrimSpace(role))) {
	case contractx.PersonaTypeAdmin:
		return r.admin
	default:
		return r.customer
	}
}

func (r *Registry) Customer() contractx.Persona { return r.customer }

func (r *Registry) Admin() contractx.Persona { return r.admin }
