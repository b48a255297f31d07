package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

var (
	//go:embed template/customer.txt
	customerRaw string

	//go:embed template/admin.txt
	adminRaw string
)

// StoreProfile fills the placeholders the persona templates carry. Zero
// values fall back to neutral wording so a missing profile never leaves a
// raw placeholder in the prompt.
type StoreProfile struct {
	Name     string
	Currency string
}

func (p StoreProfile) withDefaults() StoreProfile {
	if p.Name == "" {
		p.Name = "the store"
	}
	if p.Currency == "" {
		p.Currency = "Pakistani Rupees (Rs.)"
	}
	return p
}

// ForPersona returns the rendered system prompt for a persona.
func ForPersona(persona contractx.PersonaType, profile StoreProfile) (string, error) {
	var raw string
	switch persona {
	case contractx.PersonaTypeCustomer:
		raw = customerRaw
	case contractx.PersonaTypeAdmin:
		raw = adminRaw
	default:
		return "", fmt.Errorf("%w: no template for persona=%s", contractx.ErrPromptMissing, persona)
	}

	rendered := strings.TrimSpace(render(raw, profile.withDefaults()))
	if rendered == "" {
		return "", fmt.Errorf("%w: template for persona=%s is empty", contractx.ErrPromptMissing, persona)
	}
	return rendered, nil
}

func render(raw string, profile StoreProfile) string {
	return strings.NewReplacer(
		"{{store_name}}", profile.Name,
		"{{currency}}", profile.Currency,
	).Replace(raw)
}
