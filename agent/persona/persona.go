// Package persona assembles the chat-facing personas: a system prompt plus
// a tool-bound, rate-limited chat model per role.
package persona

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

type Persona struct {
	personaType  contractx.PersonaType
	instructions string
	model        model.ToolCallingChatModel
}

var _ contractx.Persona = (*Persona)(nil)

func New(personaType contractx.PersonaType, instructions string, m model.ToolCallingChatModel) (*Persona, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, fmt.Errorf("%w: persona=%s has no instructions", contractx.ErrPromptMissing, personaType)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: persona=%s requires a chat model", contractx.ErrValidation, personaType)
	}
	return &Persona{
		personaType:  personaType,
		instructions: instructions,
		model:        m,
	}, nil
}

func (p *Persona) Type() contractx.PersonaType { return p.personaType }

func (p *Persona) Instructions() string { return p.instructions }

// Generate invokes the persona's model over the full history. Failures are
// wrapped in ErrModelInvoke so the conversation loop can degrade gracefully
// instead of surfacing provider errors to the caller.
func (p *Persona) Generate(ctx context.Context, history []*schema.Message) (*schema.Message, error) {
	msg, err := p.model.Generate(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("%w: persona=%s: %v", contractx.ErrModelInvoke, p.personaType, err)
	}
	return msg, nil
}
