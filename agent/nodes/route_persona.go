package conversationnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

// RoutePersona picks the persona for this turn and installs its instructions.
// The first turn pins the persona on the session; later turns keep the pinned
// one even if the caller sends a different role flag.
func RoutePersona(_ context.Context, in *GraphState, registry contractx.Registry) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: conversation state is nil", contractx.ErrValidation)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: persona registry is nil", contractx.ErrValidation)
	}

	persona := registry.Resolve(in.Role)
	if pinned := in.Conversation.Persona; pinned != "" && pinned != persona.Type() {
		log.Debug().
			Str("session_id", in.SessionID).
			Str("pinned", string(pinned)).
			Str("requested", string(persona.Type())).
			Msg("role flag ignored, session keeps its first persona")
		switch pinned {
		case contractx.PersonaTypeAdmin:
			persona = registry.Admin()
		default:
			persona = registry.Customer()
		}
	}

	in.Persona = persona
	in.Conversation.Persona = persona.Type()
	in.Conversation.EnsureSystemMessage(persona.Instructions())
	return in, nil
}
