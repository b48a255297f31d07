// Package conversationnode holds the graph nodes for one conversational turn:
// validate, load history, route the persona, run the model/tool loop, save,
// finalize. Each node takes the shared *GraphState and returns it mutated.
package conversationnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Storefront-Assistant/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Role      string
	Text      string
}

type GraphOutput struct {
	SessionID string
	Persona   contractx.PersonaType
	Reply     string
}

type GraphState struct {
	SessionID string
	Role      string
	Text      string
	Now       time.Time

	Persona      contractx.Persona
	Conversation *statex.ConversationState

	Reply string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Role:      strings.TrimSpace(in.Role),
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
