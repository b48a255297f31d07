package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

// ConversationState is the persistent record of one chat session: the persona
// it was pinned to on the first turn plus the full message transcript, system
// prompt included, in model order.
type ConversationState struct {
	SessionID string                `json:"session_id"`
	Persona   contractx.PersonaType `json:"persona,omitempty"`
	Messages  []*schema.Message     `json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrHistoryCorrupt = errors.New("conversation history corrupt")

func NewConversationState(sessionID string, now time.Time) *ConversationState {
	ts := now.UTC()
	return &ConversationState{
		SessionID: sessionID,
		Messages:  make([]*schema.Message, 0, 8),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func (s *ConversationState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

/* --------------------------- Transcript helpers -------------------------- */

// EnsureSystemMessage installs the persona instructions as the first message.
// Calling it again on a transcript that already starts with a system message
// is a no-op, so reloaded sessions never accumulate duplicate prompts.
func (s *ConversationState) EnsureSystemMessage(instructions string) {
	if strings.TrimSpace(instructions) == "" {
		return
	}
	if len(s.Messages) > 0 && s.Messages[0] != nil && s.Messages[0].Role == schema.System {
		return
	}
	s.Messages = append([]*schema.Message{schema.SystemMessage(instructions)}, s.Messages...)
}

func (s *ConversationState) AppendUser(text string) {
	s.Messages = append(s.Messages, schema.UserMessage(text))
}

func (s *ConversationState) Append(msgs ...*schema.Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastAssistantText returns the content of the most recent assistant message
// that carries text, skipping tool-call-only entries.
func (s *ConversationState) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		msg := s.Messages[i]
		if msg == nil || msg.Role != schema.Assistant {
			continue
		}
		if strings.TrimSpace(msg.Content) != "" {
			return msg.Content
		}
	}
	return ""
}

// Clone returns a copy whose message slice is independent of the receiver.
// The messages themselves are shared; the turn loop only ever appends.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = append(make([]*schema.Message, 0, len(s.Messages)), s.Messages...)
	return &out
}

// Validate checks the structural invariants a persisted transcript must hold:
// a session id, known roles only, and no assistant tool call left without a
// matching tool result.
func (s *ConversationState) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}

	pending := make(map[string]bool)
	for i, msg := range s.Messages {
		if msg == nil {
			return fmt.Errorf("%w: nil message at index %d", ErrHistoryCorrupt, i)
		}
		switch msg.Role {
		case schema.System, schema.User:
		case schema.Assistant:
			for _, call := range msg.ToolCalls {
				if call.ID != "" {
					pending[call.ID] = true
				}
			}
		case schema.Tool:
			if msg.ToolCallID == "" {
				return fmt.Errorf("%w: tool message at index %d has no call id", ErrHistoryCorrupt, i)
			}
			delete(pending, msg.ToolCallID)
		default:
			return fmt.Errorf("%w: unknown role %q at index %d", ErrHistoryCorrupt, string(msg.Role), i)
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: %d tool calls have no results", ErrHistoryCorrupt, len(pending))
	}
	return nil
}
