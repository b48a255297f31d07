package conversationnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Conversation == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		reply = strings.TrimSpace(in.Conversation.LastAssistantText())
	}
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: assistant returned an empty reply", contractx.ErrValidation)
	}

	return GraphOutput{
		SessionID: in.SessionID,
		Persona:   in.Conversation.Persona,
		Reply:     reply,
	}, nil
}
