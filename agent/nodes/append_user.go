package conversationnode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

func AppendUserMessage(in *GraphState) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: conversation state is nil", contractx.ErrValidation)
	}

	in.Conversation.AppendUser(in.Text)
	return in, nil
}
