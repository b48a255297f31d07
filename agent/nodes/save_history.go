package conversationnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Storefront-Assistant/agent/state"
)

func SaveHistory(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: conversation state is nil", contractx.ErrValidation)
	}

	in.Conversation.Touch(in.Now)
	if err := in.Conversation.Validate(); err != nil {
		return nil, fmt.Errorf("history validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Conversation); err != nil {
		return nil, err
	}

	return in, nil
}
