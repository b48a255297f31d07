package conversationnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Storefront-Assistant/agent/state"
)

// LoadHistory fetches the session transcript, starting a fresh one when the
// store has never seen this session id.
func LoadHistory(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		st = statex.NewConversationState(in.SessionID, in.Now)
	}

	in.Conversation = st
	return in, nil
}
