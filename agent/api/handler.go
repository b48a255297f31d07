package api

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	conversationx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/conversation"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
	Reply     string `json:"reply"`
}

func (s *Server) handleHealth(_ context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

// handleChat runs one conversational turn. A blank session id starts a fresh
// session whose id is minted here and echoed back in the response.
func (s *Server) handleChat(ctx context.Context, c *app.RequestContext) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = "session-" + uuid.NewString()
	}

	reply, err := s.assistant.HandleTurn(ctx, contractx.TurnRequest{
		SessionID: sessionID,
		Role:      req.Role,
		Text:      req.Message,
	})
	if err != nil {
		if errors.Is(err, conversationx.ErrInvalidMessage) || errors.Is(err, conversationx.ErrInvalidSession) {
			c.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("chat turn failed")
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": "failed to process message"})
		return
	}

	c.JSON(consts.StatusOK, chatResponse{
		SessionID: reply.SessionID,
		Persona:   string(reply.Persona),
		Reply:     reply.Reply,
	})
}
