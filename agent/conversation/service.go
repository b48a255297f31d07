// Package conversation wires the turn graph: one HandleTurn call validates
// the request, loads history, routes the persona, runs the model/tool loop,
// and persists the grown transcript.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	nodex "github.com/tanpawarit/Chative-Storefront-Assistant/agent/nodes"
	statex "github.com/tanpawarit/Chative-Storefront-Assistant/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Config tunes the turn loop.
type Config struct {
	MaxToolSteps int `envconfig:"MAX_TOOL_STEPS" split_words:"true" default:"6"`
}

type Service struct {
	store    statex.Store
	registry contractx.Registry
	tools    contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	maxToolSteps int
	now          func() time.Time

	sessions sync.Map // session id -> *sync.Mutex
}

var _ contractx.Assistant = (*Service)(nil)

func New(
	store statex.Store,
	registry contractx.Registry,
	tools contractx.ToolGateway,
	cfg Config,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if registry == nil {
		return nil, errors.New("persona registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	maxSteps := cfg.MaxToolSteps
	if maxSteps <= 0 {
		maxSteps = nodex.DefaultMaxToolSteps
	}

	s := &Service{
		store:        store,
		registry:     registry,
		tools:        tools,
		maxToolSteps: maxSteps,
		now:          time.Now,
	}

	graphRunner, err := s.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleTurn runs one full turn. Turns on the same session are serialized so
// concurrent requests cannot interleave their load-mutate-save cycles.
func (s *Service) HandleTurn(ctx context.Context, req contractx.TurnRequest) (contractx.TurnReply, error) {
	if sessionID := strings.TrimSpace(req.SessionID); sessionID != "" {
		mu := s.sessionLock(sessionID)
		mu.Lock()
		defer mu.Unlock()
	}

	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: req.SessionID,
		Role:      req.Role,
		Text:      req.Text,
	})
	if err != nil {
		return contractx.TurnReply{}, err
	}

	return contractx.TurnReply{
		SessionID: out.SessionID,
		Persona:   out.Persona,
		Reply:     out.Reply,
	}, nil
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := s.sessions.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
