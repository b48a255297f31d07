// Package api exposes the conversational assistant over HTTP.
package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

type Config struct {
	Addr            string        `split_words:"true" default:":8080"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// Server wraps a hertz instance serving the chat endpoints.
type Server struct {
	hertz     *server.Hertz
	assistant contractx.Assistant
}

func New(cfg Config, assistant contractx.Assistant) (*Server, error) {
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}

	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = ":8080"
	}

	h := server.Default(server.WithHostPorts(addr))
	s := &Server{hertz: h, assistant: assistant}
	s.registerRoutes(h)
	return s, nil
}

func (s *Server) registerRoutes(h *server.Hertz) {
	h.GET("/healthz", s.handleHealth)
	h.POST("/api/chat", s.handleChat)
}

// Run blocks serving requests until the listener stops. Hertz access logs
// are routed through the global zerolog logger.
func (s *Server) Run() error {
	hlog.SetLogger(hertzzerolog.From(log.Logger))
	return s.hertz.Run()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.hertz.Shutdown(ctx)
}
