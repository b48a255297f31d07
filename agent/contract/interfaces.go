package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type Persona interface {
	Type() PersonaType
	Instructions() string
	Generate(ctx context.Context, history []*schema.Message) (*schema.Message, error)
}

type Registry interface {
	Resolve(role string) Persona
	Customer() Persona
	Admin() Persona
}

type ToolGateway interface {
	Execute(ctx context.Context, persona PersonaType, reqs []ToolRequest) ([]ToolResult, error)
}

type Assistant interface {
	HandleTurn(ctx context.Context, req TurnRequest) (TurnReply, error)
}
