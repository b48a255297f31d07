package conversationnode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
)

// DefaultMaxToolSteps bounds model invocations per turn.
const DefaultMaxToolSteps = 6

const (
	modelFailureReply   = "I apologize, I'm having trouble processing your request right now. Please try again in a moment."
	budgetExceededReply = "I couldn't finish that request within the allowed number of steps. Please try asking in a simpler way."
)

// RunAgentLoop drives the model until it answers in plain text: each round
// generates once, executes any requested tool calls through the gateway, and
// feeds the results back. Model failures and an exhausted step budget both
// end the turn with an assistant message rather than an error, keeping the
// persisted transcript coherent.
func RunAgentLoop(ctx context.Context, in *GraphState, tools contractx.ToolGateway, maxSteps int) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: conversation state is nil", contractx.ErrValidation)
	}
	if in.Persona == nil {
		return nil, fmt.Errorf("%w: persona is not routed", contractx.ErrValidation)
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool gateway is nil", contractx.ErrValidation)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxToolSteps
	}

	conv := in.Conversation
	for step := 0; step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assistant, err := in.Persona.Generate(ctx, conv.Messages)
		if err == nil && assistant == nil {
			err = fmt.Errorf("%w: persona=%s returned no message", contractx.ErrModelInvoke, in.Persona.Type())
		}
		if err != nil {
			log.Warn().Err(err).Str("session_id", in.SessionID).Msg("model invoke failed, replying with fallback")
			conv.Append(schema.AssistantMessage(modelFailureReply, nil))
			in.Reply = modelFailureReply
			return in, nil
		}

		synthesizeCallIDs(assistant, step)
		conv.Append(assistant)

		if len(assistant.ToolCalls) == 0 {
			in.Reply = strings.TrimSpace(assistant.Content)
			return in, nil
		}

		conv.Append(executeToolCalls(ctx, in.Persona.Type(), tools, assistant.ToolCalls)...)
	}

	log.Warn().Str("session_id", in.SessionID).Int("max_steps", maxSteps).Msg("tool step budget exhausted")
	conv.Append(schema.AssistantMessage(budgetExceededReply, nil))
	in.Reply = budgetExceededReply
	return in, nil
}

// synthesizeCallIDs fills in the ids some providers omit. Tool results are
// correlated by id on the next model call, so every call must carry one.
func synthesizeCallIDs(msg *schema.Message, step int) {
	for i := range msg.ToolCalls {
		if strings.TrimSpace(msg.ToolCalls[i].ID) == "" {
			msg.ToolCalls[i].ID = fmt.Sprintf("call-%d-%d", step, i)
		}
	}
}

// executeToolCalls turns every tool call into exactly one tool message, in
// call order. Malformed arguments and gateway failures become error payloads
// the model can read, never turn-ending errors.
func executeToolCalls(ctx context.Context, persona contractx.PersonaType, tools contractx.ToolGateway, calls []schema.ToolCall) []*schema.Message {
	parseErrs := make([]string, len(calls))
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for i, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			parseErrs[i] = "tool call has no name"
			continue
		}
		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				parseErrs[i] = fmt.Sprintf("invalid arguments for tool=%s: %v", name, err)
				continue
			}
		}
		reqs = append(reqs, contractx.ToolRequest{CallID: call.ID, Tool: name, Args: args})
	}

	results, execErr := tools.Execute(ctx, persona, reqs)

	msgs := make([]*schema.Message, 0, len(calls))
	next := 0
	for i, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		var res contractx.ToolResult
		switch {
		case parseErrs[i] != "":
			res = contractx.ToolResult{CallID: call.ID, Tool: name, Error: parseErrs[i]}
		case execErr != nil:
			res = contractx.ToolResult{CallID: call.ID, Tool: name, Error: fmt.Sprintf("tool gateway failed: %v", execErr)}
		case next < len(results):
			res = results[next]
			next++
		default:
			res = contractx.ToolResult{CallID: call.ID, Tool: name, Error: fmt.Sprintf("tool=%s returned no result", name)}
		}
		if res.CallID == "" {
			res.CallID = call.ID
		}
		msgs = append(msgs, &schema.Message{
			Role:       schema.Tool,
			Content:    resultContent(res),
			ToolCallID: res.CallID,
		})
	}
	return msgs
}

func resultContent(res contractx.ToolResult) string {
	if res.Error != "" {
		payload, _ := json.Marshal(map[string]string{"error": res.Error})
		return string(payload)
	}
	if s, ok := res.Result.(string); ok {
		return s
	}
	payload, err := json.Marshal(res.Result)
	if err != nil {
		fallback, _ := json.Marshal(map[string]string{"error": fmt.Sprintf("encode result for tool=%s: %v", res.Tool, err)})
		return string(fallback)
	}
	return string(payload)
}
