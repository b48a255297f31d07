package contract

type PersonaType string

const (
	PersonaTypeCustomer PersonaType = "customer"
	PersonaTypeAdmin    PersonaType = "admin"
)

type TurnRequest struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role,omitempty"`
	Text      string `json:"text"`
}

type TurnReply struct {
	SessionID string      `json:"session_id"`
	Persona   PersonaType `json:"persona"`
	Reply     string      `json:"reply"`
}

type ToolRequest struct {
	CallID string         `json:"call_id,omitempty"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	CallID string `json:"call_id,omitempty"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
