// Package tool implements the storefront tool set the personas call
// through the model. Every tool resolves against live Admin API data except
// the static policy text and the expression evaluator. Execution never
// returns an error into the conversation loop: failures become error
// payloads in the tool result so the model can recover in-conversation.
package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

// DataSource is the slice of the Admin API client the tools read from.
// *shopify.Client satisfies it.
type DataSource interface {
	Orders(ctx context.Context, filter string) ([]shopifyx.Order, error)
	Products(ctx context.Context, filter string) ([]shopifyx.Product, error)
	Customers(ctx context.Context) ([]shopifyx.Customer, error)
}

type toolFunc func(ctx context.Context, args map[string]any) (any, error)

// Gateway dispatches tool calls to their handlers, enforcing the per-persona
// allowlist. The admin persona gets the admin and customer sets; the customer
// persona gets the customer set only.
type Gateway struct {
	source DataSource
	now    func() time.Time
	tools  map[string]toolFunc
	allow  map[contractx.PersonaType]map[string]bool
}

type Option func(*Gateway)

// WithNow fixes the clock used for reporting windows.
func WithNow(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(source DataSource, opts ...Option) *Gateway {
	g := &Gateway{source: source, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	g.register()
	return g
}

func (g *Gateway) register() {
	customer := map[string]toolFunc{
		ToolSearchProducts: g.searchProducts,
		ToolBestSellers:    g.bestSellers,
		ToolOrderStatus:    g.orderStatus,
		ToolStorePolicies:  storePoliciesTool,
		ToolEvaluate:       evaluateExpressionTool,
	}
	admin := map[string]toolFunc{
		ToolRevenueSummary:    g.revenueSummary,
		ToolTopProducts:       g.topProducts,
		ToolUnfulfilledOrders: g.unfulfilledOrders,
		ToolLowInventory:      g.lowInventory,
		ToolCompareSales:      g.compareSales,
		ToolRefundedOrders:    g.refundedOrders,
		ToolZeroSales:         g.zeroSales,
		ToolRecentOrders:      g.recentOrders,
		ToolCustomerInsights:  g.customerInsights,
	}

	g.tools = make(map[string]toolFunc, len(customer)+len(admin))
	g.allow = map[contractx.PersonaType]map[string]bool{
		contractx.PersonaTypeCustomer: make(map[string]bool, len(customer)),
		contractx.PersonaTypeAdmin:    make(map[string]bool, len(customer)+len(admin)),
	}
	for name, fn := range customer {
		g.tools[name] = fn
		g.allow[contractx.PersonaTypeCustomer][name] = true
		g.allow[contractx.PersonaTypeAdmin][name] = true
	}
	for name, fn := range admin {
		g.tools[name] = fn
		g.allow[contractx.PersonaTypeAdmin][name] = true
	}
}

// Execute runs every request in order and returns one result per request,
// correlated by call ID. The error return is reserved for broken plumbing;
// per-tool failures are carried in ToolResult.Error.
func (g *Gateway) Execute(ctx context.Context, persona contractx.PersonaType, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, len(reqs))
	for i, req := range reqs {
		results[i] = g.run(ctx, persona, req)
	}
	return results, nil
}

func (g *Gateway) run(ctx context.Context, persona contractx.PersonaType, req contractx.ToolRequest) contractx.ToolResult {
	res := contractx.ToolResult{CallID: req.CallID, Tool: req.Tool}
	fn, known := g.tools[req.Tool]
	if !known || !g.allow[persona][req.Tool] {
		res.Error = fmt.Sprintf("tool=%s is unavailable for persona=%s", req.Tool, persona)
		return res
	}
	out, err := fn(ctx, req.Args)
	if err != nil {
		res.Error = fmt.Sprintf("tool=%s failed: %v", req.Tool, err)
		return res
	}
	res.Result = out
	return res
}

// InfosForPersona returns the tool schemas a persona's chat model binds.
func InfosForPersona(persona contractx.PersonaType) []*schema.ToolInfo {
	switch persona {
	case contractx.PersonaTypeAdmin:
		return append(adminToolInfos(), customerToolInfos()...)
	case contractx.PersonaTypeCustomer:
		return customerToolInfos()
	default:
		return nil
	}
}
