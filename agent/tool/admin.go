package tool

import (
	"context"
	"fmt"
	"sort"

	"github.com/cloudwego/eino/schema"

	analyticsx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/analytics"
	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

// Admin tool names. Only the admin persona may call these.
const (
	ToolRevenueSummary    = "get_revenue_summary"
	ToolTopProducts       = "get_top_products"
	ToolUnfulfilledOrders = "get_unfulfilled_orders"
	ToolLowInventory      = "get_low_inventory_products"
	ToolCompareSales      = "compare_sales_periods"
	ToolRefundedOrders    = "get_refunded_orders"
	ToolZeroSales         = "get_zero_sales_products"
	ToolRecentOrders      = "get_recent_orders"
	ToolCustomerInsights  = "get_customer_insights"
)

const (
	activeProductsFilter = `status:active`
	unfulfilledFilter    = `fulfillment_status:unfulfilled AND status:open`

	// Unfulfilled-order reports list at most this many order summaries.
	maxOrderSummaries = 20
)

func paidSince(w analyticsx.Window) string {
	return fmt.Sprintf(`financial_status:paid AND created_at:>"%s"`, w.StartISO())
}

func paidBetween(w analyticsx.Window) string {
	return fmt.Sprintf(`financial_status:paid AND created_at:>"%s" AND created_at:<"%s"`, w.StartISO(), w.EndISO())
}

type RevenueSummary struct {
	PeriodDays        int    `json:"period_days"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	TotalRevenue      string `json:"total_revenue"`
	TotalOrders       int    `json:"total_orders"`
	AverageOrderValue string `json:"average_order_value"`
}

type RankedProduct struct {
	ProductTitle   string `json:"product_title"`
	TotalRevenue   string `json:"total_revenue"`
	TotalUnitsSold int    `json:"total_units_sold"`
}

type UnfulfilledReport struct {
	Count      int      `json:"count"`
	TotalValue string   `json:"total_value"`
	Orders     []string `json:"orders"`
}

type PeriodStats struct {
	Days       int    `json:"days"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Revenue    string `json:"revenue"`
	OrderCount int    `json:"order_count"`
}

type SalesChanges struct {
	RevenueChange    string `json:"revenue_change"`
	RevenueChangePct string `json:"revenue_change_pct"`
	OrderChange      int    `json:"order_change"`
	OrderChangePct   string `json:"order_change_pct"`
}

type SalesComparison struct {
	CurrentPeriod  PeriodStats  `json:"current_period"`
	PreviousPeriod PeriodStats  `json:"previous_period"`
	Changes        SalesChanges `json:"changes"`
}

type CustomerInsight struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	OrdersCount int    `json:"orders_count"`
	TotalSpent  string `json:"total_spent"`
}

func (g *Gateway) revenueSummary(ctx context.Context, args map[string]any) (any, error) {
	days, err := intArg(args, "days", 1)
	if err != nil {
		return nil, err
	}
	w := analyticsx.WindowDaysBack(g.now(), days)
	orders, err := g.source.Orders(ctx, paidBetween(w))
	if err != nil {
		return nil, err
	}
	return RevenueSummary{
		PeriodDays:        days,
		StartDate:         w.StartDate(),
		EndDate:           w.EndDate(),
		TotalRevenue:      analyticsx.FormatMoney(analyticsx.SumOrderTotals(orders)),
		TotalOrders:       len(orders),
		AverageOrderValue: analyticsx.FormatMoney(analyticsx.AverageOrderValue(orders)),
	}, nil
}

func (g *Gateway) topProducts(ctx context.Context, args map[string]any) (any, error) {
	days, err := intArg(args, "days", 30)
	if err != nil {
		return nil, err
	}
	topN, err := intArg(args, "top_n", 5)
	if err != nil {
		return nil, err
	}
	w := analyticsx.WindowDaysBack(g.now(), days)
	orders, err := g.source.Orders(ctx, paidSince(w))
	if err != nil {
		return nil, err
	}

	// Revenue is formatted only after ranking so string formatting can
	// never change the order.
	ranked := analyticsx.TopByRevenue(analyticsx.ProductSalesFromOrders(orders), topN)
	out := make([]RankedProduct, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, RankedProduct{
			ProductTitle:   p.Title,
			TotalRevenue:   analyticsx.FormatMoney(p.Revenue),
			TotalUnitsSold: p.Units,
		})
	}
	return out, nil
}

func (g *Gateway) unfulfilledOrders(ctx context.Context, _ map[string]any) (any, error) {
	orders, err := g.source.Orders(ctx, unfulfilledFilter)
	if err != nil {
		return nil, err
	}
	summaries := make([]string, 0, len(orders))
	for _, o := range orders {
		if len(summaries) == maxOrderSummaries {
			break
		}
		summaries = append(summaries, analyticsx.SummarizeOrder(o))
	}
	return UnfulfilledReport{
		Count:      len(orders),
		TotalValue: analyticsx.FormatMoney(analyticsx.SumOrderTotals(orders)),
		Orders:     summaries,
	}, nil
}

func (g *Gateway) lowInventory(ctx context.Context, args map[string]any) (any, error) {
	threshold, err := intArg(args, "threshold", 3)
	if err != nil {
		return nil, err
	}
	products, err := g.source.Products(ctx, activeProductsFilter)
	if err != nil {
		return nil, err
	}
	low := analyticsx.LowStockVariants(products, threshold)
	if low == nil {
		low = []analyticsx.LowStockVariant{}
	}
	return low, nil
}

func (g *Gateway) compareSales(ctx context.Context, args map[string]any) (any, error) {
	currentDays, err := intArg(args, "current_days", 30)
	if err != nil {
		return nil, err
	}
	previousDays, err := intArg(args, "previous_days", 30)
	if err != nil {
		return nil, err
	}

	current := analyticsx.WindowDaysBack(g.now(), currentDays)
	previous := current.PreviousWindow(previousDays)

	currentOrders, err := g.source.Orders(ctx, paidBetween(current))
	if err != nil {
		return nil, err
	}
	previousOrders, err := g.source.Orders(ctx, paidBetween(previous))
	if err != nil {
		return nil, err
	}

	currentRevenue := analyticsx.SumOrderTotals(currentOrders)
	previousRevenue := analyticsx.SumOrderTotals(previousOrders)

	return SalesComparison{
		CurrentPeriod: PeriodStats{
			Days:       currentDays,
			Start:      current.StartDate(),
			End:        current.EndDate(),
			Revenue:    analyticsx.FormatMoney(currentRevenue),
			OrderCount: len(currentOrders),
		},
		PreviousPeriod: PeriodStats{
			Days:       previousDays,
			Start:      previous.StartDate(),
			End:        previous.EndDate(),
			Revenue:    analyticsx.FormatMoney(previousRevenue),
			OrderCount: len(previousOrders),
		},
		Changes: SalesChanges{
			RevenueChange:    analyticsx.FormatMoney(currentRevenue - previousRevenue),
			RevenueChangePct: analyticsx.FormatPercent(analyticsx.PercentChange(currentRevenue, previousRevenue)),
			OrderChange:      len(currentOrders) - len(previousOrders),
			OrderChangePct:   analyticsx.FormatPercent(analyticsx.PercentChange(float64(len(currentOrders)), float64(len(previousOrders)))),
		},
	}, nil
}

func (g *Gateway) refundedOrders(ctx context.Context, args map[string]any) (any, error) {
	days, err := intArg(args, "days", 7)
	if err != nil {
		return nil, err
	}
	w := analyticsx.WindowDaysBack(g.now(), days)

	refunded, err := g.source.Orders(ctx, fmt.Sprintf(`financial_status:refunded AND created_at:>"%s"`, w.StartISO()))
	if err != nil {
		return nil, err
	}
	partial, err := g.source.Orders(ctx, fmt.Sprintf(`financial_status:partially_refunded AND created_at:>"%s"`, w.StartISO()))
	if err != nil {
		return nil, err
	}

	summaries := make([]string, 0, len(refunded)+len(partial))
	for _, o := range refunded {
		summaries = append(summaries, analyticsx.SummarizeOrder(o))
	}
	for _, o := range partial {
		summaries = append(summaries, analyticsx.SummarizeOrder(o))
	}
	return summaries, nil
}

func (g *Gateway) zeroSales(ctx context.Context, args map[string]any) (any, error) {
	days, err := intArg(args, "days", 30)
	if err != nil {
		return nil, err
	}
	products, err := g.source.Products(ctx, activeProductsFilter)
	if err != nil {
		return nil, err
	}
	w := analyticsx.WindowDaysBack(g.now(), days)
	orders, err := g.source.Orders(ctx, paidSince(w))
	if err != nil {
		return nil, err
	}

	titles := analyticsx.ZeroSalesTitles(products, orders)
	if len(titles) == 0 {
		return []string{analyticsx.AllSoldMessage}, nil
	}
	return titles, nil
}

func (g *Gateway) recentOrders(ctx context.Context, args map[string]any) (any, error) {
	hours, err := intArg(args, "hours", 24)
	if err != nil {
		return nil, err
	}
	w := analyticsx.WindowHoursBack(g.now(), hours)
	orders, err := g.source.Orders(ctx, fmt.Sprintf(`created_at:>"%s"`, w.StartISO()))
	if err != nil {
		return nil, err
	}
	summaries := make([]string, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, analyticsx.SummarizeOrder(o))
	}
	return summaries, nil
}

func (g *Gateway) customerInsights(ctx context.Context, args map[string]any) (any, error) {
	topN, err := intArg(args, "top_n", 10)
	if err != nil {
		return nil, err
	}
	customers, err := g.source.Customers(ctx)
	if err != nil {
		return nil, err
	}

	repeat := make([]shopifyx.Customer, 0, len(customers))
	for _, c := range customers {
		if analyticsx.ParseCount(c.NumberOfOrders) > 1 {
			repeat = append(repeat, c)
		}
	}
	sort.SliceStable(repeat, func(i, j int) bool {
		ci := analyticsx.ParseCount(repeat[i].NumberOfOrders)
		cj := analyticsx.ParseCount(repeat[j].NumberOfOrders)
		if ci != cj {
			return ci > cj
		}
		return analyticsx.ParseAmount(repeat[i].AmountSpent) > analyticsx.ParseAmount(repeat[j].AmountSpent)
	})
	if topN > 0 && len(repeat) > topN {
		repeat = repeat[:topN]
	}

	out := make([]CustomerInsight, 0, len(repeat))
	for _, c := range repeat {
		out = append(out, CustomerInsight{
			Name:        c.DisplayName,
			Email:       c.Email,
			OrdersCount: analyticsx.ParseCount(c.NumberOfOrders),
			TotalSpent:  analyticsx.FormatMoney(analyticsx.ParseAmount(c.AmountSpent)),
		})
	}
	return out, nil
}

func adminToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolRevenueSummary,
			Desc: "Revenue summary for the last N days: total revenue, order count, and average order value over paid orders.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"days": {Type: schema.Integer, Desc: "Number of past days to include (1 = today, 7 = week, 30 = month). Default 1."},
			}),
		},
		{
			Name: ToolTopProducts,
			Desc: "Best-selling products over the last N days ranked by revenue, with units sold.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"days":  {Type: schema.Integer, Desc: "Number of past days to include. Default 30."},
				"top_n": {Type: schema.Integer, Desc: "How many products to return. Default 5."},
			}),
		},
		{
			Name:        ToolUnfulfilledOrders,
			Desc:        "Open orders awaiting fulfillment: count, total value, and order summaries.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolLowInventory,
			Desc: "Product variants at or below a stock threshold, lowest first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"threshold": {Type: schema.Integer, Desc: "Inventory quantity at or below which a variant is low stock. Default 3."},
			}),
		},
		{
			Name: ToolCompareSales,
			Desc: "Compare revenue and order count between the current period and the one before it.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"current_days":  {Type: schema.Integer, Desc: "Length of the current period in days. Default 30."},
				"previous_days": {Type: schema.Integer, Desc: "Length of the previous period in days. Default 30."},
			}),
		},
		{
			Name: ToolRefundedOrders,
			Desc: "Refunded and partially refunded orders in the last N days.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"days": {Type: schema.Integer, Desc: "Number of past days to include. Default 7."},
			}),
		},
		{
			Name: ToolZeroSales,
			Desc: "Active products with zero paid sales in the last N days.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"days": {Type: schema.Integer, Desc: "Number of past days to check. Default 30."},
			}),
		},
		{
			Name: ToolRecentOrders,
			Desc: "Orders placed in the last N hours, newest activity for a quick pulse check.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"hours": {Type: schema.Integer, Desc: "How many hours back to look. Default 24."},
			}),
		},
		{
			Name: ToolCustomerInsights,
			Desc: "Repeat customers (more than one order) ranked by order count, then by total spend.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"top_n": {Type: schema.Integer, Desc: "How many customers to return. Default 10."},
			}),
		},
	}
}
