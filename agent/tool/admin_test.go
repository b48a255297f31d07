package tool

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	analyticsx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/analytics"
	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

func paidOrder(name, total string, items ...shopifyx.LineItem) shopifyx.Order {
	return shopifyx.Order{
		ID:              "gid://shopify/Order/" + name,
		Name:            name,
		CreatedAt:       testNow.Add(-2 * time.Hour),
		FinancialStatus: "PAID",
		TotalAmount:     total,
		CustomerName:    "Ayesha Khan",
		LineItems:       items,
	}
}

func item(title string, qty int, unitPrice string) shopifyx.LineItem {
	return shopifyx.LineItem{Title: title, Quantity: qty, UnitPrice: unitPrice}
}

func TestRevenueSummaryEmptyWindow(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	g := newTestGateway(source)

	out, err := g.revenueSummary(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary := out.(RevenueSummary)
	if summary.PeriodDays != 1 {
		t.Fatalf("default period must be 1 day, got %d", summary.PeriodDays)
	}
	if summary.TotalOrders != 0 {
		t.Fatalf("expected no orders, got %d", summary.TotalOrders)
	}
	if summary.TotalRevenue != "Rs. 0.00" {
		t.Fatalf("unexpected revenue: %s", summary.TotalRevenue)
	}
	if summary.AverageOrderValue != "Rs. 0.00" {
		t.Fatalf("average of zero orders must be Rs. 0.00, got %s", summary.AverageOrderValue)
	}
	if summary.StartDate != "2026-08-24" || summary.EndDate != "2026-08-25" {
		t.Fatalf("unexpected window: %s .. %s", summary.StartDate, summary.EndDate)
	}

	want := `financial_status:paid AND created_at:>"2026-08-24T12:00:00Z" AND created_at:<"2026-08-25T12:00:00Z"`
	if len(source.orderFilters) != 1 || source.orderFilters[0] != want {
		t.Fatalf("unexpected filter: %v", source.orderFilters)
	}
}

func TestRevenueSummaryAggregates(t *testing.T) {
	t.Parallel()

	source := &fakeSource{orders: []shopifyx.Order{
		paidOrder("#1001", "2500.00"),
		paidOrder("#1002", "1800.00"),
	}}
	g := newTestGateway(source)

	out, err := g.revenueSummary(context.Background(), map[string]any{"days": float64(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary := out.(RevenueSummary)
	if summary.PeriodDays != 7 {
		t.Fatalf("unexpected period: %d", summary.PeriodDays)
	}
	if summary.TotalRevenue != "Rs. 4,300.00" {
		t.Fatalf("unexpected revenue: %s", summary.TotalRevenue)
	}
	if summary.TotalOrders != 2 {
		t.Fatalf("unexpected order count: %d", summary.TotalOrders)
	}
	if summary.AverageOrderValue != "Rs. 2,150.00" {
		t.Fatalf("unexpected average: %s", summary.AverageOrderValue)
	}
}

func TestTopProductsRanksByRevenue(t *testing.T) {
	t.Parallel()

	source := &fakeSource{orders: []shopifyx.Order{
		paidOrder("#1001", "1500.00", item("Leather Wallet", 1, "1000.00"), item("Card Holder", 1, "500.00")),
		paidOrder("#1002", "1000.00", item("Leather Wallet", 1, "1000.00")),
	}}
	g := newTestGateway(source)

	out, err := g.topProducts(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ranked := out.([]RankedProduct)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 products, got %d", len(ranked))
	}
	if ranked[0].ProductTitle != "Leather Wallet" || ranked[0].TotalRevenue != "Rs. 2,000.00" || ranked[0].TotalUnitsSold != 2 {
		t.Fatalf("unexpected leader: %+v", ranked[0])
	}
	if ranked[1].ProductTitle != "Card Holder" || ranked[1].TotalRevenue != "Rs. 500.00" {
		t.Fatalf("unexpected runner-up: %+v", ranked[1])
	}

	want := `financial_status:paid AND created_at:>"2026-07-26T12:00:00Z"`
	if source.orderFilters[0] != want {
		t.Fatalf("unexpected filter: %s", source.orderFilters[0])
	}
}

func TestTopProductsHonorsTopN(t *testing.T) {
	t.Parallel()

	source := &fakeSource{orders: []shopifyx.Order{
		paidOrder("#1001", "1500.00", item("Leather Wallet", 1, "1000.00"), item("Card Holder", 1, "500.00")),
	}}
	g := newTestGateway(source)

	out, err := g.topProducts(context.Background(), map[string]any{"top_n": float64(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ranked := out.([]RankedProduct)
	if len(ranked) != 1 || ranked[0].ProductTitle != "Leather Wallet" {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}
}

func TestUnfulfilledOrdersEmptyShape(t *testing.T) {
	t.Parallel()

	g := newTestGateway(&fakeSource{})
	out, err := g.unfulfilledOrders(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"count":0,"total_value":"Rs. 0.00","orders":[]}`
	if string(raw) != want {
		t.Fatalf("unexpected empty report:\n got %s\nwant %s", raw, want)
	}
}

func TestUnfulfilledOrdersCapsSummaries(t *testing.T) {
	t.Parallel()

	orders := make([]shopifyx.Order, 0, 25)
	for i := 0; i < 25; i++ {
		orders = append(orders, paidOrder("#2000", "100.00"))
	}
	source := &fakeSource{orders: orders}
	g := newTestGateway(source)

	out, err := g.unfulfilledOrders(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := out.(UnfulfilledReport)
	if report.Count != 25 {
		t.Fatalf("count must cover all orders, got %d", report.Count)
	}
	if len(report.Orders) != maxOrderSummaries {
		t.Fatalf("summaries must cap at %d, got %d", maxOrderSummaries, len(report.Orders))
	}
	if report.TotalValue != "Rs. 2,500.00" {
		t.Fatalf("total must cover all orders, got %s", report.TotalValue)
	}
	if source.orderFilters[0] != unfulfilledFilter {
		t.Fatalf("unexpected filter: %s", source.orderFilters[0])
	}
}

func TestLowInventorySortsAscending(t *testing.T) {
	t.Parallel()

	source := &fakeSource{products: []shopifyx.Product{
		{Title: "Leather Wallet", Variants: []shopifyx.Variant{
			{Title: "Black", SKU: "LW-BLK", Price: "2500.00", InventoryQuantity: 2},
			{Title: "Brown", SKU: "LW-BRN", Price: "2500.00", InventoryQuantity: 5},
		}},
		{Title: "Card Holder", Variants: []shopifyx.Variant{
			{Title: "Default", SKU: "CH-01", Price: "1200.00", InventoryQuantity: 0},
			{Title: "Tan", SKU: "CH-TAN", Price: "1200.00", InventoryQuantity: 3},
		}},
	}}
	g := newTestGateway(source)

	out, err := g.lowInventory(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	low := out.([]analyticsx.LowStockVariant)
	if len(low) != 3 {
		t.Fatalf("expected 3 low variants, got %d", len(low))
	}
	quantities := []int{low[0].InventoryQuantity, low[1].InventoryQuantity, low[2].InventoryQuantity}
	if quantities[0] != 0 || quantities[1] != 2 || quantities[2] != 3 {
		t.Fatalf("expected ascending quantities, got %v", quantities)
	}
	if source.productFilters[0] != activeProductsFilter {
		t.Fatalf("unexpected filter: %s", source.productFilters[0])
	}
}

func TestLowInventoryEmptyIsNotNil(t *testing.T) {
	t.Parallel()

	g := newTestGateway(&fakeSource{})
	out, err := g.lowInventory(context.Background(), map[string]any{"threshold": float64(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("empty report must marshal as [], got %s", raw)
	}
}

func TestCompareSalesPeriods(t *testing.T) {
	t.Parallel()

	currentFilter := `financial_status:paid AND created_at:>"2026-07-26T12:00:00Z" AND created_at:<"2026-08-25T12:00:00Z"`
	previousFilter := `financial_status:paid AND created_at:>"2026-06-26T12:00:00Z" AND created_at:<"2026-07-26T12:00:00Z"`
	source := &fakeSource{ordersByFilter: map[string][]shopifyx.Order{
		currentFilter: {
			paidOrder("#1001", "3000.00"),
			paidOrder("#1002", "2000.00"),
		},
		previousFilter: {
			paidOrder("#0901", "2500.00"),
		},
	}}
	g := newTestGateway(source)

	out, err := g.compareSales(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmp := out.(SalesComparison)
	if cmp.CurrentPeriod.Revenue != "Rs. 5,000.00" || cmp.CurrentPeriod.OrderCount != 2 {
		t.Fatalf("unexpected current period: %+v", cmp.CurrentPeriod)
	}
	if cmp.PreviousPeriod.Revenue != "Rs. 2,500.00" || cmp.PreviousPeriod.OrderCount != 1 {
		t.Fatalf("unexpected previous period: %+v", cmp.PreviousPeriod)
	}
	if cmp.Changes.RevenueChange != "Rs. 2,500.00" {
		t.Fatalf("unexpected revenue change: %s", cmp.Changes.RevenueChange)
	}
	if cmp.Changes.RevenueChangePct != "+100.0%" {
		t.Fatalf("unexpected revenue change pct: %s", cmp.Changes.RevenueChangePct)
	}
	if cmp.Changes.OrderChange != 1 || cmp.Changes.OrderChangePct != "+100.0%" {
		t.Fatalf("unexpected order changes: %+v", cmp.Changes)
	}
}

func TestCompareSalesPeriodsGuardsEmptyBase(t *testing.T) {
	t.Parallel()

	currentFilter := `financial_status:paid AND created_at:>"2026-07-26T12:00:00Z" AND created_at:<"2026-08-25T12:00:00Z"`
	source := &fakeSource{ordersByFilter: map[string][]shopifyx.Order{
		currentFilter: {paidOrder("#1001", "3000.00")},
	}}
	g := newTestGateway(source)

	out, err := g.compareSales(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmp := out.(SalesComparison)
	if cmp.Changes.RevenueChangePct != "+0.0%" {
		t.Fatalf("empty base period must yield +0.0%%, got %s", cmp.Changes.RevenueChangePct)
	}
	if cmp.Changes.OrderChangePct != "+0.0%" {
		t.Fatalf("empty base period must yield +0.0%%, got %s", cmp.Changes.OrderChangePct)
	}
}

func TestRefundedOrdersConcatenates(t *testing.T) {
	t.Parallel()

	refunded := paidOrder("#1001", "2500.00")
	refunded.FinancialStatus = "REFUNDED"
	partial := paidOrder("#1002", "1800.00")
	partial.FinancialStatus = "PARTIALLY_REFUNDED"

	source := &fakeSource{ordersByFilter: map[string][]shopifyx.Order{
		`financial_status:refunded AND created_at:>"2026-08-18T12:00:00Z"`:           {refunded},
		`financial_status:partially_refunded AND created_at:>"2026-08-18T12:00:00Z"`: {partial},
	}}
	g := newTestGateway(source)

	out, err := g.refundedOrders(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summaries := out.([]string)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0] != analyticsx.SummarizeOrder(refunded) {
		t.Fatalf("unexpected first summary: %s", summaries[0])
	}
	if summaries[1] != analyticsx.SummarizeOrder(partial) {
		t.Fatalf("unexpected second summary: %s", summaries[1])
	}
}

func TestZeroSalesProducts(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		products: []shopifyx.Product{
			{Title: "Travel Duffel"},
			{Title: "Card Holder"},
			{Title: "Leather Wallet"},
		},
		orders: []shopifyx.Order{
			paidOrder("#1001", "1200.00", item("Card Holder", 1, "1200.00")),
		},
	}
	g := newTestGateway(source)

	out, err := g.zeroSales(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	titles := out.([]string)
	if len(titles) != 2 || titles[0] != "Leather Wallet" || titles[1] != "Travel Duffel" {
		t.Fatalf("unexpected zero-sales titles: %v", titles)
	}
}

func TestZeroSalesAllSold(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		products: []shopifyx.Product{{Title: "Card Holder"}},
		orders: []shopifyx.Order{
			paidOrder("#1001", "1200.00", item("Card Holder", 1, "1200.00")),
		},
	}
	g := newTestGateway(source)

	out, err := g.zeroSales(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	titles := out.([]string)
	if len(titles) != 1 || titles[0] != analyticsx.AllSoldMessage {
		t.Fatalf("expected the all-sold message, got %v", titles)
	}
}

func TestRecentOrdersWindow(t *testing.T) {
	t.Parallel()

	source := &fakeSource{orders: []shopifyx.Order{paidOrder("#1001", "2500.00")}}
	g := newTestGateway(source)

	out, err := g.recentOrders(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summaries := out.([]string)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	want := `created_at:>"2026-08-24T12:00:00Z"`
	if source.orderFilters[0] != want {
		t.Fatalf("unexpected filter: %s", source.orderFilters[0])
	}
}

func TestCustomerInsightsRanksRepeatCustomers(t *testing.T) {
	t.Parallel()

	source := &fakeSource{customers: []shopifyx.Customer{
		{DisplayName: "Alice Raza", Email: "alice@example.com", NumberOfOrders: "5", AmountSpent: "10000.00"},
		{DisplayName: "Bilal Ahmed", Email: "bilal@example.com", NumberOfOrders: "5", AmountSpent: "12000.00"},
		{DisplayName: "Carol Khan", Email: "carol@example.com", NumberOfOrders: "2", AmountSpent: "3000.00"},
		{DisplayName: "Danish Iqbal", Email: "danish@example.com", NumberOfOrders: "1", AmountSpent: "9000.00"},
	}}
	g := newTestGateway(source)

	out, err := g.customerInsights(context.Background(), map[string]any{"top_n": float64(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	insights := out.([]CustomerInsight)
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(insights))
	}
	if insights[0].Name != "Bilal Ahmed" || insights[0].TotalSpent != "Rs. 12,000.00" {
		t.Fatalf("unexpected leader: %+v", insights[0])
	}
	if insights[1].Name != "Alice Raza" || insights[1].OrdersCount != 5 {
		t.Fatalf("unexpected runner-up: %+v", insights[1])
	}
}
