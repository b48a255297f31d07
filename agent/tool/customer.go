package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	analyticsx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/analytics"
	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

// Customer tool names. Available to both personas.
const (
	ToolSearchProducts = "search_products"
	ToolBestSellers    = "get_best_sellers"
	ToolOrderStatus    = "get_order_status"
	ToolStorePolicies  = "get_store_policies"
)

// catalogTags are the tag values the store actually uses. The model is told
// the exact spellings through the tool description.
var catalogTags = []string{
	"Wallet", "Ladies Wallet", "Card Holder", "Handbags",
	"Bags", "Travel", "Gifts", "Accessories",
}

type ProductSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	PriceRange  string           `json:"price_range"`
	InStock     bool             `json:"in_stock"`
	Variants    []VariantSummary `json:"variants,omitempty"`
}

type VariantSummary struct {
	Title             string `json:"title"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type OrderStatus struct {
	OrderNumber string   `json:"order_number"`
	PlacedAt    string   `json:"placed_at"`
	Customer    string   `json:"customer,omitempty"`
	Payment     string   `json:"payment"`
	Fulfillment string   `json:"fulfillment"`
	Total       string   `json:"total"`
	Items       []string `json:"items,omitempty"`
}

// searchProducts applies the filters in a fixed order: name, price ceiling,
// color, stock. Tag queries are fetched per tag and merged with any-match
// semantics, deduplicated by product id in first-seen order.
func (g *Gateway) searchProducts(ctx context.Context, args map[string]any) (any, error) {
	tags, err := stringSliceArg(args, "tags")
	if err != nil {
		return nil, err
	}
	maxPrice, err := floatArg(args, "max_price", 0)
	if err != nil {
		return nil, err
	}
	color, err := stringArg(args, "color", "")
	if err != nil {
		return nil, err
	}
	productName, err := stringArg(args, "product_name", "")
	if err != nil {
		return nil, err
	}
	inStockOnly, err := boolArg(args, "in_stock_only", false)
	if err != nil {
		return nil, err
	}

	var products []shopifyx.Product
	if len(tags) > 0 {
		seen := make(map[string]bool)
		for _, tag := range tags {
			tagged, err := g.source.Products(ctx, fmt.Sprintf(`tag:"%s" AND status:active`, tag))
			if err != nil {
				return nil, err
			}
			for _, p := range tagged {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
				products = append(products, p)
			}
		}
	} else {
		products, err = g.source.Products(ctx, activeProductsFilter)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, newProductSummary(p))
	}

	if name := strings.TrimSpace(productName); name != "" {
		summaries = filterByName(summaries, name)
		if len(summaries) == 0 {
			return fmt.Sprintf("No products found matching %q. Try a different name or browse by tags.", name), nil
		}
	}
	if maxPrice > 0 {
		summaries = filterByMaxPrice(summaries, maxPrice)
	}
	if want := strings.TrimSpace(color); want != "" {
		summaries = filterByColor(summaries, want)
	}
	if inStockOnly {
		inStock := make([]ProductSummary, 0, len(summaries))
		for _, p := range summaries {
			if p.InStock {
				inStock = append(inStock, p)
			}
		}
		summaries = inStock
	}
	return summaries, nil
}

func newProductSummary(p shopifyx.Product) ProductSummary {
	s := ProductSummary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
	}

	var minPrice, maxPrice float64
	for i, v := range p.Variants {
		price := analyticsx.ParseAmount(v.Price)
		if i == 0 || price < minPrice {
			minPrice = price
		}
		if i == 0 || price > maxPrice {
			maxPrice = price
		}
		if v.InventoryQuantity > 0 {
			s.InStock = true
		}
		s.Variants = append(s.Variants, VariantSummary{
			Title:             v.Title,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
		})
	}

	switch {
	case len(p.Variants) == 0:
		s.PriceRange = "N/A"
	case minPrice == maxPrice:
		s.PriceRange = analyticsx.FormatMoney(minPrice)
	default:
		s.PriceRange = analyticsx.FormatMoney(minPrice) + " - " + analyticsx.FormatMoney(maxPrice)
	}
	return s
}

func (p ProductSummary) minVariantPrice() float64 {
	var min float64
	for i, v := range p.Variants {
		price := analyticsx.ParseAmount(v.Price)
		if i == 0 || price < min {
			min = price
		}
	}
	return min
}

// filterByName keeps products whose title contains at least one query token,
// best matches first. The generic words "product"/"products" are ignored so
// "card holder product" behaves like "card holder".
func filterByName(products []ProductSummary, name string) []ProductSummary {
	tokens := nameTokens(name)
	if len(tokens) == 0 {
		return products
	}

	type scored struct {
		product ProductSummary
		hits    int
	}
	matched := make([]scored, 0, len(products))
	for _, p := range products {
		title := strings.ToLower(p.Title)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				hits++
			}
		}
		if hits > 0 {
			matched = append(matched, scored{product: p, hits: hits})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].hits > matched[j].hits })

	out := make([]ProductSummary, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.product)
	}
	return out
}

func nameTokens(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "product" || f == "products" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func filterByMaxPrice(products []ProductSummary, maxPrice float64) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		if p.minVariantPrice() <= maxPrice {
			out = append(out, p)
		}
	}
	return out
}

// filterByColor falls back to the unfiltered list when nothing matches, so
// the model can tell the customer which colors are available instead of
// reporting an empty catalog.
func filterByColor(products []ProductSummary, color string) []ProductSummary {
	want := strings.ToLower(color)
	matched := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		if productMatchesColor(p, want) {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return products
	}
	return matched
}

func productMatchesColor(p ProductSummary, want string) bool {
	if strings.Contains(strings.ToLower(p.Title), want) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), want) {
		return true
	}
	for _, v := range p.Variants {
		if strings.Contains(strings.ToLower(v.Title), want) {
			return true
		}
	}
	return false
}

func (g *Gateway) bestSellers(ctx context.Context, args map[string]any) (any, error) {
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

	ranked := analyticsx.TopByUnits(analyticsx.ProductSalesFromOrders(orders), topN)
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

func (g *Gateway) orderStatus(ctx context.Context, args map[string]any) (any, error) {
	raw, err := stringArg(args, "order_number", "")
	if err != nil {
		return nil, err
	}
	number := analyticsx.ExtractOrderNumber(raw)
	if number == "" {
		number = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	}
	if number == "" {
		return nil, fmt.Errorf("order_number is required")
	}

	// Shopify order names carry a # prefix; retry without it for stores
	// that use plain numbering.
	orders, err := g.source.Orders(ctx, fmt.Sprintf(`name:"#%s"`, number))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		orders, err = g.source.Orders(ctx, fmt.Sprintf(`name:"%s"`, number))
		if err != nil {
			return nil, err
		}
	}
	if len(orders) == 0 {
		return map[string]string{
			"error": fmt.Sprintf("No order found with number #%s. Please double-check the order number and try again.", number),
		}, nil
	}

	o := orders[0]
	status := OrderStatus{
		OrderNumber: o.Name,
		PlacedAt:    o.CreatedAt.Format("2006-01-02"),
		Customer:    o.CustomerName,
		Payment:     strings.ToLower(o.FinancialStatus),
		Fulfillment: strings.ToLower(o.FulfillmentStatus),
		Total:       analyticsx.FormatMoney(analyticsx.ParseAmount(o.TotalAmount)),
	}
	if status.Payment == "" {
		status.Payment = "unknown"
	}
	if status.Fulfillment == "" {
		status.Fulfillment = "unfulfilled"
	}
	for _, item := range o.LineItems {
		status.Items = append(status.Items, fmt.Sprintf("%dx %s", item.Quantity, item.Title))
	}
	return status, nil
}

var policyTopics = map[string]string{
	"shipping": "Orders are dispatched within 1-2 business days. Standard nationwide delivery takes " +
		"3-5 business days; remote areas can take up to 7. A tracking number is emailed as soon as the order ships.",
	"returns": "We offer a 14-day return window from the date of delivery. Items must be unused, in original " +
		"condition, and returned in original packaging. Contact support with your order number to start a return; " +
		"custom or personalized items are not eligible. Approved refunds are processed within 5-7 business days " +
		"to the original payment method.",
	"discounts": "We occasionally offer promotional discounts to newsletter subscribers and loyal customers. " +
		"No universal promo code is currently active. Subscribe to the newsletter or follow our social channels " +
		"for exclusive offers.",
	"damaged_item": "If you received a damaged item: take clear photos of the damage, then contact support with " +
		"your order number and the photos. We process a replacement or a full refund within 48 hours of " +
		"verification, with no return shipment required.",
}

func storePoliciesTool(_ context.Context, args map[string]any) (any, error) {
	topic, err := stringArg(args, "topic", "")
	if err != nil {
		return nil, err
	}
	topic = strings.ToLower(strings.TrimSpace(topic))
	if text, ok := policyTopics[topic]; ok {
		return map[string]string{topic: text}, nil
	}
	// Unknown or missing topic returns every policy so the model can pick.
	return policyTopics, nil
}

func customerToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSearchProducts,
			Desc: "Search the catalog by tags, price ceiling, color, approximate product name, and stock. " +
				"Pass every relevant tag in one call; products matching any tag are returned. " +
				"Valid tags (exact spelling): " + strings.Join(catalogTags, ", ") + ". " +
				"All prices are in Pakistani Rupees.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"tags": {
					Type:     schema.Array,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
					Desc:     "Tags to filter by, any-match. Empty returns all active products.",
				},
				"max_price":     {Type: schema.Number, Desc: "Maximum price in PKR. 0 means no price filter."},
				"color":         {Type: schema.String, Desc: "Plain color word such as black, brown, red, or tan."},
				"product_name":  {Type: schema.String, Desc: "Approximate product name; fuzzy matching is applied."},
				"in_stock_only": {Type: schema.Boolean, Desc: "Only return products with inventory available."},
			}),
		},
		{
			Name: ToolBestSellers,
			Desc: "Best-selling products over the last N days ranked by units sold.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"days":  {Type: schema.Integer, Desc: "Number of past days to include. Default 30."},
				"top_n": {Type: schema.Integer, Desc: "How many products to return. Default 5."},
			}),
		},
		{
			Name: ToolOrderStatus,
			Desc: "Look up an order's payment, fulfillment, total, and line items by order number, e.g. 45821 or #45821.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_number": {Type: schema.String, Desc: "The order number, with or without the # prefix.", Required: true},
			}),
		},
		{
			Name: ToolStorePolicies,
			Desc: "Store policy text for shipping, returns and refunds, discounts, or damaged items.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"topic": {
					Type:     schema.String,
					Desc:     "Which policy to return.",
					Enum:     []string{"shipping", "returns", "discounts", "damaged_item"},
					Required: true,
				},
			}),
		},
		{
			Name: ToolEvaluate,
			Desc: "Evaluate an arithmetic expression exactly. Use for totals, deltas, and percentages instead of mental math.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"expression": {Type: schema.String, Desc: "Expression using + - * / % ^ and parentheses, e.g. (2500+1800)*0.9", Required: true},
			}),
		},
	}
}
