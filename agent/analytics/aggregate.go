// Package analytics holds the pure aggregation and formatting helpers the
// storefront tools share. Everything here is deterministic: money arrives as
// raw API strings, is parsed tolerantly, aggregated as float64, and only
// formatted once the arithmetic is finished.
package analytics

import (
	"sort"
	"strconv"
	"strings"

	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

// ParseAmount reads a Shopify money string. Blank, "null", or malformed
// amounts count as zero so one bad record never poisons an aggregate.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return 0
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return amount
}

// ParseCount reads a numeric string such as Customer.NumberOfOrders.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func SumOrderTotals(orders []shopifyx.Order) float64 {
	var total float64
	for _, order := range orders {
		total += ParseAmount(order.TotalAmount)
	}
	return total
}

// AverageOrderValue of an empty order set is 0, never NaN.
func AverageOrderValue(orders []shopifyx.Order) float64 {
	if len(orders) == 0 {
		return 0
	}
	return SumOrderTotals(orders) / float64(len(orders))
}

type ProductSales struct {
	Title   string
	Revenue float64
	Units   int
}

// ProductSalesFromOrders accumulates revenue (quantity x unit price) and
// units sold per line-item title. First-seen order is preserved so later
// ranking stays stable across runs.
func ProductSalesFromOrders(orders []shopifyx.Order) []ProductSales {
	index := make(map[string]int)
	var stats []ProductSales

	for _, order := range orders {
		for _, item := range order.LineItems {
			title := item.Title
			if title == "" {
				title = "Unknown"
			}
			i, ok := index[title]
			if !ok {
				i = len(stats)
				index[title] = i
				stats = append(stats, ProductSales{Title: title})
			}
			stats[i].Units += item.Quantity
			stats[i].Revenue += float64(item.Quantity) * ParseAmount(item.UnitPrice)
		}
	}
	return stats
}

// TopByRevenue ranks descending by revenue, stable for ties, cut to n.
// n <= 0 means no cut.
func TopByRevenue(stats []ProductSales, n int) []ProductSales {
	ranked := make([]ProductSales, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopByUnits ranks descending by units sold, stable for ties, cut to n.
func TopByUnits(stats []ProductSales, n int) []ProductSales {
	ranked := make([]ProductSales, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Units > ranked[j].Units })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// AllSoldMessage replaces the title list when every active product sold at
// least once in the window.
const AllSoldMessage = "All products have had at least one sale in this period."

// ZeroSalesTitles returns the sorted titles of products that appear in the
// catalog but in none of the orders' line items.
func ZeroSalesTitles(products []shopifyx.Product, orders []shopifyx.Order) []string {
	sold := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.LineItems {
			sold[item.Title] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var zero []string
	for _, product := range products {
		if _, ok := sold[product.Title]; ok {
			continue
		}
		if _, dup := seen[product.Title]; dup {
			continue
		}
		seen[product.Title] = struct{}{}
		zero = append(zero, product.Title)
	}
	sort.Strings(zero)
	return zero
}

type LowStockVariant struct {
	ProductTitle      string `json:"product_title"`
	VariantTitle      string `json:"variant_title"`
	InventoryQuantity int    `json:"inventory_quantity"`
	SKU               string `json:"sku"`
}

// LowStockVariants flags variants at or below threshold, most critical
// first (ascending quantity, stable).
func LowStockVariants(products []shopifyx.Product, threshold int) []LowStockVariant {
	var low []LowStockVariant
	for _, product := range products {
		for _, variant := range product.Variants {
			if variant.InventoryQuantity > threshold {
				continue
			}
			variantTitle := variant.Title
			if variantTitle == "" {
				variantTitle = "Default"
			}
			sku := variant.SKU
			if sku == "" {
				sku = "N/A"
			}
			low = append(low, LowStockVariant{
				ProductTitle:      product.Title,
				VariantTitle:      variantTitle,
				InventoryQuantity: variant.InventoryQuantity,
				SKU:               sku,
			})
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].InventoryQuantity < low[j].InventoryQuantity })
	return low
}

// PercentChange guards the division: a non-positive base yields 0, not Inf.
func PercentChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
