package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	shopifyx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/shopify"
)

// FormatMoney renders an amount as the storefront currency string,
// e.g. 12500 -> "Rs. 12,500.00".
func FormatMoney(amount float64) string {
	return "Rs. " + groupThousands(strconv.FormatFloat(amount, 'f', 2, 64))
}

// FormatPercent renders a signed percentage with one decimal, e.g. "+12.5%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + "." + frac
}

// SummarizeOrder is the one-line order view handed to the model.
func SummarizeOrder(order shopifyx.Order) string {
	name := order.Name
	if name == "" {
		name = "#?"
	}
	date := ""
	if !order.CreatedAt.IsZero() {
		date = order.CreatedAt.UTC().Format("2006-01-02")
	}
	customer := order.CustomerName
	if customer == "" {
		customer = "Guest"
	}
	fulfillment := strings.ToLower(order.FulfillmentStatus)
	if fulfillment == "" {
		fulfillment = "unfulfilled"
	}
	payment := strings.ToLower(order.FinancialStatus)
	if payment == "" {
		payment = "unknown"
	}
	return fmt.Sprintf("Order %s | %s | %s | %s | Fulfillment: %s | Payment: %s",
		name, date, customer, FormatMoney(ParseAmount(order.TotalAmount)), fulfillment, payment)
}

// SummarizeProduct is the one-line product view handed to the model. The
// price shown is the cheapest variant.
func SummarizeProduct(product shopifyx.Product) string {
	price := "N/A"
	hasPrice := false
	minPrice := 0.0
	for _, variant := range product.Variants {
		p := ParseAmount(variant.Price)
		if !hasPrice || p < minPrice {
			minPrice, hasPrice = p, true
		}
	}
	if hasPrice {
		price = FormatMoney(minPrice)
	}
	return fmt.Sprintf("%s | From %s | Status: %s | Tags: %s",
		product.Title, price, strings.ToLower(product.Status), strings.Join(product.Tags, ", "))
}

var orderNumberPattern = regexp.MustCompile(`#?(\d{4,})`)

// ExtractOrderNumber pulls a numeric order id out of text like "#45821" or
// "order 45821". Empty string when nothing matches.
func ExtractOrderNumber(text string) string {
	m := orderNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
