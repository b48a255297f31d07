package shopify

import "time"

// Flattened node shapes. Money amounts stay raw strings exactly as the API
// returns them; parsing them tolerantly is the caller's concern.

type Order struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	CreatedAt         time.Time  `json:"created_at"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	TotalAmount       string     `json:"total_amount"`
	Currency          string     `json:"currency,omitempty"`
	CustomerName      string     `json:"customer_name,omitempty"`
	CustomerEmail     string     `json:"customer_email,omitempty"`
	LineItems         []LineItem `json:"line_items,omitempty"`
}

type LineItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type Product struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Tags           []string  `json:"tags,omitempty"`
	TotalInventory int       `json:"total_inventory"`
	Variants       []Variant `json:"variants,omitempty"`
}

type Variant struct {
	Title             string `json:"title"`
	SKU               string `json:"sku,omitempty"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// Customer.NumberOfOrders is a string on the wire (UnsignedInt64 scalar).
type Customer struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email,omitempty"`
	NumberOfOrders string `json:"number_of_orders"`
	AmountSpent    string `json:"amount_spent"`
}
