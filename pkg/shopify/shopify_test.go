package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		StoreDomain: "demo.myshopify.com",
		AccessToken: "shpat_test",
		APIVersion:  "2026-01",
		PageSize:    250,
		MaxPages:    20,
	}
}

func ordersPage(hasNext bool, cursor string, names ...string) []byte {
	edges := make([]map[string]any, 0, len(names))
	for _, name := range names {
		edges = append(edges, map[string]any{"node": map[string]any{
			"id":                       "gid://shopify/Order/" + name,
			"name":                     name,
			"createdAt":                "2026-08-20T10:00:00Z",
			"displayFinancialStatus":   "PAID",
			"displayFulfillmentStatus": "UNFULFILLED",
			"totalPriceSet":            map[string]any{"shopMoney": map[string]any{"amount": "2500.00", "currencyCode": "PKR"}},
			"customer":                 map[string]any{"firstName": "Ayesha", "lastName": "Khan", "email": "a@example.com"},
			"lineItems": map[string]any{
				"edges": []map[string]any{
					{"node": map[string]any{
						"title":                "Classic Wallet",
						"quantity":             2,
						"originalUnitPriceSet": map[string]any{"shopMoney": map[string]any{"amount": "1250.00"}},
					}},
				},
			},
		}})
	}
	payload := map[string]any{"data": map[string]any{"orders": map[string]any{
		"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": cursor},
		"edges":    edges,
	}}}
	raw, _ := json.Marshal(payload)
	return raw
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{AccessToken: "tok"}); err == nil {
		t.Fatal("NewClient() with empty domain should fail")
	}
	if _, err := NewClient(Config{StoreDomain: "demo.myshopify.com"}); err == nil {
		t.Fatal("NewClient() with empty token should fail")
	}
}

func TestClientOrdersPaginates(t *testing.T) {
	t.Parallel()

	var requests []graphQLRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			t.Errorf("access token header = %q", got)
		}
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		requests = append(requests, req)
		if len(requests) == 1 {
			w.Write(ordersPage(true, "cursor-1", "#1001"))
			return
		}
		w.Write(ordersPage(false, "", "#1002"))
	}))
	t.Cleanup(server.Close)

	client := MustNew(testConfig(), WithEndpoint(server.URL))

	orders, err := client.Orders(context.Background(), `financial_status:paid`)
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Orders() returned %d orders, want 2", len(orders))
	}
	if orders[0].Name != "#1001" || orders[1].Name != "#1002" {
		t.Fatalf("order names = %q, %q", orders[0].Name, orders[1].Name)
	}
	if orders[0].CustomerName != "Ayesha Khan" {
		t.Fatalf("customer name = %q", orders[0].CustomerName)
	}
	if len(orders[0].LineItems) != 1 || orders[0].LineItems[0].Quantity != 2 {
		t.Fatalf("line items = %#v", orders[0].LineItems)
	}

	if len(requests) != 2 {
		t.Fatalf("made %d requests, want 2", len(requests))
	}
	if got := requests[0].Variables["query"]; got != "financial_status:paid" {
		t.Fatalf("first request query = %v", got)
	}
	if first, ok := requests[0].Variables["first"].(float64); !ok || int(first) != 250 {
		t.Fatalf("first request page size = %v", requests[0].Variables["first"])
	}
	if _, present := requests[0].Variables["cursor"]; present {
		t.Fatalf("first request should not carry a cursor: %v", requests[0].Variables)
	}
	if got := requests[1].Variables["cursor"]; got != "cursor-1" {
		t.Fatalf("second request cursor = %v", got)
	}
}

func TestClientOrdersStopsAtPageBound(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		calls++
		w.Write(ordersPage(true, "again", "#1001"))
	}))
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.MaxPages = 3
	client := MustNew(cfg, WithEndpoint(server.URL))

	orders, err := client.Orders(context.Background(), "")
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("made %d requests, want 3", calls)
	}
	if len(orders) != 3 {
		t.Fatalf("Orders() returned %d orders, want 3", len(orders))
	}
}

func TestClientQuerySurfacesGraphQLErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		w.Write([]byte(`{"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	}))
	t.Cleanup(server.Close)

	client := MustNew(testConfig(), WithEndpoint(server.URL))

	_, err := client.Orders(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("Orders() error = %v, want graphql error", err)
	}
}

func TestClientQuerySurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := MustNew(testConfig(), WithEndpoint(server.URL))

	_, err := client.Orders(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("Orders() error = %v, want status error", err)
	}
}

func TestClientProductsFlattensVariants(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		w.Write([]byte(`{"data":{"products":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"edges":[{"node":{
				"id":"gid://shopify/Product/1",
				"title":"Classic Wallet",
				"status":"ACTIVE",
				"tags":["Wallet","Gifts"],
				"totalInventory":7,
				"variants":{"edges":[
					{"node":{"title":"Black","sku":"CW-BLK","price":"2500.00","inventoryQuantity":4}},
					{"node":{"title":"Brown","sku":"CW-BRN","price":"2500.00","inventoryQuantity":3}}
				]}
			}}]
		}}}`))
	}))
	t.Cleanup(server.Close)

	client := MustNew(testConfig(), WithEndpoint(server.URL))

	products, err := client.Products(context.Background(), "status:active")
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Products() returned %d products, want 1", len(products))
	}
	p := products[0]
	if p.Title != "Classic Wallet" || p.TotalInventory != 7 {
		t.Fatalf("product = %#v", p)
	}
	if len(p.Variants) != 2 || p.Variants[1].SKU != "CW-BRN" {
		t.Fatalf("variants = %#v", p.Variants)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "Wallet" {
		t.Fatalf("tags = %#v", p.Tags)
	}
}

func TestClientCustomersParsesWireShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		w.Write([]byte(`{"data":{"customers":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"edges":[{"node":{
				"id":"gid://shopify/Customer/9",
				"displayName":"Sara Malik",
				"email":"sara@example.com",
				"numberOfOrders":"4",
				"amountSpent":{"amount":"18200.00"}
			}}]
		}}}`))
	}))
	t.Cleanup(server.Close)

	client := MustNew(testConfig(), WithEndpoint(server.URL))

	customers, err := client.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers() error = %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("Customers() returned %d customers, want 1", len(customers))
	}
	c := customers[0]
	if c.DisplayName != "Sara Malik" || c.NumberOfOrders != "4" || c.AmountSpent != "18200.00" {
		t.Fatalf("customer = %#v", c)
	}
}
