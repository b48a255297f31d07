package shopify

import (
	"context"
	"strings"
	"time"
)

const ordersQuery = `
query Orders($first: Int!, $cursor: String, $query: String) {
  orders(first: $first, after: $cursor, query: $query) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        name
        createdAt
        displayFinancialStatus
        displayFulfillmentStatus
        totalPriceSet { shopMoney { amount currencyCode } }
        customer { firstName lastName email }
        lineItems(first: 25) {
          edges {
            node {
              title
              quantity
              originalUnitPriceSet { shopMoney { amount } }
            }
          }
        }
      }
    }
  }
}`

const productsQuery = `
query Products($first: Int!, $cursor: String, $query: String) {
  products(first: $first, after: $cursor, query: $query) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        title
        description
        status
        tags
        totalInventory
        variants(first: 25) {
          edges {
            node { title sku price inventoryQuantity }
          }
        }
      }
    }
  }
}`

const customersQuery = `
query Customers($first: Int!, $cursor: String) {
  customers(first: $first, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        displayName
        email
        numberOfOrders
        amountSpent { amount }
      }
    }
  }
}`

// Orders fetches every order matching a Shopify search filter, e.g.
// `financial_status:paid AND created_at:>"2026-08-01T00:00:00Z"`.
// An empty filter fetches everything up to the page bound.
func (c *Client) Orders(ctx context.Context, filter string) ([]Order, error) {
	nodes, err := fetchConnection[orderNode](ctx, c, ordersQuery, "orders", filterVars(filter))
	if err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(nodes))
	for _, n := range nodes {
		orders = append(orders, n.flatten())
	}
	return orders, nil
}

// Products fetches every product matching a Shopify search filter, e.g.
// `status:active` or `tag:'Wallet'`.
func (c *Client) Products(ctx context.Context, filter string) ([]Product, error) {
	nodes, err := fetchConnection[productNode](ctx, c, productsQuery, "products", filterVars(filter))
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(nodes))
	for _, n := range nodes {
		products = append(products, n.flatten())
	}
	return products, nil
}

// Customers fetches the customer list.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	nodes, err := fetchConnection[customerNode](ctx, c, customersQuery, "customers", nil)
	if err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(nodes))
	for _, n := range nodes {
		customers = append(customers, n.flatten())
	}
	return customers, nil
}

func filterVars(filter string) map[string]any {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}
	return map[string]any{"query": filter}
}

// Wire shapes, kept private so the GraphQL nesting never leaks upward.

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type connection[T any] struct {
	PageInfo pageInfo `json:"pageInfo"`
	Edges    []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

type moneyBag struct {
	ShopMoney struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"shopMoney"`
}

type orderNode struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	CreatedAt                time.Time `json:"createdAt"`
	DisplayFinancialStatus   string    `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string    `json:"displayFulfillmentStatus"`
	TotalPriceSet            moneyBag  `json:"totalPriceSet"`
	Customer                 *struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	} `json:"customer"`
	LineItems connection[lineItemNode] `json:"lineItems"`
}

type lineItemNode struct {
	Title                string   `json:"title"`
	Quantity             int      `json:"quantity"`
	OriginalUnitPriceSet moneyBag `json:"originalUnitPriceSet"`
}

type productNode struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Status         string                  `json:"status"`
	Tags           []string                `json:"tags"`
	TotalInventory int                     `json:"totalInventory"`
	Variants       connection[variantNode] `json:"variants"`
}

type variantNode struct {
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
}

type customerNode struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email"`
	NumberOfOrders string `json:"numberOfOrders"`
	AmountSpent    struct {
		Amount string `json:"amount"`
	} `json:"amountSpent"`
}

func (n orderNode) flatten() Order {
	order := Order{
		ID:                n.ID,
		Name:              n.Name,
		CreatedAt:         n.CreatedAt,
		FinancialStatus:   n.DisplayFinancialStatus,
		FulfillmentStatus: n.DisplayFulfillmentStatus,
		TotalAmount:       n.TotalPriceSet.ShopMoney.Amount,
		Currency:          n.TotalPriceSet.ShopMoney.CurrencyCode,
	}
	if n.Customer != nil {
		order.CustomerName = strings.TrimSpace(n.Customer.FirstName + " " + n.Customer.LastName)
		order.CustomerEmail = n.Customer.Email
	}
	for _, e := range n.LineItems.Edges {
		order.LineItems = append(order.LineItems, LineItem{
			Title:     e.Node.Title,
			Quantity:  e.Node.Quantity,
			UnitPrice: e.Node.OriginalUnitPriceSet.ShopMoney.Amount,
		})
	}
	return order
}

func (n productNode) flatten() Product {
	product := Product{
		ID:             n.ID,
		Title:          n.Title,
		Description:    n.Description,
		Status:         n.Status,
		Tags:           n.Tags,
		TotalInventory: n.TotalInventory,
	}
	for _, e := range n.Variants.Edges {
		product.Variants = append(product.Variants, Variant{
			Title:             e.Node.Title,
			SKU:               e.Node.SKU,
			Price:             e.Node.Price,
			InventoryQuantity: e.Node.InventoryQuantity,
		})
	}
	return product
}

func (n customerNode) flatten() Customer {
	return Customer{
		ID:             n.ID,
		DisplayName:    n.DisplayName,
		Email:          n.Email,
		NumberOfOrders: n.NumberOfOrders,
		AmountSpent:    n.AmountSpent.Amount,
	}
}
