// Package shopify is a thin client for the Shopify Admin GraphQL API.
// It speaks the {query, variables} envelope, follows cursor pagination,
// and surfaces upstream failures as-is: Shopify enforces its own rate
// limits, so there is no retry or backoff here.
package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	maxPageSize     = 250
	defaultMaxPages = 20
)

type Config struct {
	StoreDomain string        `split_words:"true" required:"true"`
	AccessToken string        `split_words:"true" required:"true"`
	APIVersion  string        `split_words:"true" default:"2026-01"`
	Timeout     time.Duration `split_words:"true" default:"15s"`
	PageSize    int           `split_words:"true" default:"250"`
	MaxPages    int           `split_words:"true" default:"20"`
}

type Client struct {
	endpoint string
	token    string
	pageSize int
	maxPages int
	http     *resty.Client
}

type Option func(*Client)

// WithEndpoint replaces the derived Admin API URL, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSpace(endpoint)
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	domain := strings.TrimSpace(cfg.StoreDomain)
	if domain == "" {
		return nil, errors.New("shopify store domain is required")
	}

	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errors.New("shopify access token is required")
	}

	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = "2026-01"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	client := &Client{
		endpoint: fmt.Sprintf("https://%s/admin/api/%s/graphql.json", strings.Trim(domain, "/"), version),
		token:    token,
		pageSize: pageSize,
		maxPages: maxPages,
		http:     resty.New().SetTimeout(timeout),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// Query posts one GraphQL document and decodes the data payload into out.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	var envelope graphQLResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Shopify-Access-Token", c.token).
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		SetResult(&envelope).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("shopify request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("shopify request failed: status=%d body=%s", resp.StatusCode(), snippet(resp.String()))
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			msgs = append(msgs, gqlErr.Message)
		}
		return fmt.Errorf("shopify graphql error: %s", strings.Join(msgs, "; "))
	}

	if out == nil {
		return nil
	}
	if len(envelope.Data) == 0 {
		return errors.New("shopify response carries no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode shopify response: %w", err)
	}
	return nil
}

// fetchConnection walks one connection field to exhaustion, merging every
// page's nodes. The page bound stops runaway cursors; hitting it is not an
// error because a partial catalog still answers most questions.
func fetchConnection[T any](ctx context.Context, c *Client, query, root string, base map[string]any) ([]T, error) {
	var nodes []T
	cursor := ""

	for page := 0; page < c.maxPages; page++ {
		variables := map[string]any{"first": c.pageSize}
		for k, v := range base {
			variables[k] = v
		}
		if cursor != "" {
			variables["cursor"] = cursor
		}

		var data map[string]connection[T]
		if err := c.Query(ctx, query, variables, &data); err != nil {
			return nil, err
		}

		conn, ok := data[root]
		if !ok {
			return nil, fmt.Errorf("shopify response missing %q connection", root)
		}
		for _, e := range conn.Edges {
			nodes = append(nodes, e.Node)
		}

		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == "" {
			return nodes, nil
		}
		cursor = conn.PageInfo.EndCursor
	}

	log.Warn().Str("connection", root).Int("max_pages", c.maxPages).Msg("shopify pagination stopped at page bound")
	return nodes, nil
}

func snippet(body string) string {
	const limit = 512
	if len(body) > limit {
		return body[:limit]
	}
	return body
}
