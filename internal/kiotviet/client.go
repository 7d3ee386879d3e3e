// Package kiotviet is a client for the KiotViet public retail API, plus the
// fetcher that turns its raw invoices into normalized domain records.
package kiotviet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/danghoang/kvboard/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Default endpoints for the public API.
const (
	DefaultBaseURL  = "https://public.kiotapi.com"
	DefaultTokenURL = "https://id.kiotviet.vn/connect/token"

	defaultTimeout  = 30 * time.Second
	defaultPageSize = 100
)

// Config holds the credentials and endpoints for the upstream API.
type Config struct {
	ClientID     string
	ClientSecret string
	Retailer     string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: kiotviet client credentials", common.ErrMissingConfig)
	}
	if c.Retailer == "" {
		return fmt.Errorf("%w: kiotviet retailer name", common.ErrMissingConfig)
	}
	return nil
}

// Client calls the KiotViet public API. Bearer tokens are obtained through
// the OAuth2 client-credentials flow and refreshed transparently; every
// request additionally carries the Retailer header the API requires.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	retailer   string
}

// NewClient creates an authenticated API client.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{"PublicApi"},
	}

	httpClient := creds.Client(ctx)
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		retailer:   cfg.Retailer,
	}, nil
}

// ListInvoices fetches one page of invoices for a purchase-date window.
func (c *Client) ListInvoices(ctx context.Context, q InvoiceQuery) (*InvoicePage, error) {
	params := url.Values{}
	params.Set("fromPurchaseDate", q.From.Format("2006-01-02"))
	params.Set("toPurchaseDate", q.To.Format("2006-01-02"))
	for _, status := range q.Statuses {
		params.Add("status", strconv.Itoa(status))
	}
	setPaging(params, q.PageSize, q.CurrentItem)
	if q.OrderBy != "" {
		params.Set("orderBy", q.OrderBy)
		params.Set("orderDirection", q.OrderDirection)
	}

	var page InvoicePage
	if err := c.get(ctx, "/invoices", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListCustomers fetches one page of customers.
func (c *Client) ListCustomers(ctx context.Context, q PageQuery) (*CustomerPage, error) {
	params := url.Values{}
	setPaging(params, q.PageSize, q.CurrentItem)

	var page CustomerPage
	if err := c.get(ctx, "/customers", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListProducts fetches one page of goods/services.
func (c *Client) ListProducts(ctx context.Context, q PageQuery) (*ProductPage, error) {
	params := url.Values{}
	setPaging(params, q.PageSize, q.CurrentItem)

	var page ProductPage
	if err := c.get(ctx, "/products", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func setPaging(params url.Values, pageSize, currentItem int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("currentItem", strconv.Itoa(currentItem))
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	req.Header.Set("Retailer", c.retailer)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("upstream request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The oauth2 transport surfaces token-endpoint failures here.
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: %v", common.ErrUpstreamToken, err)
		}
		return fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", common.ErrUpstream, path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", common.ErrUpstream, path, err)
	}

	return nil
}
