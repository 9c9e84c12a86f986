package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Dashboard action names understood by the ajax endpoint
const (
	ActionDuplicate = "duplicate_admin_product"
	ActionFetchList = "fetch_products_lists"
)

const maxResponseSize = 1 << 20

// ErrUnexpectedResponse is returned when the server answers with something
// other than the JSON envelope
var ErrUnexpectedResponse = errors.New("client: unexpected response")

// RemoteError is a failure reported by the server in the response envelope
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ListPage is one rendered page of duplicable products
type ListPage struct {
	ListingMarkup    string `json:"listing_markup"`
	PaginationMarkup string `json:"pagination_markup"`
	Page             int    `json:"page"`
	TotalPages       int    `json:"total_pages"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AjaxClient posts dashboard actions as url-encoded forms
type AjaxClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// AjaxOption configures an AjaxClient
type AjaxOption func(*AjaxClient)

// WithHTTPClient replaces the default instrumented client
func WithHTTPClient(c *http.Client) AjaxOption {
	return func(a *AjaxClient) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithBearerToken sends the session token on every request
func WithBearerToken(token string) AjaxOption {
	return func(a *AjaxClient) {
		a.token = token
	}
}

// NewAjaxClient creates a client for the ajax endpoint
func NewAjaxClient(endpoint string, opts ...AjaxOption) *AjaxClient {
	c := &AjaxClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Duplicate asks the server to copy productID into the caller's catalog
func (c *AjaxClient) Duplicate(ctx context.Context, nonce string, productID int64) (int64, error) {
	var out struct {
		NewProductID int64 `json:"new_product_id"`
	}
	form := url.Values{
		"action":     {ActionDuplicate},
		"nonce":      {nonce},
		"product_id": {strconv.FormatInt(productID, 10)},
	}
	if err := c.post(ctx, form, &out); err != nil {
		return 0, err
	}
	return out.NewProductID, nil
}

// FetchProducts loads one listing page
func (c *AjaxClient) FetchProducts(ctx context.Context, nonce string, page int) (*ListPage, error) {
	var out ListPage
	form := url.Values{
		"action": {ActionFetchList},
		"nonce":  {nonce},
		"page":   {strconv.Itoa(page)},
	}
	if err := c.post(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AjaxClient) post(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("client: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *AjaxClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("client: failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
	if !env.Success {
		if env.Error == nil {
			return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
		}
		return &RemoteError{Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("client: failed to decode data: %w", err)
	}
	return nil
}
