package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"oskar-api/entity"
	"oskar-api/pkg/apperr"
	"oskar-api/services"
)

// Client implements CartGateway over HTTP. It never retries; timeout and
// retry policy belong to the injected http.Client.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenProvider
	Owner   OwnerContext
}

var _ CartGateway = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client, tokens TokenProvider, owner OwnerContext) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: baseURL, HTTP: httpClient, Tokens: tokens, Owner: owner}
}

func (c *Client) FetchCurrent(ctx context.Context) (*CurrentCart, error) {
	var out CurrentCart
	if err := c.do(ctx, http.MethodGet, "/panier/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddItem(ctx context.Context, req CartItemCreateRequest) (*entity.CartItem, error) {
	var out entity.CartItem
	if err := c.do(ctx, http.MethodPost, "/panier/add", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuantity(ctx context.Context, articleUUID string, quantite int) (*entity.CartItem, error) {
	body := map[string]any{"article_uuid": articleUUID, "quantite": quantite}
	var out entity.CartItem
	if err := c.do(ctx, http.MethodPut, "/panier/update-quantity", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveItem(ctx context.Context, articleUUID string) error {
	return c.do(ctx, http.MethodDelete, "/panier/remove/"+url.PathEscape(articleUUID), nil, nil)
}

func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/panier/clear", nil, nil)
}

func (c *Client) Sync(ctx context.Context, local []services.SyncItemIn) (*SyncResponse, error) {
	body := map[string]any{"panier_local": local}
	var out SyncResponse
	if err := c.do(ctx, http.MethodPost, "/panier/sync", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// envelope is the API's response wrapper. Older deployments answered the
// bare payload; decode handles both shapes once so no caller ever unwraps by
// hand.
type envelope struct {
	OK    *bool           `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		token, err := c.Tokens.Token()
		if err != nil {
			return fmt.Errorf("token provider: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if c.Owner.SessionID != "" {
		req.Header.Set("X-Session-Id", c.Owner.SessionID)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		// network errors propagate unchanged, wrapped for context
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	payload, apiErr := normalize(raw)
	if res.StatusCode >= 400 {
		return statusError(res.StatusCode, apiErr)
	}
	if out == nil || len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// normalize unwraps the {ok, data} envelope when present, otherwise returns
// the raw payload unchanged.
func normalize(raw []byte) (payload json.RawMessage, apiErr string) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && (env.OK != nil || env.Data != nil || env.Error != "") {
		return env.Data, env.Error
	}
	return raw, ""
}

// statusError maps HTTP status codes onto the cart error taxonomy.
func statusError(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return apperr.ErrNoCart
	case http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	case http.StatusConflict:
		if msg == "" {
			msg = "insufficient stock"
		}
		return &apperr.StockError{Message: msg}
	case http.StatusBadRequest:
		if msg == "" {
			msg = "invalid request"
		}
		return apperr.Validation("", msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", status, msg)
	}
}
