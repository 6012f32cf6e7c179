// Package gateway is the client side of the cart REST contract: a narrow
// interface the pure cart logic depends on, plus an HTTP implementation.
// Business rules (stock, pricing, tax) stay server-side; this layer only
// shapes requests and normalizes responses.
package gateway

import (
	"context"

	"oskar-api/entity"
	"oskar-api/services"
)

// OwnerContext carries how the caller authenticates: a bearer token for a
// logged-in user, or a session id for an anonymous visitor.
type OwnerContext struct {
	SessionID string
}

// CartItemCreateRequest is the wire shape of an add-to-cart call.
type CartItemCreateRequest struct {
	ArticleUUID string `json:"article_uuid"`
	ArticleType string `json:"article_type"`
	Quantite    int    `json:"quantite"`
	CodePromo   string `json:"code_promo,omitempty"`
}

// CurrentCart is the fetch/sync payload: the server cart plus its summary.
type CurrentCart struct {
	Panier  *entity.Cart          `json:"panier"`
	Summary *services.CartSummary `json:"summary"`
}

// SyncResponse is the server-resolved merge outcome.
type SyncResponse struct {
	Panier    *entity.Cart              `json:"panier"`
	Conflicts []services.ConflictRecord `json:"conflicts"`
}

// CartGateway is the contract the cart core consumes. All calls are
// synchronous from the caller's point of view and honour ctx cancellation;
// no cross-call ordering is guaranteed, sequencing is the caller's job.
type CartGateway interface {
	// FetchCurrent returns the owner's cart, or apperr.ErrNoCart when none
	// exists. Callers should treat that as an empty cart.
	FetchCurrent(ctx context.Context) (*CurrentCart, error)
	AddItem(ctx context.Context, req CartItemCreateRequest) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, articleUUID string, quantite int) (*entity.CartItem, error)
	RemoveItem(ctx context.Context, articleUUID string) error
	Clear(ctx context.Context) error
	// Sync pushes the locally held items for a server-side authoritative
	// merge.
	Sync(ctx context.Context, local []services.SyncItemIn) (*SyncResponse, error)
}

// TokenProvider supplies the bearer token for outgoing requests. Injected so
// credentials never come from ambient state.
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken is the trivial TokenProvider for a known token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }
