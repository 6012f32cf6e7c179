package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"oskar-api/pkg/apperr"
	"oskar-api/services"
)

func TestClientFetchCurrent(t *testing.T) {
	t.Run("unwraps the {ok,data} envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/panier/current" {
				t.Errorf("path: got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true,"data":{"panier":{"userUuid":"u1","items":[]},"summary":{"itemCount":2,"subtotal":3000,"grandTotal":3000}}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), StaticToken("tok"), OwnerContext{})
		got, err := c.FetchCurrent(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Summary.ItemCount != 2 || got.Summary.Subtotal != 3000 {
			t.Errorf("summary: %+v", got.Summary)
		}
		if got.Panier.UserUUID != "u1" {
			t.Errorf("panier: %+v", got.Panier)
		}
	})

	t.Run("accepts a bare payload without envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"panier":{"userUuid":"u1"},"summary":{"itemCount":1}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), nil, OwnerContext{})
		got, err := c.FetchCurrent(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Summary.ItemCount != 1 {
			t.Errorf("summary: %+v", got.Summary)
		}
	})

	t.Run("404 maps to ErrNoCart", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"ok":false,"error":"no cart"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), nil, OwnerContext{SessionID: "s1"})
		_, err := c.FetchCurrent(context.Background())
		if !errors.Is(err, apperr.ErrNoCart) {
			t.Fatalf("expected ErrNoCart, got %v", err)
		}
	})
}

func TestClientHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization: got %q", got)
		}
		if got := r.Header.Get("X-Session-Id"); got != "sess-9" {
			t.Errorf("session header: got %q", got)
		}
		_, _ = w.Write([]byte(`{"ok":true,"data":null}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client(), StaticToken("tok"), OwnerContext{SessionID: "sess-9"})
	if err := c.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientAddItem(t *testing.T) {
	t.Run("sends the wire fields and decodes the line", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/panier/add" {
				t.Errorf("got %s %s", r.Method, r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %q", ct)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true,"data":{"articleUuid":"a1","quantite":2,"unitPrice":1500}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), nil, OwnerContext{SessionID: "s"})
		item, err := c.AddItem(context.Background(), CartItemCreateRequest{
			ArticleUUID: "a1", ArticleType: "product", Quantite: 2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ArticleUUID != "a1" || item.Quantity != 2 || item.UnitPrice != 1500 {
			t.Errorf("item: %+v", item)
		}
	})

	t.Run("400 maps to ValidationError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"error":"quantite: below article minimum"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), nil, OwnerContext{SessionID: "s"})
		_, err := c.AddItem(context.Background(), CartItemCreateRequest{ArticleUUID: "a1", ArticleType: "product", Quantite: 0})
		if !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("409 maps to StockError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"ok":false,"error":"article a1: requested 5, only 2 available"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), nil, OwnerContext{SessionID: "s"})
		_, err := c.AddItem(context.Background(), CartItemCreateRequest{ArticleUUID: "a1", ArticleType: "product", Quantite: 5})
		if !apperr.IsStock(err) {
			t.Fatalf("expected StockError, got %v", err)
		}
	})

	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error":"invalid token"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client(), StaticToken("stale"), OwnerContext{})
		_, err := c.FetchCurrent(context.Background())
		if !errors.Is(err, apperr.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestClientSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/panier/sync" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"ok":true,"data":{"panier":{"userUuid":"u1"},"conflicts":[{"article":{"type":"product","uuid":"a1"},"localQty":2,"serverQty":3,"resolution":"merge","finalQty":4}]}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client(), StaticToken("tok"), OwnerContext{})
	res, err := c.Sync(context.Background(), []services.SyncItemIn{
		{ArticleUUID: "a1", ArticleType: "product", Quantite: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(res.Conflicts))
	}
	if res.Conflicts[0].FinalQty != 4 {
		t.Errorf("conflict: %+v", res.Conflicts[0])
	}
}
