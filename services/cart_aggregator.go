package services

import (
	"oskar-api/entity"
	"oskar-api/pkg/apperr"
)

// CartSummary is the derived view of a cart. It is recomputed from the item
// list on every read and never mutated directly.
type CartSummary struct {
	ItemCount       int   `json:"itemCount"`
	UniqueItemCount int   `json:"uniqueItemCount"`
	Subtotal        int64 `json:"subtotal"`
	TotalDiscount   int64 `json:"totalDiscount"`
	ShippingTotal   int64 `json:"shippingTotal"`
	TaxTotal        int64 `json:"taxTotal"`
	GrandTotal      int64 `json:"grandTotal"`
}

// ComputeSummary derives a cart summary from its lines and cart-level
// promotions. Shipping and tax come from the server-held cart row and are
// carried through unchanged.
//
// Only active lines count. A line with quantity 0 is logically removed and
// excluded from every sum, but deleting it is a separate, explicit operation.
// The total discount is capped at the subtotal and the grand total floored at
// zero. Pure: same inputs, same output, no hidden state.
//
// A negative quantity or unit price is a contract violation of upstream data
// and yields a ValidationError with no partial summary.
func ComputeSummary(items []entity.CartItem, promos []entity.CartPromotion, shippingTotal, taxTotal int64) (*CartSummary, error) {
	for i := range items {
		if items[i].Quantity < 0 {
			return nil, apperr.Validation("quantite", "negative quantity")
		}
		if items[i].UnitPrice < 0 {
			return nil, apperr.Validation("unitPrice", "negative unit price")
		}
	}

	s := &CartSummary{ShippingTotal: shippingTotal, TaxTotal: taxTotal}
	for i := range items {
		it := &items[i]
		if it.Status != entity.ItemActive || it.Quantity == 0 {
			continue
		}
		s.ItemCount += it.Quantity
		s.UniqueItemCount++
		s.Subtotal += it.Gross()
		s.TotalDiscount += it.LineDiscount()
	}
	for i := range promos {
		s.TotalDiscount += promos[i].DiscountAmount
	}
	if s.TotalDiscount > s.Subtotal {
		s.TotalDiscount = s.Subtotal
	}
	s.GrandTotal = s.Subtotal - s.TotalDiscount + s.ShippingTotal + s.TaxTotal
	if s.GrandTotal < 0 {
		s.GrandTotal = 0
	}
	return s, nil
}
