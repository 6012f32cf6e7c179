package entity

import (
	"gorm.io/gorm"
)

// DiscountType is the kind of line-level discount attached to a cart item.
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
	DiscountPromoCode  DiscountType = "promoCode"
)

// CartItem is one line of a cart: an article reference plus a quantity and a
// pricing snapshot taken at add time. Prices are int64 minor units.
type CartItem struct {
	gorm.Model
	CartID uint `json:"cartId"`
	Cart   Cart `json:"-"`

	ArticleType ArticleType `json:"articleType" gorm:"size:20;index:idx_cart_article,priority:2"`
	ArticleUUID string      `json:"articleUuid" gorm:"size:36;index:idx_cart_article,priority:3"`

	Quantity int `json:"quantite"`
	QtyMin   int `json:"quantiteMin"`
	QtyMax   int `json:"quantiteMax"` // 0 = unbounded

	UnitPrice int64  `json:"unitPrice"`
	Currency  string `json:"currency" gorm:"size:3"`

	DiscountType  DiscountType `json:"discountType" gorm:"size:20"`
	DiscountValue int64        `json:"discountValue"`

	// Stock snapshot, informational only; refreshed from the catalog on read.
	InStock      bool `json:"inStock"`
	AvailableQty int  `json:"availableQty"`
	LowStock     bool `json:"lowStock"`

	SellerUUID string `json:"sellerUuid" gorm:"size:36"`
	SellerName string `json:"sellerName"`
	ShopUUID   string `json:"shopUuid" gorm:"size:36"`
	ShopName   string `json:"shopName"`

	Status CartItemStatus `json:"status" gorm:"size:20;default:active"`
}

// Ref returns the article reference of the line.
func (it *CartItem) Ref() ArticleRef {
	return ArticleRef{Type: it.ArticleType, UUID: it.ArticleUUID}
}

// Gross is quantity × unit price, before any discount.
func (it *CartItem) Gross() int64 {
	return it.UnitPrice * int64(it.Quantity)
}

// LineDiscount is the discount applied to this line, clamped to [0, Gross].
func (it *CartItem) LineDiscount() int64 {
	gross := it.Gross()
	var d int64
	switch it.DiscountType {
	case DiscountPercentage:
		d = gross * it.DiscountValue / 100
	case DiscountAmount, DiscountPromoCode:
		d = it.DiscountValue
	}
	if d < 0 {
		d = 0
	}
	if d > gross {
		d = gross
	}
	return d
}

// LineTotal is always recomputed from quantity, unit price and discount,
// never stored, so it cannot drift.
func (it *CartItem) LineTotal() int64 {
	return it.Gross() - it.LineDiscount()
}
