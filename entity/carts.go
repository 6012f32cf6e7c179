package entity

import (
	"gorm.io/gorm"
)

// Cart is the aggregate of lines a user intends to purchase. Exactly one of
// UserUUID (authenticated) or SessionID (anonymous) owns it. Shipping and tax
// are server-authoritative figures carried on the row; the aggregator sums
// them but never invents them.
//
// A user holds at most one active cart at a time; terminal rows
// (convertedToOrder, expired) stay behind as history and a fresh active cart
// is created on the next add.
type Cart struct {
	gorm.Model
	UserUUID  string `json:"userUuid" gorm:"size:36;index"`
	SessionID string `json:"sessionId,omitempty" gorm:"-"`

	Currency      string `json:"currency" gorm:"size:3"`
	ShippingTotal int64  `json:"shippingTotal"`
	TaxTotal      int64  `json:"taxTotal"`

	Status CartStatus `json:"status" gorm:"size:20;default:active"`

	Items      []CartItem      `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Promotions []CartPromotion `json:"promotions" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FindItem returns the line matching ref, or nil. Lines already removed are
// skipped.
func (c *Cart) FindItem(ref ArticleRef) *CartItem {
	for i := range c.Items {
		if c.Items[i].Status == ItemRemoved {
			continue
		}
		if c.Items[i].Ref() == ref {
			return &c.Items[i]
		}
	}
	return nil
}

// CartPromotion is a cart-level discount granted by a promo code.
type CartPromotion struct {
	gorm.Model
	CartID         uint   `json:"cartId"`
	Code           string `json:"code" gorm:"size:50"`
	DiscountAmount int64  `json:"discountAmount"`
	Description    string `json:"description"`
}
