package entity

import (
	"time"

	"gorm.io/gorm"
)

type Promotion struct {
	gorm.Model
	PromoCode   string     `gorm:"size:50;uniqueIndex;not null" json:"promoCode"`
	PromoDetail string     `json:"promoDetail"`
	Value       int64      `json:"value"` // amount in minor units, or percent when the type says so
	MinOrder    int64      `json:"minOrder"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`

	PromoTypeID uint      `json:"promoTypeId"`
	PromoType   PromoType `json:"-"`
}

// ActiveAt reports whether the promotion window covers t.
func (p *Promotion) ActiveAt(t time.Time) bool {
	if p.StartAt != nil && t.Before(*p.StartAt) {
		return false
	}
	if p.EndAt != nil && t.After(*p.EndAt) {
		return false
	}
	return true
}

// DiscountOn computes the cart-level discount the promotion grants on a
// subtotal, zero when the minimum order is not met.
func (p *Promotion) DiscountOn(subtotal int64) int64 {
	if subtotal < p.MinOrder {
		return 0
	}
	if p.PromoType.NameType == PromoTypePercent {
		return subtotal * p.Value / 100
	}
	return p.Value
}
