package repository

import (
	"errors"
	"time"

	"oskar-api/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// GetCartWithItems returns the user's active cart with its lines and
// promotions preloaded, or gorm.ErrRecordNotFound when none exists yet.
// Terminal carts (converted to an order, expired) are history and never
// returned here.
func (r *CartRepository) GetCartWithItems(userUUID string) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_uuid = ? AND status = ?", userUUID, entity.CartActive).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Promotions").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateCart returns the user's active cart, creating an empty one when
// none exists, including when only terminal carts remain from earlier orders.
func (r *CartRepository) GetOrCreateCart(userUUID, currency string) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_uuid = ? AND status = ?", userUUID, entity.CartActive).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{UserUUID: userUUID, Currency: currency, Status: entity.CartActive}
		if err := r.DB.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ReplaceItems swaps the cart's full line set for items. The service computes
// the new set in memory; this only persists it.
func (r *CartRepository) ReplaceItems(tx *gorm.DB, cartID uint, items []entity.CartItem) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].CartID = cartID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// ClearCart drops every line and promotion of the user's active cart. Amounts
// on the row are reset so the next read shows an empty cart.
func (r *CartRepository) ClearCart(tx *gorm.DB, userUUID string) error {
	var c entity.Cart
	if err := tx.Where("user_uuid = ? AND status = ?", userUUID, entity.CartActive).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Where("cart_id = ?", c.ID).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("cart_id = ?", c.ID).Delete(&entity.CartPromotion{}).Error; err != nil {
		return err
	}
	return tx.Model(&entity.Cart{}).Where("id = ?", c.ID).
		Updates(map[string]any{"shipping_total": 0, "tax_total": 0}).Error
}

// AddPromotion attaches a cart-level promotion row.
func (r *CartRepository) AddPromotion(tx *gorm.DB, p *entity.CartPromotion) error {
	return tx.Create(p).Error
}

// SetTotals updates the server-authoritative shipping and tax figures.
func (r *CartRepository) SetTotals(tx *gorm.DB, cartID uint, shipping, tax int64) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).
		Updates(map[string]any{"shipping_total": shipping, "tax_total": tax}).Error
}

// SetStatus moves the cart to a new lifecycle state.
func (r *CartRepository) SetStatus(tx *gorm.DB, cartID uint, status entity.CartStatus) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).Update("status", status).Error
}

// ExpireBefore marks active carts untouched since cutoff as expired and
// returns how many were affected.
func (r *CartRepository) ExpireBefore(cutoff time.Time) (int64, error) {
	res := r.DB.Model(&entity.Cart{}).
		Where("status = ? AND updated_at < ?", entity.CartActive, cutoff).
		Update("status", entity.CartExpired)
	return res.RowsAffected, res.Error
}
