package entity

import (
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	UserUUID string `json:"userUuid" gorm:"size:36;index"`
	CartID   uint   `json:"cartId"`

	Subtotal      int64  `json:"subtotal"`
	Discount      int64  `json:"discount"`
	ShippingTotal int64  `json:"shippingTotal"`
	TaxTotal      int64  `json:"taxTotal"`
	Total         int64  `json:"total"`
	Currency      string `json:"currency" gorm:"size:3"`

	Status string `json:"status" gorm:"size:20;default:pending"`

	Items []OrderItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
