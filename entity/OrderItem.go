package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	ArticleType ArticleType `json:"articleType" gorm:"size:20"`
	ArticleUUID string      `json:"articleUuid" gorm:"size:36"`

	Qty       int   `json:"qty"`
	UnitPrice int64 `json:"unitPrice"`
	Total     int64 `json:"total"`
}
