package entity

import (
	"gorm.io/gorm"
)

// Article is a catalog row: the live price and stock the cart snapshots from
// at add time. Sellers and shops are display references only.
type Article struct {
	gorm.Model
	UUID string      `json:"uuid" gorm:"size:36;uniqueIndex;not null"`
	Type ArticleType `json:"type" gorm:"size:20;index"`

	Title    string `json:"title" gorm:"not null"`
	Price    int64  `json:"price"`
	Currency string `json:"currency" gorm:"size:3;default:EUR"`

	QtyMin int `json:"quantiteMin" gorm:"default:1"`
	QtyMax int `json:"quantiteMax"` // 0 = unbounded

	Stock      int  `json:"stock"`
	LowStockAt int  `json:"lowStockAt" gorm:"default:3"`
	Sellable   bool `json:"sellable" gorm:"default:true"`

	SellerUUID string `json:"sellerUuid" gorm:"size:36"`
	SellerName string `json:"sellerName"`
	ShopUUID   string `json:"shopUuid" gorm:"size:36"`
	ShopName   string `json:"shopName"`
}

// SnapshotInto copies the live catalog figures onto a cart line.
func (a *Article) SnapshotInto(it *CartItem) {
	it.ArticleType = a.Type
	it.ArticleUUID = a.UUID
	it.QtyMin = a.QtyMin
	it.QtyMax = a.QtyMax
	it.UnitPrice = a.Price
	it.Currency = a.Currency
	it.InStock = a.Stock > 0
	it.AvailableQty = a.Stock
	it.LowStock = a.Stock > 0 && a.Stock <= a.LowStockAt
	it.SellerUUID = a.SellerUUID
	it.SellerName = a.SellerName
	it.ShopUUID = a.ShopUUID
	it.ShopName = a.ShopName
}
