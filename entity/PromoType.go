package entity

import (
	"gorm.io/gorm"
)

const (
	PromoTypeAmount  = "amount"
	PromoTypePercent = "percent"
)

type PromoType struct {
	gorm.Model
	NameType   string
	Promotions []Promotion
}
