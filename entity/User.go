package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UUID        string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	Orders []Order `gorm:"foreignKey:UserUUID;references:UUID" json:"-"`
}
