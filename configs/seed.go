package configs

import (
	"log"

	"oskar-api/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin account.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		UUID:      uuid.NewString(),
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      "admin",
	}
	return db.Create(&admin).Error
}

// SeedLookups inserts the reference rows the cart flow depends on.
func SeedLookups() error {
	db := DB()

	db.FirstOrCreate(&entity.PromoType{}, entity.PromoType{NameType: entity.PromoTypeAmount})
	db.FirstOrCreate(&entity.PromoType{}, entity.PromoType{NameType: entity.PromoTypePercent})

	return nil
}
