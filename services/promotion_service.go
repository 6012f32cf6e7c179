package services

import (
	"log"

	"oskar-api/entity"
	"oskar-api/repository"
)

type PromotionService struct {
	Repo *repository.PromotionRepository
}

func NewPromotionService(repo *repository.PromotionRepository) *PromotionService {
	return &PromotionService{Repo: repo}
}

func (s *PromotionService) CreatePromotion(promo *entity.Promotion) error {
	err := s.Repo.Create(promo)
	if err != nil {
		log.Println("Error creating promotion:", err)
	}
	return err
}

func (s *PromotionService) GetAllPromotions() ([]entity.Promotion, error) {
	return s.Repo.GetAll()
}

func (s *PromotionService) UpdatePromotion(id uint, promo *entity.Promotion) error {
	return s.Repo.Update(id, promo)
}

func (s *PromotionService) DeletePromotion(id uint) error {
	return s.Repo.Delete(id)
}
