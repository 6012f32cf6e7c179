package controllers

import (
	"strconv"

	"oskar-api/entity"
	"oskar-api/pkg/resp"
	"oskar-api/services"

	"github.com/gin-gonic/gin"
)

type PromotionController struct {
	Svc *services.PromotionService
}

func NewPromotionController(s *services.PromotionService) *PromotionController {
	return &PromotionController{Svc: s}
}

// POST /admin/promotions
func (h *PromotionController) Create(c *gin.Context) {
	var promo entity.Promotion
	if err := c.ShouldBindJSON(&promo); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.CreatePromotion(&promo); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, promo)
}

// GET /admin/promotions
func (h *PromotionController) List(c *gin.Context) {
	promotions, err := h.Svc.GetAllPromotions()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, promotions)
}

// PATCH /admin/promotions/:id
func (h *PromotionController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid id")
		return
	}
	var promo entity.Promotion
	if err := c.ShouldBindJSON(&promo); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.UpdatePromotion(uint(id), &promo); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, nil)
}

// DELETE /admin/promotions/:id
func (h *PromotionController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid id")
		return
	}
	if err := h.Svc.DeletePromotion(uint(id)); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, nil)
}
