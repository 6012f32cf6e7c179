package controllers

import (
	"errors"
	"strconv"

	"oskar-api/pkg/apperr"
	"oskar-api/pkg/metrics"
	"oskar-api/pkg/resp"
	"oskar-api/services"
	"oskar-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	Svc *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Svc: s}
}

// POST /orders/checkout
func (h *OrderController) Checkout(c *gin.Context) {
	uid := utils.CurrentUserUUID(c)
	if uid == "" {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	out, err := h.Svc.CheckoutFromCart(c.Request.Context(), uid)
	if err != nil {
		cartError(c, err)
		return
	}
	metrics.CheckoutTotal.Inc()
	resp.Created(c, out)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserUUID(c)
	if uid == "" {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid id")
		return
	}
	o, err := h.Svc.Detail(uint(id), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		if errors.Is(err, apperr.ErrUnauthorized) {
			resp.Forbidden(c, "not your order")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, o)
}

// GET /profile/orders
func (h *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserUUID(c)
	if uid == "" {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	orders, err := h.Svc.ListForUser(uid)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orders)
}
