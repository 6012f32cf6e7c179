package controllers

import (
	"errors"

	"oskar-api/pkg/apperr"
	"oskar-api/pkg/metrics"
	"oskar-api/pkg/resp"
	"oskar-api/services"
	"oskar-api/utils"
	"oskar-api/ws"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	Svc *services.CartService
	Hub *ws.PanierHub
}

func NewCartController(s *services.CartService, hub *ws.PanierHub) *CartController {
	return &CartController{Svc: s, Hub: hub}
}

// ownerFrom reads the owner the middleware resolved: user uuid from the JWT,
// or the anonymous session id.
func ownerFrom(c *gin.Context) (services.Owner, bool) {
	if u := utils.CurrentUserUUID(c); u != "" {
		return services.Owner{UserUUID: u}, true
	}
	if sid := utils.CurrentSessionID(c); sid != "" {
		return services.Owner{SessionID: sid}, true
	}
	return services.Owner{}, false
}

func ownerKey(o services.Owner) string {
	if o.UserUUID != "" {
		return o.UserUUID
	}
	return o.SessionID
}

// pushSummary recomputes the summary and feeds the websocket hub. Best
// effort: a failed push never fails the request.
func (h *CartController) pushSummary(c *gin.Context, owner services.Owner) {
	if h.Hub == nil {
		return
	}
	_, sum, err := h.Svc.Get(c.Request.Context(), owner)
	if err != nil {
		sum = &services.CartSummary{}
	}
	h.Hub.Publish(ownerKey(owner), sum)
}

func cartError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var se *apperr.StockError
	switch {
	case errors.Is(err, apperr.ErrNoCart):
		resp.NotFound(c, "no cart")
	case errors.Is(err, apperr.ErrUnauthorized):
		resp.Unauthorized(c, "unauthorized")
	case errors.As(err, &ve):
		resp.BadRequest(c, ve.Error())
	case errors.As(err, &se):
		resp.Conflict(c, se.Error())
	default:
		resp.ServerError(c, err)
	}
}

// GET /panier/current
func (h *CartController) Current(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	cart, sum, err := h.Svc.Get(c.Request.Context(), owner)
	if err != nil {
		cartError(c, err)
		return
	}
	resp.OK(c, gin.H{"panier": cart, "summary": sum})
}

// POST /panier/add
func (h *CartController) Add(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := h.Svc.Add(c.Request.Context(), owner, &req)
	if err != nil {
		cartError(c, err)
		return
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	h.pushSummary(c, owner)
	resp.Created(c, item)
}

// PUT /panier/update-quantity
func (h *CartController) UpdateQuantity(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		ArticleUUID string `json:"article_uuid" binding:"required"`
		Quantite    *int   `json:"quantite" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := h.Svc.UpdateQuantity(c.Request.Context(), owner, body.ArticleUUID, *body.Quantite)
	if err != nil {
		cartError(c, err)
		return
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	h.pushSummary(c, owner)
	resp.OK(c, item)
}

// DELETE /panier/remove/:article_uuid
func (h *CartController) Remove(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	if err := h.Svc.Remove(c.Request.Context(), owner, c.Param("article_uuid")); err != nil {
		cartError(c, err)
		return
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	h.pushSummary(c, owner)
	resp.OK(c, nil)
}

// DELETE /panier/clear
func (h *CartController) Clear(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	if err := h.Svc.Clear(c.Request.Context(), owner); err != nil {
		cartError(c, err)
		return
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	h.pushSummary(c, owner)
	resp.OK(c, nil)
}

// POST /panier/sync
func (h *CartController) Sync(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok || owner.Anonymous() {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var body struct {
		PanierLocal []services.SyncItemIn `json:"panier_local"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, conflicts, err := h.Svc.Sync(c.Request.Context(), owner, body.PanierLocal)
	if err != nil {
		cartError(c, err)
		return
	}
	metrics.CartMutations.WithLabelValues("sync").Inc()
	metrics.SyncConflicts.Add(float64(len(conflicts)))
	h.pushSummary(c, owner)
	resp.OK(c, gin.H{"panier": cart, "conflicts": conflicts})
}
