package controllers

import (
	"log"

	"oskar-api/pkg/resp"
	"oskar-api/services"
	"oskar-api/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Svc     *services.AuthService
	CartSvc *services.CartService
}

func NewAuthController(s *services.AuthService, cartSvc *services.CartService) *AuthController {
	return &AuthController{Svc: s, CartSvc: cartSvc}
}

// POST /auth/register
func (h *AuthController) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := h.Svc.Register(req.Email, req.Password, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, user)
}

// POST /auth/login
//
// When the anonymous session header rides along, the session cart is folded
// into the user's cart right after authentication.
func (h *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.Svc.Login(req.Email, req.Password)
	if err != nil {
		resp.Unauthorized(c, err.Error())
		return
	}

	if sid := c.GetHeader("X-Session-Id"); sid != "" {
		if err := h.CartSvc.MergeSession(c.Request.Context(), sid, user.UUID); err != nil {
			// login still succeeds; the local cart stays mergeable later
			log.Println("merge session cart:", err)
		}
	}

	resp.OK(c, gin.H{"token": token, "user": user})
}

// GET /auth/me
func (h *AuthController) Me(c *gin.Context) {
	uid := utils.CurrentUserUUID(c)
	if uid == "" {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	user, err := h.Svc.GetProfile(uid)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, user)
}
