package controllers

import (
	"errors"
	"strconv"

	"oskar-api/entity"
	"oskar-api/pkg/resp"
	"oskar-api/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ArticleController struct {
	Repo *repository.ArticleRepository
}

func NewArticleController(repo *repository.ArticleRepository) *ArticleController {
	return &ArticleController{Repo: repo}
}

// GET /articles?type=&limit=&offset=
func (h *ArticleController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	articles, err := h.Repo.List(entity.ArticleType(c.Query("type")), limit, offset)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, articles)
}

// GET /articles/:uuid
func (h *ArticleController) Detail(c *gin.Context) {
	a, err := h.Repo.GetByUUID(c.Param("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "article not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, a)
}
