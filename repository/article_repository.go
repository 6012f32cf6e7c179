package repository

import (
	"oskar-api/entity"

	"gorm.io/gorm"
)

type ArticleRepository struct{ DB *gorm.DB }

func NewArticleRepository(db *gorm.DB) *ArticleRepository { return &ArticleRepository{DB: db} }

func (r *ArticleRepository) GetByUUID(uuid string) (*entity.Article, error) {
	var a entity.Article
	if err := r.DB.Where("uuid = ?", uuid).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepository) List(articleType entity.ArticleType, limit, offset int) ([]entity.Article, error) {
	q := r.DB.Model(&entity.Article{})
	if articleType != "" {
		q = q.Where("type = ?", articleType)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []entity.Article
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

// DecrementStock takes qty units off the article's stock. It reports false
// when fewer units remain, without touching the row; run it inside the
// checkout transaction so two orders cannot sell the same units.
func (r *ArticleRepository) DecrementStock(tx *gorm.DB, uuid string, qty int) (bool, error) {
	res := tx.Model(&entity.Article{}).
		Where("uuid = ? AND stock >= ?", uuid, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetManyByUUID returns the articles for the given uuids, keyed by uuid.
func (r *ArticleRepository) GetManyByUUID(uuids []string) (map[string]entity.Article, error) {
	var rows []entity.Article
	if len(uuids) == 0 {
		return map[string]entity.Article{}, nil
	}
	if err := r.DB.Where("uuid IN ?", uuids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]entity.Article, len(rows))
	for _, a := range rows {
		out[a.UUID] = a
	}
	return out, nil
}
