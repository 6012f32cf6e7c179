package entity

// ArticleType distinguishes the kinds of sellable entities a cart line can
// point at. Donations and exchanges ride through the same cart flow as
// products; their price is simply zero.
type ArticleType string

const (
	ArticleProduct  ArticleType = "product"
	ArticleDonation ArticleType = "donation"
	ArticleExchange ArticleType = "exchange"
	ArticleListing  ArticleType = "listing"
	ArticleService  ArticleType = "service"
)

// Valid reports whether t is one of the known article types.
func (t ArticleType) Valid() bool {
	switch t {
	case ArticleProduct, ArticleDonation, ArticleExchange, ArticleListing, ArticleService:
		return true
	}
	return false
}

// ArticleRef identifies the sold entity behind a cart line. It is a weak
// reference: the cart never owns the article.
type ArticleRef struct {
	Type ArticleType `json:"type"`
	UUID string      `json:"uuid"`
}

// Key returns the match key used when two cart lines refer to the same
// article.
func (r ArticleRef) Key() string {
	return string(r.Type) + ":" + r.UUID
}
