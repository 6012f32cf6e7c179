package services

import (
	"context"
	"errors"
	"log"
	"time"

	"oskar-api/entity"
	"oskar-api/pkg/apperr"
	"oskar-api/repository"

	"gorm.io/gorm"
)

// Owner identifies who holds a cart: an authenticated user (UserUUID) or an
// anonymous session (SessionID). Exactly one side is set.
type Owner struct {
	UserUUID  string
	SessionID string
}

func (o Owner) Anonymous() bool { return o.UserUUID == "" }

// PricingPolicy holds the server-side shipping and tax figures. The
// aggregator never invents these; the service computes them here and stores
// them on the cart row.
type PricingPolicy struct {
	ShippingFlat int64 // flat shipping in minor units, charged on non-empty carts
	TaxRateBP    int64 // tax rate in basis points of the discounted subtotal
}

type CartService struct {
	DB          *gorm.DB
	CartRepo    *repository.CartRepository
	ArticleRepo *repository.ArticleRepository
	PromoRepo   *repository.PromotionRepository
	Sessions    *repository.SessionCartStore

	Strategy MergeStrategy
	Pricing  PricingPolicy
}

func NewCartService(
	db *gorm.DB,
	cr *repository.CartRepository,
	ar *repository.ArticleRepository,
	pr *repository.PromotionRepository,
	sessions *repository.SessionCartStore,
	strategy MergeStrategy,
	pricing PricingPolicy,
) *CartService {
	if !strategy.Valid() {
		strategy = StrategyMerge
	}
	return &CartService{
		DB: db, CartRepo: cr, ArticleRepo: ar, PromoRepo: pr,
		Sessions: sessions, Strategy: strategy, Pricing: pricing,
	}
}

// ----- DTOs from Controller -----

type AddToCartIn struct {
	ArticleUUID string `json:"article_uuid" binding:"required"`
	ArticleType string `json:"article_type" binding:"required"`
	Quantite    int    `json:"quantite" binding:"min=1"`
	CodePromo   string `json:"code_promo"`
}

// SyncItemIn is one line of the locally held cart sent by the front on login.
// Only the reference and quantity are trusted; pricing comes from the catalog.
type SyncItemIn struct {
	ArticleUUID string `json:"article_uuid" binding:"required"`
	ArticleType string `json:"article_type" binding:"required"`
	Quantite    int    `json:"quantite" binding:"min=1"`
}

// Get returns the owner's cart with stock snapshots refreshed and the summary
// recomputed. apperr.ErrNoCart when none exists.
func (s *CartService) Get(ctx context.Context, owner Owner) (*entity.Cart, *CartSummary, error) {
	c, err := s.loadCart(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if err := s.refreshSnapshots(c); err != nil {
		return nil, nil, err
	}
	sum, err := ComputeSummary(c.Items, c.Promotions, c.ShippingTotal, c.TaxTotal)
	if err != nil {
		return nil, nil, err
	}
	return c, sum, nil
}

// Add puts an article in the owner's cart, creating the cart on first use.
// An existing line for the same article absorbs the quantity, clamped to the
// article's maximum.
func (s *CartService) Add(ctx context.Context, owner Owner, in *AddToCartIn) (*entity.CartItem, error) {
	t := entity.ArticleType(in.ArticleType)
	if !t.Valid() {
		return nil, apperr.Validation("article_type", "unknown article type")
	}
	if in.Quantite < 1 {
		return nil, apperr.Validation("quantite", "must be at least 1")
	}

	a, err := s.ArticleRepo.GetByUUID(in.ArticleUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("article_uuid", "unknown article")
		}
		return nil, err
	}
	if a.Type != t {
		return nil, apperr.Validation("article_type", "type does not match article")
	}
	if !a.Sellable {
		return nil, apperr.Validation("article_uuid", "article is not sellable")
	}

	c, err := s.loadOrCreateCart(ctx, owner, a.Currency)
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return nil, apperr.Validation("panier", "cart is "+string(c.Status))
	}

	ref := entity.ArticleRef{Type: t, UUID: in.ArticleUUID}
	line := c.FindItem(ref)
	if line == nil {
		c.Items = append(c.Items, entity.CartItem{Status: entity.ItemActive, Quantity: 0})
		line = &c.Items[len(c.Items)-1]
	}
	newQty := line.Quantity + in.Quantite
	if a.QtyMax > 0 && newQty > a.QtyMax {
		newQty = a.QtyMax
	}
	if newQty < a.QtyMin {
		return nil, apperr.Validation("quantite", "below article minimum")
	}
	if newQty > a.Stock {
		return nil, &apperr.StockError{ArticleUUID: a.UUID, Requested: newQty, Available: a.Stock}
	}
	a.SnapshotInto(line)
	line.Quantity = newQty
	// re-adding an inactive line brings it back into the summary
	line.Status = entity.ItemActive

	if in.CodePromo != "" {
		if err := s.applyPromo(c, in.CodePromo); err != nil {
			return nil, err
		}
	}

	if err := s.saveCart(ctx, owner, c); err != nil {
		return nil, err
	}
	out := *line
	return &out, nil
}

// UpdateQuantity sets the quantity of the line matching articleUUID. A
// quantity below 1 is a removal, per the wire contract.
//
// Two racing updates for the same article are resolved last-writer-wins: the
// transaction serializes the writes, whichever lands second is the state the
// next read sees.
func (s *CartService) UpdateQuantity(ctx context.Context, owner Owner, articleUUID string, qty int) (*entity.CartItem, error) {
	if qty < 1 {
		if err := s.Remove(ctx, owner, articleUUID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	c, err := s.loadCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return nil, apperr.Validation("panier", "cart is "+string(c.Status))
	}
	line := findByUUID(c, articleUUID)
	if line == nil {
		return nil, apperr.Validation("article_uuid", "article not in cart")
	}

	a, err := s.ArticleRepo.GetByUUID(articleUUID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if a != nil {
		// stock fields only; the price keeps its add-time snapshot
		line.InStock = a.Stock > 0
		line.AvailableQty = a.Stock
		line.LowStock = a.Stock > 0 && a.Stock <= a.LowStockAt
		if qty > a.Stock {
			return nil, &apperr.StockError{ArticleUUID: articleUUID, Requested: qty, Available: a.Stock}
		}
	}
	if line.QtyMax > 0 && qty > line.QtyMax {
		return nil, apperr.Validation("quantite", "above article maximum")
	}
	if qty < line.QtyMin {
		return nil, apperr.Validation("quantite", "below article minimum")
	}
	line.Quantity = qty

	if err := s.saveCart(ctx, owner, c); err != nil {
		return nil, err
	}
	out := *line
	return &out, nil
}

// Remove drops the line matching articleUUID from the owner's cart.
func (s *CartService) Remove(ctx context.Context, owner Owner, articleUUID string) error {
	c, err := s.loadCart(ctx, owner)
	if err != nil {
		return err
	}
	if c.Status.Terminal() {
		return apperr.Validation("panier", "cart is "+string(c.Status))
	}
	kept := c.Items[:0]
	found := false
	for _, it := range c.Items {
		if it.ArticleUUID == articleUUID && it.Status != entity.ItemRemoved {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return apperr.Validation("article_uuid", "article not in cart")
	}
	c.Items = kept
	return s.saveCart(ctx, owner, c)
}

// Clear empties the owner's cart. Clearing a missing cart is a no-op.
func (s *CartService) Clear(ctx context.Context, owner Owner) error {
	if owner.Anonymous() {
		return s.Sessions.Delete(ctx, owner.SessionID)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.ClearCart(tx, owner.UserUUID)
	})
}

// Sync folds a locally accumulated cart into the authenticated user's server
// cart, using the configured merge strategy. The reconcile step itself is
// pure; this persists its output and reports the conflicts.
func (s *CartService) Sync(ctx context.Context, owner Owner, localIn []SyncItemIn) (*entity.Cart, []ConflictRecord, error) {
	if owner.Anonymous() {
		return nil, nil, apperr.ErrUnauthorized
	}

	local, err := s.resolveLocal(localIn)
	if err != nil {
		return nil, nil, err
	}

	c, err := s.CartRepo.GetOrCreateCart(owner.UserUUID, currencyOf(local))
	if err != nil {
		return nil, nil, err
	}
	if c.Status.Terminal() {
		return nil, nil, apperr.Validation("panier", "cart is "+string(c.Status))
	}
	full, err := s.CartRepo.GetCartWithItems(owner.UserUUID)
	if err != nil {
		return nil, nil, err
	}

	res := Reconcile(local, full.Items, s.Strategy)
	full.Items = res.Merged
	if err := s.saveCart(ctx, owner, full); err != nil {
		return nil, nil, err
	}

	out, err := s.CartRepo.GetCartWithItems(owner.UserUUID)
	if err != nil {
		return nil, nil, err
	}
	return out, res.Conflicts, nil
}

// MergeSession folds the anonymous redis cart of sessionID into the user's
// cart at login, then drops the session copy. Missing session carts are fine.
func (s *CartService) MergeSession(ctx context.Context, sessionID, userUUID string) error {
	sc, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		if repository.IsMissing(err) {
			return nil
		}
		return err
	}
	localIn := make([]SyncItemIn, 0, len(sc.Items))
	for _, it := range sc.Items {
		if it.Status != entity.ItemActive || it.Quantity == 0 {
			continue
		}
		localIn = append(localIn, SyncItemIn{
			ArticleUUID: it.ArticleUUID,
			ArticleType: string(it.ArticleType),
			Quantite:    it.Quantity,
		})
	}
	if _, _, err := s.Sync(ctx, Owner{UserUUID: userUUID}, localIn); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// ExpireStale marks authenticated carts untouched for longer than retention
// as expired. Anonymous carts expire on their own via the redis TTL.
func (s *CartService) ExpireStale(retention time.Duration) {
	n, err := s.CartRepo.ExpireBefore(time.Now().Add(-retention))
	if err != nil {
		log.Println("expire stale carts:", err)
		return
	}
	if n > 0 {
		log.Printf("expired %d stale cart(s)", n)
	}
}

// ----- internals -----

func findByUUID(c *entity.Cart, articleUUID string) *entity.CartItem {
	for i := range c.Items {
		if c.Items[i].Status == entity.ItemRemoved {
			continue
		}
		if c.Items[i].ArticleUUID == articleUUID {
			return &c.Items[i]
		}
	}
	return nil
}

func currencyOf(items []entity.CartItem) string {
	if len(items) > 0 {
		return items[0].Currency
	}
	return "EUR"
}

func (s *CartService) loadCart(ctx context.Context, owner Owner) (*entity.Cart, error) {
	if owner.Anonymous() {
		c, err := s.Sessions.Get(ctx, owner.SessionID)
		if repository.IsMissing(err) {
			return nil, apperr.ErrNoCart
		}
		return c, err
	}
	c, err := s.CartRepo.GetCartWithItems(owner.UserUUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNoCart
	}
	return c, err
}

func (s *CartService) loadOrCreateCart(ctx context.Context, owner Owner, currency string) (*entity.Cart, error) {
	c, err := s.loadCart(ctx, owner)
	if errors.Is(err, apperr.ErrNoCart) {
		if owner.Anonymous() {
			return &entity.Cart{SessionID: owner.SessionID, Currency: currency, Status: entity.CartActive}, nil
		}
		if _, err := s.CartRepo.GetOrCreateCart(owner.UserUUID, currency); err != nil {
			return nil, err
		}
		return s.CartRepo.GetCartWithItems(owner.UserUUID)
	}
	return c, err
}

// saveCart persists the in-memory item set and recomputes the row-level
// shipping and tax from the pricing policy.
func (s *CartService) saveCart(ctx context.Context, owner Owner, c *entity.Cart) error {
	shipping, tax := s.price(c)
	c.ShippingTotal = shipping
	c.TaxTotal = tax

	if owner.Anonymous() {
		return s.Sessions.Save(ctx, owner.SessionID, c)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.ReplaceItems(tx, c.ID, c.Items); err != nil {
			return err
		}
		for i := range c.Promotions {
			if c.Promotions[i].ID == 0 {
				c.Promotions[i].CartID = c.ID
				if err := s.CartRepo.AddPromotion(tx, &c.Promotions[i]); err != nil {
					return err
				}
			}
		}
		return s.CartRepo.SetTotals(tx, c.ID, shipping, tax)
	})
}

func (s *CartService) price(c *entity.Cart) (shipping, tax int64) {
	sum, err := ComputeSummary(c.Items, c.Promotions, 0, 0)
	if err != nil || sum.ItemCount == 0 {
		return 0, 0
	}
	shipping = s.Pricing.ShippingFlat
	tax = (sum.Subtotal - sum.TotalDiscount) * s.Pricing.TaxRateBP / 10000
	return shipping, tax
}

func (s *CartService) applyPromo(c *entity.Cart, code string) error {
	for _, p := range c.Promotions {
		if p.Code == code {
			return apperr.Validation("code_promo", "code already applied")
		}
	}
	promo, err := s.PromoRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("code_promo", "unknown code")
		}
		return err
	}
	if !promo.ActiveAt(time.Now()) {
		return apperr.Validation("code_promo", "code is not active")
	}
	sum, err := ComputeSummary(c.Items, nil, 0, 0)
	if err != nil {
		return err
	}
	amount := promo.DiscountOn(sum.Subtotal)
	if amount == 0 {
		return apperr.Validation("code_promo", "minimum order not reached")
	}
	c.Promotions = append(c.Promotions, entity.CartPromotion{
		Code:           promo.PromoCode,
		DiscountAmount: amount,
		Description:    promo.PromoDetail,
	})
	return nil
}

// resolveLocal turns the front's local lines into full cart items, taking
// price and stock from the catalog. The local side only ever contributes a
// reference and a quantity; the server stays the pricing source of truth.
func (s *CartService) resolveLocal(in []SyncItemIn) ([]entity.CartItem, error) {
	uuids := make([]string, 0, len(in))
	for _, li := range in {
		if !entity.ArticleType(li.ArticleType).Valid() {
			return nil, apperr.Validation("article_type", "unknown article type")
		}
		if li.Quantite < 1 {
			return nil, apperr.Validation("quantite", "must be at least 1")
		}
		uuids = append(uuids, li.ArticleUUID)
	}
	arts, err := s.ArticleRepo.GetManyByUUID(uuids)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CartItem, 0, len(in))
	for _, li := range in {
		a, ok := arts[li.ArticleUUID]
		if !ok {
			// article vanished from the catalog since it was added locally
			continue
		}
		var it entity.CartItem
		a.SnapshotInto(&it)
		it.Status = entity.ItemActive
		it.Quantity = li.Quantite
		out = append(out, it)
	}
	return out, nil
}

// refreshSnapshots re-reads the catalog for every line and updates the
// informational stock fields. Prices are left at their add-time snapshot.
func (s *CartService) refreshSnapshots(c *entity.Cart) error {
	uuids := make([]string, 0, len(c.Items))
	for i := range c.Items {
		uuids = append(uuids, c.Items[i].ArticleUUID)
	}
	arts, err := s.ArticleRepo.GetManyByUUID(uuids)
	if err != nil {
		return err
	}
	for i := range c.Items {
		it := &c.Items[i]
		a, ok := arts[it.ArticleUUID]
		if !ok {
			it.InStock = false
			it.AvailableQty = 0
			continue
		}
		it.InStock = a.Stock > 0
		it.AvailableQty = a.Stock
		it.LowStock = a.Stock > 0 && a.Stock <= a.LowStockAt
	}
	return nil
}
