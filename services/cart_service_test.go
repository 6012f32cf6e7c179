package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"oskar-api/entity"
	"oskar-api/pkg/apperr"
	"oskar-api/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.User{}, &entity.Article{},
		&entity.Cart{}, &entity.CartItem{}, &entity.CartPromotion{},
		&entity.PromoType{}, &entity.Promotion{},
		&entity.Order{}, &entity.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestCartService(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCartService(
		db,
		repository.NewCartRepository(db),
		repository.NewArticleRepository(db),
		repository.NewPromotionRepository(db),
		nil, // no session store needed for authenticated flows
		StrategyMerge,
		PricingPolicy{ShippingFlat: 500, TaxRateBP: 1000},
	)
	return svc, db
}

func seedArticle(t *testing.T, db *gorm.DB, uuid string, price int64, stock, max int) {
	t.Helper()
	a := entity.Article{
		UUID: uuid, Type: entity.ArticleProduct, Title: "article " + uuid,
		Price: price, Currency: "EUR",
		QtyMin: 1, QtyMax: max, Stock: stock, LowStockAt: 3, Sellable: true,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
}

func TestCartServiceAddAndGet(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, _, err := svc.Get(ctx, owner); !errors.Is(err, apperr.ErrNoCart) {
		t.Fatalf("expected ErrNoCart before first add, got %v", err)
	}

	item, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Quantity != 3 || item.UnitPrice != 1000 {
		t.Errorf("line: %+v", item)
	}

	cart, sum, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if sum.Subtotal != 3000 {
		t.Errorf("subtotal: got %d, want 3000", sum.Subtotal)
	}
	// flat shipping 500, tax 10% of discounted subtotal
	if sum.ShippingTotal != 500 || sum.TaxTotal != 300 {
		t.Errorf("shipping/tax: got %d/%d", sum.ShippingTotal, sum.TaxTotal)
	}
	if sum.GrandTotal != 3800 {
		t.Errorf("grandTotal: got %d, want 3800", sum.GrandTotal)
	}
}

func TestCartServiceAddMergesSameArticle(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 500, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	item, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 1})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if item.Quantity != 3 {
		t.Errorf("quantity after merge: got %d, want 3", item.Quantity)
	}

	cart, _, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Errorf("expected one line, got %d", len(cart.Items))
	}
}

func TestCartServiceAddValidation(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 500, 2, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	t.Run("unknown article", func(t *testing.T) {
		_, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "nope", ArticleType: "product", Quantite: 1})
		if !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "furniture", Quantite: 1})
		if !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		_, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 5})
		var se *apperr.StockError
		if !errors.As(err, &se) {
			t.Fatalf("expected StockError, got %v", err)
		}
		if se.Available != 2 || se.Requested != 5 {
			t.Errorf("stock error figures: %+v", se)
		}
	})
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 6)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("sets the quantity", func(t *testing.T) {
		item, err := svc.UpdateQuantity(ctx, owner, "a1", 5)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if item.Quantity != 5 {
			t.Errorf("quantity: got %d, want 5", item.Quantity)
		}
	})

	t.Run("above maximum", func(t *testing.T) {
		if _, err := svc.UpdateQuantity(ctx, owner, "a1", 7); !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("missing line", func(t *testing.T) {
		if _, err := svc.UpdateQuantity(ctx, owner, "ghost", 1); !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("below one removes the line", func(t *testing.T) {
		item, err := svc.UpdateQuantity(ctx, owner, "a1", 0)
		if err != nil {
			t.Fatalf("update to zero: %v", err)
		}
		if item != nil {
			t.Errorf("expected no line back, got %+v", item)
		}
		cart, sum, err := svc.Get(ctx, owner)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(cart.Items) != 0 || sum.ItemCount != 0 {
			t.Errorf("cart not emptied: %d items, count %d", len(cart.Items), sum.ItemCount)
		}
	})
}

func TestCartServicePromoCode(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 2000, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	pt := entity.PromoType{NameType: entity.PromoTypeAmount}
	if err := db.Create(&pt).Error; err != nil {
		t.Fatalf("seed promo type: %v", err)
	}
	promo := entity.Promotion{PromoCode: "WELCOME", PromoDetail: "welcome offer", Value: 300, MinOrder: 1000, PromoTypeID: pt.ID}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promotion: %v", err)
	}

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 1, CodePromo: "WELCOME"}); err != nil {
		t.Fatalf("add with promo: %v", err)
	}

	_, sum, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sum.TotalDiscount != 300 {
		t.Errorf("totalDiscount: got %d, want 300", sum.TotalDiscount)
	}

	t.Run("same code twice rejected", func(t *testing.T) {
		_, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 1, CodePromo: "WELCOME"})
		if !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestCartServiceSync(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 4)
	seedArticle(t, db, "b1", 700, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	// server side holds a1 qty 3
	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 3}); err != nil {
		t.Fatalf("seed server cart: %v", err)
	}

	local := []SyncItemIn{
		{ArticleUUID: "a1", ArticleType: "product", Quantite: 2},
		{ArticleUUID: "b1", ArticleType: "product", Quantite: 1},
	}
	cart, conflicts, err := svc.Sync(ctx, owner, local)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].FinalQty != 4 {
		t.Errorf("merged qty: got %d, want min(2+3,4)=4", conflicts[0].FinalQty)
	}

	got := map[string]int{}
	for _, it := range cart.Items {
		got[it.ArticleUUID] = it.Quantity
	}
	if got["a1"] != 4 || got["b1"] != 1 {
		t.Errorf("merged cart: %v", got)
	}

	t.Run("anonymous owner cannot sync", func(t *testing.T) {
		_, _, err := svc.Sync(ctx, Owner{SessionID: "s1"}, nil)
		if !errors.Is(err, apperr.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestCartServiceTerminalCart(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	oldCart, _, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := db.Model(&entity.Cart{}).Where("id = ?", oldCart.ID).
		Update("status", entity.CartConvertedToOrder).Error; err != nil {
		t.Fatalf("mark converted: %v", err)
	}

	// the terminal cart is history: reads and updates see no cart, and the
	// next add opens a fresh one
	if _, _, err := svc.Get(ctx, owner); !errors.Is(err, apperr.ErrNoCart) {
		t.Fatalf("expected ErrNoCart after conversion, got %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, owner, "a1", 2); !errors.Is(err, apperr.ErrNoCart) {
		t.Fatalf("expected ErrNoCart after conversion, got %v", err)
	}

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 2}); err != nil {
		t.Fatalf("add after conversion: %v", err)
	}
	c, sum, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get after conversion: %v", err)
	}
	if c.ID == oldCart.ID {
		t.Fatal("expected a fresh cart row, got the converted one")
	}
	if sum.ItemCount != 2 {
		t.Errorf("fresh cart item count: got %d, want 2", sum.ItemCount)
	}
}

func TestCartServiceExpiredCartDoesNotBlockShopping(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	oldCart, _, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// age the cart past the retention window, then sweep
	stale := time.Now().Add(-31 * 24 * time.Hour)
	if err := db.Model(&entity.Cart{}).Where("id = ?", oldCart.ID).
		UpdateColumn("updated_at", stale).Error; err != nil {
		t.Fatalf("age cart: %v", err)
	}
	svc.ExpireStale(30 * 24 * time.Hour)

	var c entity.Cart
	if err := db.First(&c, oldCart.ID).Error; err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if c.Status != entity.CartExpired {
		t.Fatalf("status: got %s, want expired", c.Status)
	}

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 3}); err != nil {
		t.Fatalf("add after expiry: %v", err)
	}
	fresh, sum, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if fresh.ID == oldCart.ID {
		t.Fatal("expected a fresh cart row, got the expired one")
	}
	if sum.ItemCount != 3 {
		t.Errorf("fresh cart item count: got %d, want 3", sum.ItemCount)
	}
}

func TestCartServiceUpdateQuantityKeepsPriceSnapshot(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// the catalog price moves after the add
	if err := db.Model(&entity.Article{}).Where("uuid = ?", "a1").Update("price", 2500).Error; err != nil {
		t.Fatalf("change price: %v", err)
	}

	item, err := svc.UpdateQuantity(ctx, owner, "a1", 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.UnitPrice != 1000 {
		t.Errorf("unit price after update: got %d, want the add-time 1000", item.UnitPrice)
	}

	_, sum, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sum.Subtotal != 3000 {
		t.Errorf("subtotal: got %d, want 3*1000=3000", sum.Subtotal)
	}
}

func TestCartServiceAddReactivatesInactiveLine(t *testing.T) {
	svc, db := newTestCartService(t)
	seedArticle(t, db, "a1", 1000, 10, 0)
	owner := Owner{UserUUID: "user-1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := db.Model(&entity.CartItem{}).Where("article_uuid = ?", "a1").
		Update("status", entity.ItemInactive).Error; err != nil {
		t.Fatalf("deactivate line: %v", err)
	}

	item, err := svc.Add(ctx, owner, &AddToCartIn{ArticleUUID: "a1", ArticleType: "product", Quantite: 1})
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if item.Status != entity.ItemActive {
		t.Errorf("line status: got %s, want active", item.Status)
	}

	_, sum, err := svc.Get(ctx, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sum.ItemCount != 3 || sum.Subtotal != 3000 {
		t.Errorf("summary after re-add: count %d subtotal %d", sum.ItemCount, sum.Subtotal)
	}
}
