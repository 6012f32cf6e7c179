package services

import (
	"context"

	"oskar-api/entity"
	"oskar-api/pkg/apperr"
	"oskar-api/repository"

	"gorm.io/gorm"
)

type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	CartRepo    *repository.CartRepository
	ArticleRepo *repository.ArticleRepository
	CartSvc     *CartService
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, cartRepo *repository.CartRepository, articleRepo *repository.ArticleRepository, cartSvc *CartService) *OrderService {
	return &OrderService{DB: db, Repo: repo, CartRepo: cartRepo, ArticleRepo: articleRepo, CartSvc: cartSvc}
}

type CheckoutRes struct {
	ID    uint  `json:"id"`
	Total int64 `json:"total"`
}

// CheckoutFromCart turns the user's active cart into an order and moves the
// cart to convertedToOrder, a terminal state: any later mutation attempt on
// it fails.
func (s *OrderService) CheckoutFromCart(ctx context.Context, userUUID string) (*CheckoutRes, error) {
	c, sum, err := s.CartSvc.Get(ctx, Owner{UserUUID: userUUID})
	if err != nil {
		return nil, err
	}
	if c.Status.Terminal() {
		return nil, apperr.Validation("panier", "cart is "+string(c.Status))
	}
	if sum.ItemCount == 0 {
		return nil, apperr.Validation("panier", "cart is empty")
	}
	for i := range c.Items {
		it := &c.Items[i]
		if it.Status == entity.ItemActive && it.Quantity > 0 && !it.InStock {
			return nil, &apperr.StockError{ArticleUUID: it.ArticleUUID, Requested: it.Quantity, Available: it.AvailableQty}
		}
	}

	var out CheckoutRes
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order := entity.Order{
			UserUUID:      userUUID,
			CartID:        c.ID,
			Subtotal:      sum.Subtotal,
			Discount:      sum.TotalDiscount,
			ShippingTotal: sum.ShippingTotal,
			TaxTotal:      sum.TaxTotal,
			Total:         sum.GrandTotal,
			Currency:      c.Currency,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		for i := range c.Items {
			it := &c.Items[i]
			if it.Status != entity.ItemActive || it.Quantity == 0 {
				continue
			}
			oi := entity.OrderItem{
				OrderID:     order.ID,
				ArticleType: it.ArticleType,
				ArticleUUID: it.ArticleUUID,
				Qty:         it.Quantity,
				UnitPrice:   it.UnitPrice,
				Total:       it.LineTotal(),
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
			ok, err := s.ArticleRepo.DecrementStock(tx, it.ArticleUUID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &apperr.StockError{ArticleUUID: it.ArticleUUID, Requested: it.Quantity, Available: it.AvailableQty}
			}
		}
		if err := tx.Model(&entity.CartItem{}).Where("cart_id = ?", c.ID).
			Update("status", entity.ItemOrderedOut).Error; err != nil {
			return err
		}
		if err := s.CartRepo.SetStatus(tx, c.ID, entity.CartConvertedToOrder); err != nil {
			return err
		}
		out = CheckoutRes{ID: order.ID, Total: order.Total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) Detail(id uint, userUUID string) (*entity.Order, error) {
	o, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o.UserUUID != userUUID {
		return nil, apperr.ErrUnauthorized
	}
	return o, nil
}

func (s *OrderService) ListForUser(userUUID string) ([]entity.Order, error) {
	return s.Repo.ListForUser(userUUID)
}
