package routes

import (
	"oskar-api/configs"
	"oskar-api/controllers"
	"oskar-api/middlewares"
	"oskar-api/pkg/metrics"
	"oskar-api/repository"
	"oskar-api/services"
	"oskar-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, rdb *redis.Client, hub *ws.PanierHub) *services.CartService {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	db := configs.DB()

	// Repositories
	cartRepo := repository.NewCartRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	promoRepo := repository.NewPromotionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessions := repository.NewSessionCartStore(rdb, cfg.CartRetention)

	// Services
	cartSvc := services.NewCartService(
		db, cartRepo, articleRepo, promoRepo, sessions,
		services.MergeStrategy(cfg.SyncStrategy),
		services.PricingPolicy{ShippingFlat: cfg.ShippingFlat, TaxRateBP: cfg.TaxRateBP},
	)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	promoSvc := services.NewPromotionService(promoRepo)
	orderSvc := services.NewOrderService(db, orderRepo, cartRepo, articleRepo, cartSvc)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc, cartSvc)
	cartCtrl := controllers.NewCartController(cartSvc, hub)
	articleCtrl := controllers.NewArticleController(articleRepo)
	promoCtrl := controllers.NewPromotionController(promoSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(), authCtrl.Me)

	// Catalog (public)
	r.GET("/articles", articleCtrl.List)
	r.GET("/articles/:uuid", articleCtrl.Detail)

	// Panier: owner is a JWT user or an anonymous session
	p := r.Group("/panier", middlewares.OwnerMiddleware())
	{
		p.GET("/current", cartCtrl.Current)
		p.POST("/add", cartCtrl.Add)
		p.PUT("/update-quantity", cartCtrl.UpdateQuantity)
		p.DELETE("/remove/:article_uuid", cartCtrl.Remove)
		p.DELETE("/clear", cartCtrl.Clear)
		p.POST("/sync", cartCtrl.Sync)
	}

	// Live cart summary
	r.GET("/ws/panier", middlewares.OwnerMiddleware(), hub.HandleWebSocket)

	// Orders (user)
	u := r.Group("/", middlewares.AuthMiddleware())
	{
		u.POST("/orders/checkout", orderCtrl.Checkout)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.GET("/profile/orders", orderCtrl.ListForMe)
	}

	// Admin (admin only)
	admin := r.Group("/admin", middlewares.AuthMiddleware("admin"))
	{
		admin.POST("/promotions", promoCtrl.Create)
		admin.GET("/promotions", promoCtrl.List)
		admin.PATCH("/promotions/:id", promoCtrl.Update)
		admin.DELETE("/promotions/:id", promoCtrl.Delete)
	}

	return cartSvc
}
