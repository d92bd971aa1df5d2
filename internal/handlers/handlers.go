package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bazario/api/internal/config"
	"bazario/api/internal/mail"
	"bazario/api/internal/middleware"
	"bazario/api/internal/models"
	"bazario/api/internal/repository"
	"bazario/api/internal/service"
	"bazario/api/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	db          *pgxpool.Pool
	cache       *redis.Client
	store       *storage.ObjectStore
	users       *repository.UserRepository
	shops       *repository.ShopRepository
	coupons     *repository.CouponRepository
	ledger      *repository.TransactionRepository
	accounts    *service.AccountService
	shopAccts   *service.ShopService
	products    *service.ProductService
	reviews     *service.ReviewService
	orderSvc    *service.OrderService
	withdrawals *service.WithdrawService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	ledgerRepo := repository.NewTransactionRepository(db)

	mailer := mail.NewRedisOutbox(cache, cfg.Mail)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		db:          db,
		cache:       cache,
		store:       store,
		users:       userRepo,
		shops:       shopRepo,
		coupons:     couponRepo,
		ledger:      ledgerRepo,
		accounts:    service.NewAccountService(userRepo, store, mailer, cfg, log),
		shopAccts:   service.NewShopService(shopRepo, store, mailer, cfg, log),
		products:    service.NewProductService(productRepo, store, shopRepo, log),
		reviews:     service.NewReviewService(productRepo, orderRepo, log),
		orderSvc:    service.NewOrderService(orderRepo, productRepo, shopRepo, log),
		withdrawals: service.NewWithdrawService(shopRepo, ledgerRepo, mailer, log),
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	authUser := middleware.AuthenticateUser(h.cfg.Security.JWTSecret, h.users)
	authSeller := middleware.AuthenticateSeller(h.cfg.Security.JWTSecret, h.shops)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	user := router.Group("/user")
	{
		user.POST("/create-user", h.CreateUser)
		user.POST("/activation", h.ActivateUser)
		user.POST("/login-user", h.LoginUser)
		user.GET("/logout", h.LogoutUser)
		user.GET("/user-info/:id", h.UserInfo)

		user.GET("/getuser", authUser, h.GetUser)
		user.PUT("/update-user-info", authUser, h.UpdateUserInfo)
		user.PUT("/update-avatar", authUser, h.UpdateUserAvatar)
		user.PUT("/update-user-addresses", authUser, h.UpdateUserAddresses)
		user.DELETE("/delete-user-address/:id", authUser, h.DeleteUserAddress)
		user.PUT("/update-user-password", authUser, h.UpdateUserPassword)

		user.GET("/admin-all-users", authUser, adminOnly, h.AdminListUsers)
		user.DELETE("/delete-user/:id", authUser, adminOnly, h.AdminDeleteUser)
	}

	shop := router.Group("/shop")
	{
		shop.POST("/create-shop", h.CreateShop)
		shop.POST("/activation", h.ActivateShop)
		shop.POST("/login-shop", h.LoginShop)
		shop.GET("/logout", h.LogoutShop)
		shop.GET("/get-shop-info/:id", h.ShopInfo)

		shop.GET("/getSeller", authSeller, h.GetSeller)
		shop.PUT("/update-shop-avatar", authSeller, h.UpdateShopAvatar)
		shop.PUT("/update-seller-info", authSeller, h.UpdateSellerInfo)
		shop.PUT("/update-payment-methods", authSeller, h.UpdateWithdrawMethod)
		shop.DELETE("/delete-withdraw-method", authSeller, h.DeleteWithdrawMethod)

		shop.GET("/admin-all-sellers", authUser, adminOnly, h.AdminListShops)
		shop.DELETE("/delete-seller/:id", authUser, adminOnly, h.AdminDeleteShop)
	}

	product := router.Group("/product")
	{
		product.GET("/get-all-products", h.ListProducts)

		product.POST("/create-product", authSeller, h.CreateProduct)
		product.GET("/get-all-products-shop/:id", authSeller, h.ListShopProducts)
		product.DELETE("/delete-shop-product/:id", authSeller, h.DeleteProduct)

		product.PUT("/create-new-review", authUser, h.CreateReview)

		product.GET("/admin-all-products", authUser, adminOnly, h.AdminListProducts)
	}

	order := router.Group("/api/v2/order")
	{
		order.POST("/create-order", authUser, h.CreateOrder)
		order.GET("/get-all-orders", authUser, h.ListUserOrders)
		order.GET("/get-seller-all-orders", authSeller, h.ListShopOrders)
		order.PUT("/update-order-status/:id", authSeller, h.UpdateOrderStatus)
	}

	coupon := router.Group("/api/v2/coupon")
	{
		coupon.POST("/create-coupon-code", authSeller, h.CreateCoupon)
		coupon.GET("/get-coupons", authSeller, h.ListShopCoupons)
		coupon.GET("/get-coupon-value/:code", h.CouponByCode)
		coupon.DELETE("/delete-coupon/:id", authSeller, h.DeleteCoupon)
	}

	payment := router.Group("/api/v2/payment")
	{
		payment.POST("/process", authUser, h.ProcessPayment)
	}

	withdraw := router.Group("/api/v2/withdraw")
	{
		withdraw.POST("/create-withdraw-request", authSeller, h.CreateWithdrawRequest)
		withdraw.GET("/get-my-withdraw-requests", authSeller, h.ListShopWithdrawals)
		withdraw.GET("/get-all-withdraw-request", authUser, adminOnly, h.AdminListPendingWithdrawals)
		withdraw.PUT("/update-withdraw-request/:id", authUser, adminOnly, h.AdminSettleWithdrawal)
	}
}

func (h HandlerSet) setSessionCookie(c *gin.Context, name string, token string, ttl time.Duration) {
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", false, true)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.ContextUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

func currentSeller(c *gin.Context) (models.Shop, bool) {
	shopVal, exists := c.Get(middleware.ContextSeller)
	if !exists {
		return models.Shop{}, false
	}
	shop, ok := shopVal.(models.Shop)
	return shop, ok
}
