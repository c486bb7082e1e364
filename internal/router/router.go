package router

import (
	"sort"
	"strings"

	"github.com/dujiao-next/storefront/internal/authz"
	"github.com/dujiao-next/storefront/internal/config"
	adminhandlers "github.com/dujiao-next/storefront/internal/http/handlers/admin"
	publichandlers "github.com/dujiao-next/storefront/internal/http/handlers/public"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	rateKey := func(name string) string {
		if prefix := strings.Trim(strings.TrimSpace(cfg.Redis.Prefix), ":"); prefix != "" {
			return prefix + ":rate:" + name
		}
		return "rate:" + name
	}
	loginRule := RateLimitRule{
		Prefix:        rateKey("login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        rateKey("admin_login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo, c.Store)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 商品与内容（公开）
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/active", publicHandler.ActiveProducts)
		apiV1.GET("/products/best-selling", publicHandler.BestSellingProducts)
		apiV1.GET("/products/search/:keyword", publicHandler.SearchProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/products/:id/reviews", publicHandler.ListProductReviews)
		apiV1.GET("/blogs", publicHandler.ListBlogs)
		apiV1.GET("/blogs/:id", publicHandler.GetBlog)
		apiV1.GET("/reviews/:id", publicHandler.GetReview)
		apiV1.POST("/contact", publicHandler.SubmitContact)
		apiV1.GET("/captcha/config", publicHandler.GetCaptchaSetting)
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 支付网关回调，签名校验基于原始报文
		apiV1.POST("/webhooks/razorpay", publicHandler.RazorpayWebhook)

		// 用户认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.SignUp)
			auth.POST("/signin", RateLimitMiddleware(c.RedisClient, loginRule, KeyByIPAndJSONField("identifier")), publicHandler.SignIn)
			auth.POST("/signout", userAuth, publicHandler.SignOut)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me/dashboard", publicHandler.Dashboard)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/add", publicHandler.AddToCart)
			user.POST("/cart/remove", publicHandler.RemoveFromCart)
			user.POST("/cart/increment", publicHandler.IncrementCartItem)
			user.POST("/cart/decrement", publicHandler.DecrementCartItem)
			user.POST("/cart/change-size", publicHandler.ChangeCartItemSize)
			user.GET("/cart/recommendations", publicHandler.CartRecommendations)

			user.POST("/orders/place-order", publicHandler.PlaceOrder)
			user.POST("/orders/verify", publicHandler.VerifyPayment)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/recent", publicHandler.RecentOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/wallet", publicHandler.GetWallet)
			user.POST("/wallet/add-money", publicHandler.AddMoney)

			user.POST("/reviews", publicHandler.AddReview)
			user.PUT("/reviews/:id", publicHandler.EditReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteReview)
			user.PUT("/reviews/:id/like", publicHandler.LikeReview)
			user.PUT("/reviews/:id/unlike", publicHandler.UnlikeReview)

			user.GET("/wishlist", publicHandler.ListWishlist)
			user.POST("/wishlist", publicHandler.AddToWishlist)
			user.DELETE("/wishlist/:product_id", publicHandler.RemoveFromWishlist)

			user.GET("/shipments/track/:shipment_id", publicHandler.TrackShipment)

			user.POST("/blogs", publicHandler.CreateBlog)
			user.DELETE("/blogs/:id", publicHandler.DeleteBlog)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(c.RedisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo, c.Store), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.GET("/authz/me", adminHandler.GetAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// 仪表盘
				authorized.GET("/dashboard/stats", adminHandler.GetDashboardStats)
				authorized.GET("/dashboard/sales-trend", adminHandler.GetDashboardSalesTrend)
				authorized.GET("/dashboard/category-revenue", adminHandler.GetDashboardCategoryRevenue)
				authorized.GET("/dashboard/pending-actions", adminHandler.GetDashboardPendingActions)
				authorized.GET("/dashboard/activities", adminHandler.GetDashboardActivities)

				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.POST("/products/bulk-delete", adminHandler.BulkDeleteProducts)
				authorized.DELETE("/products/purge", adminHandler.PurgeSoftDeletedProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.PUT("/products/:id/soft-delete", adminHandler.SoftDeleteProduct)
				authorized.PUT("/products/:id/status", adminHandler.UpdateProductStatus)
				authorized.PUT("/products/:id/certified", adminHandler.UpdateProductCertified)

				// 订单管理
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.POST("/orders/bulk-soft-delete", adminHandler.BulkSoftDeleteAdminOrders)
				authorized.GET("/orders/search/:id", adminHandler.SearchAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.PUT("/orders/:id", adminHandler.UpdateAdminOrder)
				authorized.PUT("/orders/:id/soft-delete", adminHandler.SoftDeleteAdminOrder)
				authorized.DELETE("/orders/:id", adminHandler.DeleteAdminOrder)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.POST("/users/bulk-delete", adminHandler.BulkDeleteAdminUsers)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
				authorized.DELETE("/users/:id", adminHandler.DeleteAdminUser)
				authorized.PUT("/users/:id/soft-delete", adminHandler.SoftDeleteAdminUser)
				authorized.PUT("/users/:id/active", adminHandler.ReactivateAdminUser)

				// 博客管理
				authorized.GET("/blogs", adminHandler.GetAdminBlogs)
				authorized.PUT("/blogs/:id", adminHandler.UpdateAdminBlog)
				authorized.DELETE("/blogs/:id", adminHandler.DeleteAdminBlog)

				// 支付网关
				authorized.GET("/payments", adminHandler.GetAdminPayments)
				authorized.GET("/payments/:id", adminHandler.GetAdminPayment)
				authorized.POST("/payments/:id/refund", adminHandler.RefundAdminPayment)

				// 物流网关
				authorized.POST("/shiprocket/login", adminHandler.ShiprocketLogin)
				authorized.POST("/shiprocket/create-order", adminHandler.ShiprocketCreateOrder)
				authorized.GET("/shiprocket/shipments", adminHandler.ShiprocketShipments)

				// 钱包核对
				authorized.GET("/wallets/:user_id/reconcile", adminHandler.ReconcileWallet)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
