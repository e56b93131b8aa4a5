package handler

import (
	"eshop/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
//
// 支付发起（/orders/:id/pay）和其他订单接口一样挂认证中间件：
// 构建支付报文需要当前用户的姓名和手机号，匿名请求无从谈起。
// 支付回跳（/orders/status/:transactionId）是 PhonePe 服务端跳转目标，
// 不带我们的会话，保持免认证
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	RegisterRoutes(r, h)

	return r
}

// RegisterRoutes 挂载全部路由（拆出来便于测试用假服务建引擎）
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Welcome to our E-commerce API!")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	// 商品目录
	r.GET("/products", h.ListProducts)
	products := r.Group("/products", RequireLogin(h.userService))
	{
		products.POST("/create", h.CreateProduct)
		products.PUT("/:id/update", h.UpdateProduct)
		products.DELETE("/:id/delete", h.DeleteProduct)
	}

	// 支付回跳免认证，必须注册在 /orders 认证组之外
	r.GET("/orders/status/:transactionId", h.PaymentStatus)

	orders := r.Group("/orders", RequireLogin(h.userService))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/pay", h.PayOrder)
	}
}
