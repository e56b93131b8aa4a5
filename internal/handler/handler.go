package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"eshop/internal/config"
	"eshop/internal/gateway"
	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/service"
	"eshop/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 各服务的契约接口，handler 只依赖接口，测试时可替换
type UserContract interface {
	Register(ctx context.Context, req *service.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	UserFromSession(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, token string) error
}

type ProductContract interface {
	List(ctx context.Context) ([]*model.Product, error)
	Create(ctx context.Context, name string, price float64) (*model.Product, error)
	Update(ctx context.Context, id uint, name string, price float64) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
}

type OrderContract interface {
	CreateOrder(ctx context.Context, userID uint, req *service.CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, orderNo string) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID uint) ([]*model.Order, error)
}

type CheckoutContract interface {
	Pay(ctx context.Context, orderNo string, payer *model.User, req *service.PayRequest) (*service.PayResult, error)
	PaymentStatus(ctx context.Context, transactionID string) (*service.StatusResult, error)
}

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	userService     UserContract
	productService  ProductContract
	orderService    OrderContract
	checkoutService CheckoutContract
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		userService:     service.NewUserService(db, rdb, cfg),
		productService:  service.NewProductService(db),
		orderService:    service.NewOrderService(db),
		checkoutService: service.NewCheckoutService(db, rdb, cfg),
	}
}

// ============================================================
// 用户相关接口
// ============================================================

// Register 用户注册
// POST /register
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Error creating user")
		return
	}

	if _, err := h.userService.Register(c.Request.Context(), &req); err != nil {
		response.BadRequest(c, "Error creating user")
		return
	}

	response.OK(c, "User created successfully")
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录，成功后通过 Cookie 下发会话 token
// POST /login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, _, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Message(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		response.BadRequest(c, "Error logging in")
		return
	}

	c.SetCookie(SessionCookieName, token, 0, "/", "", false, true)
	response.OK(c, "Logged in successfully")
}

// ============================================================
// 商品相关接口
// ============================================================

type productRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

// ListProducts 商品列表
// GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Error retrieving products")
		return
	}
	response.Data(c, products)
}

// CreateProduct 新建商品
// POST /products/create
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req.Name, req.Price)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Error creating product")
		return
	}
	response.Data(c, product)
}

// UpdateProduct 更新商品
// PUT /products/:id/update
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Product not found")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), uint(id), req.Name, req.Price)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusBadRequest, "Error updating product")
		return
	}
	response.Data(c, product)
}

// DeleteProduct 删除商品
// DELETE /products/:id/delete
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusBadRequest, "Error deleting product")
		return
	}
	response.OK(c, "Product deleted successfully")
}

// ============================================================
// 订单相关接口
// ============================================================

// CreateOrder 下单
// POST /orders
func (h *Handler) CreateOrder(c *gin.Context) {
	user := CurrentUser(c)

	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Error creating order")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), user.ID, &req)
	if err != nil {
		response.BadRequest(c, "Error creating order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order created successfully",
		"orderNo": order.OrderNo,
	})
}

// ListOrders 当前用户的订单列表
// GET /orders
func (h *Handler) ListOrders(c *gin.Context) {
	user := CurrentUser(c)

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), user.ID)
	if err != nil {
		response.BadRequest(c, "Error retrieving orders")
		return
	}
	response.Data(c, orders)
}

// GetOrder 订单详情
// GET /orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		response.BadRequest(c, "Error retrieving order")
		return
	}
	response.Data(c, order)
}

// ============================================================
// 支付相关接口
// ============================================================

// PayOrder 发起支付
// POST /orders/:id/pay
//
// 失败语义：
//   订单不存在        -> 404
//   网关失败          -> 500，带网关错误信息，此时订单没有被改动
//   其他（参数/状态） -> 400
func (h *Handler) PayOrder(c *gin.Context) {
	user := CurrentUser(c)

	// paymentMethod / paymentToken 随托管收银台流程透传，body 允许为空
	var req service.PayRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.checkoutService.Pay(c.Request.Context(), c.Param("id"), user, &req)
	if err != nil {
		var gwErr *gateway.GatewayError
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			response.NotFound(c, "Order not found")
		case errors.As(err, &gwErr):
			response.ServerError(c, "Payment Failed", gwErr.Message)
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Forbidden(c, "Forbidden")
		default:
			response.BadRequest(c, "Error processing payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "Order paid successfully",
		"phonePeTransactionId": result.TransactionID,
	})
}

// PaymentStatus 支付状态回跳查询
// GET /orders/status/:transactionId
func (h *Handler) PaymentStatus(c *gin.Context) {
	result, err := h.checkoutService.PaymentStatus(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		response.BadRequest(c, "Error updating order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"orderNo": result.OrderNo,
		"status":  result.Status,
	})
}
