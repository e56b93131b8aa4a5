package service

import (
	"context"
	"errors"

	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/pkg/idgen"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderTotalMismatch = errors.New("order total does not match line items")
	ErrEmptyOrder         = errors.New("order has no items")
)

type OrderService struct {
	db          *gorm.DB
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewProductRepository(db),
	}
}

type OrderLine struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Products []OrderLine `json:"products" binding:"required,min=1,dive"`
	Total    float64     `json:"total" binding:"required,gt=0"`
}

// CreateOrder 下单
//
// 单价取商品当前价做快照，并校验 total 必须等于明细小计之和，
// 金额比较走 decimal，不信任浮点
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*model.Order, error) {
	if len(req.Products) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]uint, 0, len(req.Products))
	for _, line := range req.Products {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	priceByID := make(map[uint]float64, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.Price
	}

	items := make([]model.OrderItem, 0, len(req.Products))
	for _, line := range req.Products {
		price, ok := priceByID[line.ProductID]
		if !ok {
			return nil, repository.ErrProductNotFound
		}
		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
	}

	if !totalMatchesItems(items, req.Total) {
		return nil, ErrOrderTotalMismatch
	}

	order := &model.Order{
		OrderNo: idgen.GenerateOrderNo(),
		UserID:  userID,
		Items:   items,
		Total:   req.Total,
		Status:  model.OrderStatusCreated,
	}

	if err := s.orderRepo.Create(ctx, nil, order); err != nil {
		return nil, err
	}
	return order, nil
}

// totalMatchesItems 校验订单金额等于明细小计之和，比较走 decimal
func totalMatchesItems(items []model.OrderItem, total float64) bool {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.Equal(decimal.NewFromFloat(total))
}

func (s *OrderService) GetOrder(ctx context.Context, orderNo string) (*model.Order, error) {
	return s.orderRepo.GetByOrderNo(ctx, orderNo)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}
