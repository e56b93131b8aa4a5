package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eshop/internal/config"
	"eshop/internal/gateway"
	"eshop/internal/infrastructure/lock"
	"eshop/internal/model"
	"eshop/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotOrderOwner   = errors.New("order belongs to another user")
	ErrOrderNotPayable = errors.New("order is not payable in its current status")
)

// OrderStore 编排层需要的订单存取契约，由 repository.CheckoutStore 实现
type OrderStore interface {
	GetOrder(ctx context.Context, orderNo string) (*model.Order, error)
	GetOrderByTransactionID(ctx context.Context, transactionID string) (*model.Order, error)
	MarkOrderPaid(ctx context.Context, order *model.Order, transactionID string) error
}

// PayLock 支付互斥锁契约
type PayLock interface {
	Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error
	Unlock(ctx context.Context) error
}

// PayLockFactory 按订单号创建锁
type PayLockFactory func(orderNo string) PayLock

// CheckoutService 支付编排
//
// 状态机：created --网关成功--> paid（写入交易号，一次性）
// 网关失败订单保持 created，错误原样抛给调用方，买家可以重试
type CheckoutService struct {
	orders  OrderStore
	gateway gateway.PaymentInitiator
	newLock PayLockFactory
}

func NewCheckoutService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CheckoutService {
	lockTTL := time.Duration(cfg.Business.PayLockTTLSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &CheckoutService{
		orders:  repository.NewCheckoutStore(db, cfg.Kafka.Topic.OrderPaid),
		gateway: gateway.NewClient(cfg.Gateway),
		newLock: func(orderNo string) PayLock {
			return lock.NewOrderPayLock(redisClient, orderNo, uuid.NewString(), lockTTL)
		},
	}
}

type PayRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	PaymentToken  string `json:"paymentToken"`
}

type PayResult struct {
	TransactionID string
}

// Pay 发起支付
//
// 1. 订单不存在直接 404 级错误，签名器和网关都不会被触碰
// 2. 订单维度加锁，串行化同一订单的并发支付
// 3. 锁内重读订单，只有 created 状态才调网关
// 4. 网关成功后条件更新 created -> paid，并在同一事务写支付成功事件
//
// 即使锁失效，MarkOrderPaid 的条件写也保证已支付订单不会被覆盖
func (s *CheckoutService) Pay(ctx context.Context, orderNo string, payer *model.User, req *PayRequest) (*PayResult, error) {
	order, err := s.orders.GetOrder(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	if order.UserID != payer.ID {
		return nil, ErrNotOrderOwner
	}

	payLock := s.newLock(orderNo)
	if err := payLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("获取支付锁失败: %w", err)
	}
	defer payLock.Unlock(ctx)

	// 拿到锁后重读，前一个持锁请求可能已经支付完成
	order, err = s.orders.GetOrder(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusCreated {
		return nil, ErrOrderNotPayable
	}

	ack, err := s.gateway.InitiatePayment(ctx, order, payer)
	if err != nil {
		// 订单保持 created，不落任何状态
		return nil, err
	}

	if err := s.orders.MarkOrderPaid(ctx, order, ack.TransactionID); err != nil {
		return nil, err
	}

	log.Printf("[Checkout] 支付成功: orderNo=%s, userID=%d, transactionID=%s",
		orderNo, payer.ID, ack.TransactionID)

	return &PayResult{TransactionID: ack.TransactionID}, nil
}

type StatusResult struct {
	OrderNo string
	Status  string
}

// PaymentStatus 支付回跳 / 状态查询，按交易号找订单
func (s *CheckoutService) PaymentStatus(ctx context.Context, transactionID string) (*StatusResult, error) {
	order, err := s.orders.GetOrderByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		OrderNo: order.OrderNo,
		Status:  order.Status,
	}, nil
}
