package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eshop/internal/model"

	"gorm.io/gorm"
)

// CheckoutStore 支付落库入口
// 订单状态流转和支付成功事件必须同生共死，所以合在一个事务里
type CheckoutStore struct {
	db         *gorm.DB
	orderRepo  *OrderRepository
	outboxRepo *OutboxRepository
	paidTopic  string
}

func NewCheckoutStore(db *gorm.DB, paidTopic string) *CheckoutStore {
	return &CheckoutStore{
		db:         db,
		orderRepo:  NewOrderRepository(db),
		outboxRepo: NewOutboxRepository(db),
		paidTopic:  paidTopic,
	}
}

func (s *CheckoutStore) GetOrder(ctx context.Context, orderNo string) (*model.Order, error) {
	return s.orderRepo.GetByOrderNo(ctx, orderNo)
}

func (s *CheckoutStore) GetOrderByTransactionID(ctx context.Context, transactionID string) (*model.Order, error) {
	return s.orderRepo.GetByTransactionID(ctx, transactionID)
}

// MarkOrderPaid created -> paid 条件流转 + 发件箱事件，单事务
func (s *CheckoutStore) MarkOrderPaid(ctx context.Context, order *model.Order, transactionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.MarkPaid(ctx, tx, order.OrderNo, transactionID); err != nil {
			return fmt.Errorf("更新订单状态失败: %w", err)
		}

		msgPayload := map[string]interface{}{
			"order_no":       order.OrderNo,
			"user_id":        order.UserID,
			"total":          order.Total,
			"transaction_id": transactionID,
			"status":         model.OrderStatusPaid,
			"paid_at":        time.Now().Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: order.OrderNo,
			Topic:      s.paidTopic,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("写入消息失败: %w", err)
		}

		return nil
	})
}
