package model

import (
	"time"
)

// 订单状态
// 对外序列化用小写，和历史 API 保持一致
const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// ValidStatusTransitions 订单状态机
// 支付网关失败时订单保持 created，允许买家重试；failed 预留给明确的终态关单
var ValidStatusTransitions = map[string][]string{
	OrderStatusCreated: {OrderStatusPaid, OrderStatusFailed},
}

func CanTransitionTo(currentStatus, targetStatus string) bool {
	allowedStatuses, exists := ValidStatusTransitions[currentStatus]
	if !exists {
		return false
	}
	for _, s := range allowedStatuses {
		if s == targetStatus {
			return true
		}
	}
	return false
}

// Order 订单表
// TransactionID 在支付完成时写入，之后作为支付回调的唯一查找键
type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo       string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderNo"`
	UserID        uint        `gorm:"index;not null" json:"userId"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Total         float64     `gorm:"type:decimal(10,2);not null" json:"total"` // 主货币单位
	Status        string      `gorm:"type:varchar(20);index;not null" json:"status"`
	TransactionID *string     `gorm:"type:varchar(64);uniqueIndex" json:"transactionId"`
	PaidAt        *time.Time  `json:"paidAt"`
	CreatedAt     time.Time   `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string {
	return "order"
}

// OrderItem 订单明细
// UnitPrice 是下单时刻的快照，商品后续改价不影响已有订单
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"orderId"`
	ProductID uint    `gorm:"not null" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

func (OrderItem) TableName() string {
	return "order_item"
}
