package model

import (
	"time"
)

// Product 商品表
// 原型阶段商品放在进程内切片里，并发读写会竞态，现在统一落库
type Product struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"` // 单价（主货币单位，如 10.99）
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
