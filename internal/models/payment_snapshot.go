package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentSnapshot 支付信息快照表（每订单一条，合并购物车时金额整体重算）
type PaymentSnapshot struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                // 主键
	OrderID   uint           `gorm:"uniqueIndex;not null" json:"order_id"`                // 订单ID
	Method    string         `gorm:"type:varchar(30);not null" json:"method"`             // 支付方式
	Amount    Money          `gorm:"type:decimal(20,0);not null;default:0" json:"amount"` // 应付金额
	Depositor string         `gorm:"type:varchar(100)" json:"depositor_name,omitempty"`   // 汇款人姓名（银行转账）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (PaymentSnapshot) TableName() string {
	return "payment_snapshots"
}
