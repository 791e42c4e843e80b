package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"customer_order_number"`            // 订单编号（S+YYMMDD+-+4位）
	UserID         uint           `gorm:"index" json:"user_id,omitempty"`                               // 用户ID（匿名社交订单为 0）
	OrderType      string         `gorm:"index;not null" json:"order_type"`                             // 订单类型（direct/cart/bulk_payment，匿名时内嵌 KAKAO 标识）
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentGroupID *string        `gorm:"index" json:"payment_group_id,omitempty"`                      // 合并支付分组ID
	Currency       string         `gorm:"not null;default:'KRW'" json:"currency"`                       // 币种
	TotalAmount    Money          `gorm:"type:decimal(20,0);not null;default:0" json:"total_amount"`    // 实付金额
	DiscountAmount Money          `gorm:"type:decimal(20,0);not null;default:0" json:"discount_amount"` // 优惠金额
	IsFreeShipping bool           `gorm:"not null;default:false" json:"is_free_shipping"`               // 免运费快照（创建时一次性决定）
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	PaidAt         *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	DeliveredAt    *time.Time     `gorm:"index" json:"delivered_at"`                                    // 送达时间
	CancelledAt    *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	// 关联
	Items    []OrderItem        `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // 订单项
	Shipping []ShippingSnapshot `gorm:"foreignKey:OrderID" json:"shipping,omitempty"` // 配送快照（1:1，存储层按集合返回）
	Payment  []PaymentSnapshot  `gorm:"foreignKey:OrderID" json:"payment,omitempty"`  // 支付快照（1:1，存储层按集合返回）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
