package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingSnapshot 配送信息快照表（每订单一条，创建时写入）
type ShippingSnapshot struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint           `gorm:"uniqueIndex;not null" json:"order_id"`                      // 订单ID
	Recipient   string         `gorm:"type:varchar(100);not null" json:"recipient"`               // 收件人
	Phone       string         `gorm:"type:varchar(30);not null" json:"phone"`                    // 联系电话
	Address     string         `gorm:"type:varchar(500);not null" json:"address"`                 // 收货地址
	PostalCode  string         `gorm:"type:varchar(10)" json:"postal_code"`                       // 邮政编码
	ShippingFee Money          `gorm:"type:decimal(20,0);not null;default:0" json:"shipping_fee"` // 运费
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (ShippingSnapshot) TableName() string {
	return "shipping_snapshots"
}
