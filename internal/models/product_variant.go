package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表（每规格独立库存计数）
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	ProductID   uint           `gorm:"not null;index" json:"product_id"`                   // 商品ID
	Options     JSON           `gorm:"type:json" json:"options"`                           // 规格选项（如颜色/尺码）
	PriceAmount Money          `gorm:"type:decimal(20,0);not null;default:0" json:"price"` // 规格价格
	Inventory   int            `gorm:"not null;default:0" json:"inventory"`                // 规格库存
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
