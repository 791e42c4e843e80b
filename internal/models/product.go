package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	ProductNo   string         `gorm:"uniqueIndex;not null" json:"product_no"`             // 商品编号
	Title       string         `gorm:"type:varchar(500);not null" json:"title"`            // 商品标题
	Thumbnail   string         `gorm:"type:varchar(500)" json:"thumbnail_url"`             // 缩略图
	Images      StringArray    `gorm:"type:json" json:"images"`                            // 图片数组
	PriceAmount Money          `gorm:"type:decimal(20,0);not null;default:0" json:"price"` // 价格
	Inventory   int            `gorm:"not null;default:0" json:"inventory"`                // 商品级库存（无规格商品使用）
	HasVariants bool           `gorm:"not null;default:false" json:"has_variants"`         // 是否启用规格级库存
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	// 关联
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
