package repository

import (
	"errors"

	"github.com/Theloho/live-commerce-sub002/internal/models"

	"gorm.io/gorm"
)

// ShippingSnapshotRepository 配送快照数据访问接口
type ShippingSnapshotRepository interface {
	Create(snapshot *models.ShippingSnapshot) error
	GetByOrderID(orderID uint) (*models.ShippingSnapshot, error)
	WithTx(tx *gorm.DB) *GormShippingSnapshotRepository
}

// GormShippingSnapshotRepository GORM 实现
type GormShippingSnapshotRepository struct {
	db *gorm.DB
}

// NewShippingSnapshotRepository 创建配送快照仓库
func NewShippingSnapshotRepository(db *gorm.DB) *GormShippingSnapshotRepository {
	return &GormShippingSnapshotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingSnapshotRepository) WithTx(tx *gorm.DB) *GormShippingSnapshotRepository {
	if tx == nil {
		return r
	}
	return &GormShippingSnapshotRepository{db: tx}
}

// Create 创建配送快照（每订单一条，创建后不再改写）
func (r *GormShippingSnapshotRepository) Create(snapshot *models.ShippingSnapshot) error {
	if snapshot == nil {
		return errors.New("shipping snapshot is nil")
	}
	return r.db.Create(snapshot).Error
}

// GetByOrderID 获取订单的配送快照
func (r *GormShippingSnapshotRepository) GetByOrderID(orderID uint) (*models.ShippingSnapshot, error) {
	var snapshot models.ShippingSnapshot
	if err := r.db.Where("order_id = ?", orderID).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}
