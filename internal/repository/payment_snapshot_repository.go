package repository

import (
	"errors"

	"github.com/Theloho/live-commerce-sub002/internal/models"

	"gorm.io/gorm"
)

// PaymentSnapshotRepository 支付快照数据访问接口
type PaymentSnapshotRepository interface {
	Create(snapshot *models.PaymentSnapshot) error
	GetByOrderID(orderID uint) (*models.PaymentSnapshot, error)
	UpdateAmount(orderID uint, amount models.Money) error
	WithTx(tx *gorm.DB) *GormPaymentSnapshotRepository
}

// GormPaymentSnapshotRepository GORM 实现
type GormPaymentSnapshotRepository struct {
	db *gorm.DB
}

// NewPaymentSnapshotRepository 创建支付快照仓库
func NewPaymentSnapshotRepository(db *gorm.DB) *GormPaymentSnapshotRepository {
	return &GormPaymentSnapshotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentSnapshotRepository) WithTx(tx *gorm.DB) *GormPaymentSnapshotRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentSnapshotRepository{db: tx}
}

// Create 创建支付快照（每订单一条）
func (r *GormPaymentSnapshotRepository) Create(snapshot *models.PaymentSnapshot) error {
	if snapshot == nil {
		return errors.New("payment snapshot is nil")
	}
	return r.db.Create(snapshot).Error
}

// GetByOrderID 获取订单的支付快照
func (r *GormPaymentSnapshotRepository) GetByOrderID(orderID uint) (*models.PaymentSnapshot, error) {
	var snapshot models.PaymentSnapshot
	if err := r.db.Where("order_id = ?", orderID).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// UpdateAmount 改写支付快照金额（购物车合并后的整体重算结果）
func (r *GormPaymentSnapshotRepository) UpdateAmount(orderID uint, amount models.Money) error {
	if orderID == 0 {
		return errors.New("invalid order id")
	}
	return r.db.Model(&models.PaymentSnapshot{}).
		Where("order_id = ?", orderID).
		UpdateColumn("amount", amount).Error
}
