package repository

import (
	"errors"

	"github.com/Theloho/live-commerce-sub002/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository 商品规格数据访问接口
type ProductVariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	CreateBatch(variants []models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	DeductInventory(variantID uint, quantity int) (int64, error)
	RestoreInventory(variantID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建规格仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) ProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// GetByID 根据 ID 获取规格
func (r *GormProductVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByProduct 根据商品获取规格列表
func (r *GormProductVariantRepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductVariant{}).Where("product_id = ?", productID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var variants []models.ProductVariant
	if err := query.Order("id asc").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormProductVariantRepository) Create(variant *models.ProductVariant) error {
	if variant == nil {
		return errors.New("variant is nil")
	}
	return r.db.Create(variant).Error
}

// CreateBatch 批量创建规格
func (r *GormProductVariantRepository) CreateBatch(variants []models.ProductVariant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.db.Create(&variants).Error
}

// Update 更新规格
func (r *GormProductVariantRepository) Update(variant *models.ProductVariant) error {
	if variant == nil {
		return errors.New("variant is nil")
	}
	return r.db.Save(variant).Error
}

// DeductInventory 扣减规格级库存。
// 条件更新保证计数永不为负：余量不足时不落库，返回影响行数 0。
func (r *GormProductVariantRepository) DeductInventory(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid inventory deduct params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND inventory >= ?", variantID, quantity).
		UpdateColumn("inventory", gorm.Expr("inventory - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreInventory 回补规格级库存（取消订单路径，与扣减等量对称）
func (r *GormProductVariantRepository) RestoreInventory(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid inventory restore params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("inventory", gorm.Expr("inventory + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
