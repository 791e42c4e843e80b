package service

import (
	"strings"

	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
	variantRepo repository.ProductVariantRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// GetProduct 获取商品详情（含规格）
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if product == nil {
		return nil, ErrProductNotAvailable
	}
	return product, nil
}

// ListProducts 获取商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	ProductNo string
	Title     string
	Thumbnail string
	Images    []string
	Price     int64
	Inventory int
	Variants  []CreateVariantInput
}

// CreateVariantInput 创建规格输入
type CreateVariantInput struct {
	Options   models.JSON
	Price     int64
	Inventory int
}

// CreateProduct 创建商品及其规格
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.ProductNo) == "" {
		return nil, ErrProductNotAvailable
	}
	if input.Price <= 0 {
		return nil, ErrProductPriceInvalid
	}

	product := &models.Product{
		ProductNo:   strings.TrimSpace(input.ProductNo),
		Title:       strings.TrimSpace(input.Title),
		Thumbnail:   strings.TrimSpace(input.Thumbnail),
		Images:      models.StringArray(input.Images),
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(input.Price)),
		Inventory:   input.Inventory,
		HasVariants: len(input.Variants) > 0,
		IsActive:    true,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(product); err != nil {
			return err
		}
		if len(input.Variants) == 0 {
			return nil
		}
		variants := make([]models.ProductVariant, 0, len(input.Variants))
		for _, v := range input.Variants {
			price := v.Price
			if price <= 0 {
				price = input.Price
			}
			variants = append(variants, models.ProductVariant{
				ProductID:   product.ID,
				Options:     v.Options,
				PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
				Inventory:   v.Inventory,
				IsActive:    true,
			})
		}
		return s.variantRepo.WithTx(tx).CreateBatch(variants)
	})
	if err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(product.ID)
}
