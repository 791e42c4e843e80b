package main

import (
	"fmt"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/config"
	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/logger"
	"github.com/Theloho/live-commerce-sub002/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品（直播间常见品类，价格均为韩元）
	products := []models.Product{
		{
			ProductNo: "LIVE-TEE-001",
			Title:     "라이브 특가 베이직 티셔츠",
			Thumbnail: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
			}),
			PriceAmount: models.NewMoneyFromInt(19000),
			HasVariants: true,
			IsActive:    true,
			Variants: []models.ProductVariant{
				{
					Options:     models.JSON(map[string]interface{}{"색상": "화이트", "사이즈": "M"}),
					PriceAmount: models.NewMoneyFromInt(19000),
					Inventory:   30,
					IsActive:    true,
				},
				{
					Options:     models.JSON(map[string]interface{}{"색상": "화이트", "사이즈": "L"}),
					PriceAmount: models.NewMoneyFromInt(19000),
					Inventory:   30,
					IsActive:    true,
				},
				{
					Options:     models.JSON(map[string]interface{}{"색상": "블랙", "사이즈": "M"}),
					PriceAmount: models.NewMoneyFromInt(21000),
					Inventory:   20,
					IsActive:    true,
				},
			},
		},
		{
			ProductNo: "LIVE-SNACK-002",
			Title:     "수제 약과 선물세트",
			Thumbnail: "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?w=800",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1558961363-fa8fdf82db35?w=800",
			}),
			PriceAmount: models.NewMoneyFromInt(25000),
			Inventory:   100,
			IsActive:    true,
		},
		{
			ProductNo: "LIVE-COSM-003",
			Title:     "수분 진정 크림 50ml",
			Thumbnail: "https://images.unsplash.com/photo-1556228720-195a672e8a03?w=800",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1556228720-195a672e8a03?w=800",
			}),
			PriceAmount: models.NewMoneyFromInt(32000),
			Inventory:   50,
			IsActive:    true,
		},
		{
			ProductNo:   "LIVE-HOME-004",
			Title:       "주방 실리콘 집게 세트（판매 종료）",
			Thumbnail:   "https://images.unsplash.com/photo-1556911220-bff31c812dba?w=800",
			PriceAmount: models.NewMoneyFromInt(9000),
			Inventory:   0,
			IsActive:    false,
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("product_no = ?", prod.ProductNo).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.ProductNo, err)
			} else {
				stdLog.Printf("Created product: %s", prod.ProductNo)
			}
		} else {
			existing.Title = prod.Title
			existing.Thumbnail = prod.Thumbnail
			existing.Images = prod.Images
			existing.PriceAmount = prod.PriceAmount
			existing.Inventory = prod.Inventory
			existing.HasVariants = prod.HasVariants
			existing.IsActive = prod.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.ProductNo, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.ProductNo)
			}
		}
	}

	// 添加优惠券
	now := time.Now()
	couponStart := now.Add(-24 * time.Hour)
	couponEnd := now.AddDate(0, 1, 0)
	coupons := []models.Coupon{
		{
			Code:         "LIVE5000",
			Type:         constants.CouponTypeFixed,
			Value:        models.NewMoneyFromInt(5000),
			MinAmount:    models.NewMoneyFromInt(30000),
			UsageLimit:   200,
			PerUserLimit: 1,
			StartsAt:     &couponStart,
			EndsAt:       &couponEnd,
			IsActive:     true,
		},
		{
			Code:         "FIRSTLIVE10",
			Type:         constants.CouponTypePercent,
			Value:        models.NewMoneyFromInt(10),
			MaxDiscount:  models.NewMoneyFromInt(8000),
			PerUserLimit: 1,
			StartsAt:     &couponStart,
			EndsAt:       &couponEnd,
			IsActive:     true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 添加演示用户（注册身份；匿名社交买家不入库）
	users := []models.User{
		{
			Email:       "buyer@example.com",
			DisplayName: "데모 구매자",
			Phone:       "010-1234-5678",
			Status:      "active",
		},
	}

	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			} else {
				stdLog.Printf("Created user: %s", user.Email)
			}
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Products (1 with variants)")
	fmt.Println("- 2 Coupons")
	fmt.Println("- 1 Demo user")
}
