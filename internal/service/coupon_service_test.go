package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCouponServiceTest(t *testing.T, name string) (*CouponService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_service_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("migrate coupon models failed: %v", err)
	}
	svc := NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
	)
	return svc, db
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	// GORM treats a zero-value IsActive as unset because of its default:true
	// tag: the insert omits the column and Create writes true back into the
	// struct. Capture the declared value and persist it explicitly.
	active := coupon.IsActive
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	if err := db.Model(coupon).Update("is_active", active).Error; err != nil {
		t.Fatalf("set coupon is_active failed: %v", err)
	}
	coupon.IsActive = active
	return coupon
}

func TestApplyCouponFixedAmount(t *testing.T) {
	svc, db := setupCouponServiceTest(t, "fixed")
	createTestCoupon(t, db, &models.Coupon{
		Code:      "LIVE5000",
		Type:      constants.CouponTypeFixed,
		Value:     models.NewMoneyFromInt(5000),
		MinAmount: models.NewMoneyFromInt(30000),
		IsActive:  true,
	})

	discount, coupon, err := svc.ApplyCoupon(models.NewMoneyFromInt(30000), "LIVE5000", 1)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if discount.Int() != 5000 {
		t.Fatalf("discount want 5000 got %d", discount.Int())
	}
	if coupon == nil || coupon.Code != "LIVE5000" {
		t.Fatalf("applied coupon missing: %+v", coupon)
	}

	if _, _, err := svc.ApplyCoupon(models.NewMoneyFromInt(29999), "LIVE5000", 1); !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("below min amount want ErrCouponMinAmount got %v", err)
	}
}

func TestApplyCouponPercentageWithCap(t *testing.T) {
	svc, db := setupCouponServiceTest(t, "percent")
	createTestCoupon(t, db, &models.Coupon{
		Code:        "FIRSTLIVE10",
		Type:        constants.CouponTypePercent,
		Value:       models.NewMoneyFromInt(10),
		MaxDiscount: models.NewMoneyFromInt(8000),
		IsActive:    true,
	})

	discount, _, err := svc.ApplyCoupon(models.NewMoneyFromInt(50000), "FIRSTLIVE10", 1)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if discount.Int() != 5000 {
		t.Fatalf("10%% of 50000 want 5000 got %d", discount.Int())
	}

	discount, _, err = svc.ApplyCoupon(models.NewMoneyFromInt(200000), "FIRSTLIVE10", 1)
	if err != nil {
		t.Fatalf("apply capped coupon failed: %v", err)
	}
	if discount.Int() != 8000 {
		t.Fatalf("capped discount want 8000 got %d", discount.Int())
	}
}

func TestApplyCouponDiscountNeverExceedsSubtotal(t *testing.T) {
	svc, db := setupCouponServiceTest(t, "clamp")
	createTestCoupon(t, db, &models.Coupon{
		Code:     "BIG",
		Type:     constants.CouponTypeFixed,
		Value:    models.NewMoneyFromInt(50000),
		IsActive: true,
	})

	discount, _, err := svc.ApplyCoupon(models.NewMoneyFromInt(12000), "BIG", 1)
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if discount.Int() != 12000 {
		t.Fatalf("discount should clamp to subtotal 12000, got %d", discount.Int())
	}
}

func TestApplyCouponValidationWindowAndLimits(t *testing.T) {
	svc, db := setupCouponServiceTest(t, "limits")
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	longPast := now.Add(-48 * time.Hour)

	createTestCoupon(t, db, &models.Coupon{Code: "INACTIVE", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromInt(1000), IsActive: false})
	createTestCoupon(t, db, &models.Coupon{Code: "NOTYET", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromInt(1000), StartsAt: &future, IsActive: true})
	createTestCoupon(t, db, &models.Coupon{Code: "EXPIRED", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromInt(1000), StartsAt: &longPast, EndsAt: &past, IsActive: true})
	createTestCoupon(t, db, &models.Coupon{Code: "USEDUP", Type: constants.CouponTypeFixed, Value: models.NewMoneyFromInt(1000), UsageLimit: 2, UsedCount: 2, IsActive: true})

	subtotal := models.NewMoneyFromInt(10000)
	if _, _, err := svc.ApplyCoupon(subtotal, "MISSING", 1); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("missing coupon want ErrCouponNotFound got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(subtotal, "INACTIVE", 1); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("inactive coupon want ErrCouponInactive got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(subtotal, "NOTYET", 1); !errors.Is(err, ErrCouponNotStarted) {
		t.Fatalf("future coupon want ErrCouponNotStarted got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(subtotal, "EXPIRED", 1); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expired coupon want ErrCouponExpired got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(subtotal, "USEDUP", 1); !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("used up coupon want ErrCouponUsageLimit got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(subtotal, "  ", 1); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("blank code want ErrCouponInvalid got %v", err)
	}
}

func TestApplyCouponPerUserLimit(t *testing.T) {
	svc, db := setupCouponServiceTest(t, "per_user")
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:         "ONCE",
		Type:         constants.CouponTypeFixed,
		Value:        models.NewMoneyFromInt(1000),
		PerUserLimit: 1,
		IsActive:     true,
	})
	if err := db.Create(&models.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         1,
		OrderID:        10,
		DiscountAmount: models.NewMoneyFromInt(1000),
	}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	if _, _, err := svc.ApplyCoupon(models.NewMoneyFromInt(10000), "ONCE", 1); !errors.Is(err, ErrCouponPerUserLimit) {
		t.Fatalf("per user limit want ErrCouponPerUserLimit got %v", err)
	}
	if _, _, err := svc.ApplyCoupon(models.NewMoneyFromInt(10000), "ONCE", 2); err != nil {
		t.Fatalf("other user should pass per user limit, got %v", err)
	}
}

func TestApplyUsageTxIsIdempotent(t *testing.T) {
	svc, db := setupCouponServiceTest(t, "usage_tx")
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:     "TRACK",
		Type:     constants.CouponTypeFixed,
		Value:    models.NewMoneyFromInt(1000),
		IsActive: true,
	})

	applied, err := svc.ApplyUsageTx(db, coupon.ID, 1, 100, models.NewMoneyFromInt(1000))
	if err != nil {
		t.Fatalf("first usage failed: %v", err)
	}
	if !applied {
		t.Fatalf("first usage should apply")
	}

	applied, err = svc.ApplyUsageTx(db, coupon.ID, 1, 101, models.NewMoneyFromInt(1000))
	if err != nil {
		t.Fatalf("second usage should not error: %v", err)
	}
	if applied {
		t.Fatalf("second usage for same user should be a no-op")
	}

	var gotCoupon models.Coupon
	if err := db.First(&gotCoupon, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if gotCoupon.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", gotCoupon.UsedCount)
	}

	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usage failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("usage rows want 1 got %d", usageCount)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	if !isDuplicateKeyError(gorm.ErrDuplicatedKey) {
		t.Fatalf("gorm duplicated key should match")
	}
	if !isDuplicateKeyError(errors.New(`UNIQUE constraint failed: coupon_usages.coupon_id`)) {
		t.Fatalf("sqlite unique constraint message should match")
	}
	if !isDuplicateKeyError(errors.New(`duplicate key value violates unique constraint "idx_coupon_user"`)) {
		t.Fatalf("postgres duplicate key message should match")
	}
	if isDuplicateKeyError(errors.New("connection refused")) {
		t.Fatalf("unrelated error should not match")
	}
	if isDuplicateKeyError(nil) {
		t.Fatalf("nil error should not match")
	}
}
