package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore/domain/coupon"
	"bookstore/infrastructure/persistence/mocks"
	apperrors "bookstore/pkg/errors"
)

func seedCoupon(t *testing.T, repo *mocks.CouponRepository, c *coupon.Coupon) {
	t.Helper()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if err := repo.Save(context.Background(), c); err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
}

func activeCoupon() *coupon.Coupon {
	now := time.Now()
	return &coupon.Coupon{
		Code:          "WELCOME",
		DiscountType:  coupon.DiscountFixed,
		DiscountValue: 20000,
		MinOrderValue: 50000,
		StartDate:     now.AddDate(0, 0, -1),
		EndDate:       now.AddDate(0, 0, 30),
		IsActive:      true,
	}
}

func TestValidateComputesDiscount(t *testing.T) {
	repo := mocks.NewCouponRepository()
	seedCoupon(t, repo, activeCoupon())
	svc := NewService(repo)

	result, err := svc.Validate(context.Background(), "welcome", 100000)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Code != "WELCOME" {
		t.Errorf("code = %s, want normalized WELCOME", result.Code)
	}
	if result.DiscountAmount != 20000 {
		t.Errorf("discount = %d, want 20000", result.DiscountAmount)
	}

	// 校验不消耗使用次数
	stored, _ := repo.FindByCode(context.Background(), "WELCOME")
	if stored.UsedCount != 0 {
		t.Errorf("UsedCount = %d after validate, want 0", stored.UsedCount)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := NewService(mocks.NewCouponRepository())

	_, err := svc.Validate(context.Background(), "NOPE", 100000)
	if !apperrors.Is(err, apperrors.CodeCouponNotFound) {
		t.Errorf("got %v, want CodeCouponNotFound", err)
	}
}

func TestValidateLazyExpiryPersisted(t *testing.T) {
	repo := mocks.NewCouponRepository()
	c := activeCoupon()
	c.EndDate = time.Now().AddDate(0, 0, -3)
	seedCoupon(t, repo, c)
	svc := NewService(repo)

	_, err := svc.Validate(context.Background(), "WELCOME", 100000)
	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Errorf("expired coupon: got %v, want CodeConflict", err)
	}
	// 报过期，而非被同请求内的惰性停用掩盖成未启用
	if !errors.Is(err, coupon.ErrCouponExpired) {
		t.Errorf("expired coupon: got %v, want ErrCouponExpired", err)
	}

	stored, _ := repo.FindByCode(context.Background(), "WELCOME")
	if stored.IsActive {
		t.Error("lazy expiry must be persisted")
	}
}

func TestDeactivate(t *testing.T) {
	repo := mocks.NewCouponRepository()
	seedCoupon(t, repo, activeCoupon())
	svc := NewService(repo)

	dto, err := svc.Deactivate(context.Background(), "welcome")
	if err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if dto.IsActive {
		t.Error("coupon must be inactive")
	}

	// 停用立即对校验路径生效
	if _, err := svc.Validate(context.Background(), "WELCOME", 100000); !errors.Is(err, coupon.ErrCouponInactive) {
		t.Errorf("validate after deactivate: got %v, want ErrCouponInactive", err)
	}

	if _, err := svc.Deactivate(context.Background(), "WELCOME"); !apperrors.Is(err, apperrors.CodeConflict) {
		t.Errorf("repeated deactivate: got %v, want CodeConflict", err)
	}
	if _, err := svc.Deactivate(context.Background(), "NOPE"); !apperrors.Is(err, apperrors.CodeCouponNotFound) {
		t.Errorf("unknown code: got %v, want CodeCouponNotFound", err)
	}
}

func TestRecordUsage(t *testing.T) {
	repo := mocks.NewCouponRepository()
	seedCoupon(t, repo, activeCoupon())
	svc := NewService(repo)

	svc.RecordUsage(context.Background(), "welcome")
	svc.RecordUsage(context.Background(), "WELCOME")

	stored, _ := repo.FindByCode(context.Background(), "WELCOME")
	if stored.UsedCount != 2 {
		t.Errorf("UsedCount = %d, want 2", stored.UsedCount)
	}

	// 查不到的优惠码只记日志，不恐慌不报错
	svc.RecordUsage(context.Background(), "GHOST")
}

func TestCreate(t *testing.T) {
	repo := mocks.NewCouponRepository()
	svc := NewService(repo)

	dto, err := svc.Create(context.Background(), &CreateCouponRequest{
		Code:          "newyear25",
		DiscountType:  "percentage",
		DiscountValue: 25,
		StartDate:     "2026-01-01",
		EndDate:       "2026-01-31",
		UsageLimit:    100,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if dto.Code != "NEWYEAR25" {
		t.Errorf("code = %s, want NEWYEAR25", dto.Code)
	}
	if !dto.IsActive {
		t.Error("new coupon must be active")
	}
}

func TestCreateDuplicate(t *testing.T) {
	repo := mocks.NewCouponRepository()
	seedCoupon(t, repo, activeCoupon())
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), &CreateCouponRequest{
		Code:          "welcome",
		DiscountType:  "fixed",
		DiscountValue: 1000,
		StartDate:     "2026-01-01",
		EndDate:       "2026-12-31",
	})
	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Errorf("duplicate code: got %v, want CodeConflict", err)
	}
}

func TestCreateInvalidDates(t *testing.T) {
	svc := NewService(mocks.NewCouponRepository())

	_, err := svc.Create(context.Background(), &CreateCouponRequest{
		Code:          "BAD",
		DiscountType:  "fixed",
		DiscountValue: 1000,
		StartDate:     "2026-12-31",
		EndDate:       "2026-01-01",
	})
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("inverted dates: got %v, want CodeValidation", err)
	}
}

func TestListActiveSkipsExpired(t *testing.T) {
	repo := mocks.NewCouponRepository()
	seedCoupon(t, repo, activeCoupon())

	expired := activeCoupon()
	expired.Code = "OLD"
	expired.EndDate = time.Now().AddDate(0, 0, -10)
	seedCoupon(t, repo, expired)

	svc := NewService(repo)
	dtos, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(dtos) != 1 || dtos[0].Code != "WELCOME" {
		t.Errorf("active coupons = %+v, want only WELCOME", dtos)
	}

	stored, _ := repo.FindByCode(context.Background(), "OLD")
	if stored.IsActive {
		t.Error("expired coupon must be deactivated during listing")
	}
}
