package coupon

import (
	"errors"
	"testing"
	"time"
)

func newTestCoupon() *Coupon {
	now := time.Now()
	return &Coupon{
		Code:          "SUMMER10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		MinOrderValue: 100000,
		StartDate:     now.AddDate(0, 0, -7),
		EndDate:       now.AddDate(0, 0, 7),
		UsageLimit:    5,
		IsActive:      true,
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  summer10 "); got != "SUMMER10" {
		t.Errorf("NormalizeCode() = %q, want SUMMER10", got)
	}
}

func TestValidate(t *testing.T) {
	now := time.Now()

	c := newTestCoupon()
	if err := c.Validate(150000, now); err != nil {
		t.Errorf("valid coupon: unexpected error %v", err)
	}

	c = newTestCoupon()
	c.IsActive = false
	if err := c.Validate(150000, now); !errors.Is(err, ErrCouponInactive) {
		t.Errorf("inactive: got %v, want ErrCouponInactive", err)
	}

	c = newTestCoupon()
	c.StartDate = now.AddDate(0, 0, 1)
	if err := c.Validate(150000, now); !errors.Is(err, ErrCouponExpired) {
		t.Errorf("not yet active: got %v, want ErrCouponExpired", err)
	}

	c = newTestCoupon()
	c.EndDate = now.AddDate(0, 0, -2)
	if err := c.Validate(150000, now); !errors.Is(err, ErrCouponExpired) {
		t.Errorf("expired: got %v, want ErrCouponExpired", err)
	}

	c = newTestCoupon()
	c.UsedCount = 5
	if err := c.Validate(150000, now); !errors.Is(err, ErrCouponExhausted) {
		t.Errorf("exhausted: got %v, want ErrCouponExhausted", err)
	}

	c = newTestCoupon()
	if err := c.Validate(50000, now); !errors.Is(err, ErrOrderValueTooLow) {
		t.Errorf("below minimum: got %v, want ErrOrderValueTooLow", err)
	}
}

func TestValidateEndDateInclusive(t *testing.T) {
	// 结束日当天仍然有效，按自然日收尾
	endDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	c := newTestCoupon()
	c.StartDate = endDate.AddDate(0, 0, -30)
	c.EndDate = endDate

	sameDayEvening := time.Date(2026, 8, 31, 22, 0, 0, 0, time.Local)
	if err := c.Validate(150000, sameDayEvening); err != nil {
		t.Errorf("end date evening: unexpected error %v", err)
	}

	nextDay := time.Date(2026, 9, 1, 0, 30, 0, 0, time.Local)
	if err := c.Validate(150000, nextDay); !errors.Is(err, ErrCouponExpired) {
		t.Errorf("day after end date: got %v, want ErrCouponExpired", err)
	}
}

func TestValidateUnlimitedUsage(t *testing.T) {
	c := newTestCoupon()
	c.UsageLimit = 0
	c.UsedCount = 1000

	if err := c.Validate(150000, time.Now()); err != nil {
		t.Errorf("unlimited coupon: unexpected error %v", err)
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	c := newTestCoupon()
	for i := 0; i < 3; i++ {
		_ = c.Validate(150000, time.Now())
	}
	if c.UsedCount != 0 {
		t.Errorf("UsedCount = %d after validations, want 0", c.UsedCount)
	}
}

func TestDiscount(t *testing.T) {
	c := newTestCoupon()
	if got := c.Discount(250000); got != 25000 {
		t.Errorf("percentage discount = %d, want 25000", got)
	}

	c.DiscountType = DiscountFixed
	c.DiscountValue = 30000
	if got := c.Discount(250000); got != 30000 {
		t.Errorf("fixed discount = %d, want 30000", got)
	}
}

func TestExpireIfPastEnd(t *testing.T) {
	now := time.Now()

	c := newTestCoupon()
	if changed := c.ExpireIfPastEnd(now); changed {
		t.Error("coupon inside validity window must not expire")
	}

	c.EndDate = now.AddDate(0, 0, -2)
	if changed := c.ExpireIfPastEnd(now); !changed {
		t.Error("coupon past end date must expire")
	}
	if c.IsActive {
		t.Error("expired coupon must be inactive")
	}

	// 已停用的券重复调用不再报告变化
	if changed := c.ExpireIfPastEnd(now); changed {
		t.Error("already expired coupon must report no change")
	}
}

func TestRecordUsage(t *testing.T) {
	c := newTestCoupon()
	c.RecordUsage(time.Now())
	c.RecordUsage(time.Now())
	if c.UsedCount != 2 {
		t.Errorf("UsedCount = %d, want 2", c.UsedCount)
	}
}
