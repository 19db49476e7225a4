/*
Package coupon - 优惠券子域

有效期判定将结束日期按自然日收尾（当天 23:59:59.999 之前有效）。
过期是显式的状态转换 ExpireIfPastEnd，由读路径调用并持久化，
而不是在校验过程中隐式翻转全局标记。
*/
package coupon

import (
	"strings"
	"time"
)

// DiscountType 折扣类型
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon 优惠券实体
type Coupon struct {
	Code          string // 大写归一化，唯一
	Description   string
	DiscountType  DiscountType
	DiscountValue int64
	MinOrderValue int64
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    int // 0 = 不限
	UsedCount     int // 单调递增，取消订单不回退
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeCode 优惠码大写归一化
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// endOfDay 结束日期按自然日收尾
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ExpireIfPastEnd 结束日期已过则停用，返回是否发生了状态变化。
// 调用方负责在返回 true 时持久化。
func (c *Coupon) ExpireIfPastEnd(now time.Time) bool {
	if c.IsActive && now.After(endOfDay(c.EndDate)) {
		c.IsActive = false
		c.UpdatedAt = now
		return true
	}
	return false
}

// Validate 校验优惠券能否应用于给定订单金额。
// 纯校验，不修改 UsedCount；可被结算页反复调用。
func (c *Coupon) Validate(orderValue int64, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.Before(c.StartDate) || now.After(endOfDay(c.EndDate)) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if orderValue < c.MinOrderValue {
		return ErrOrderValueTooLow
	}
	return nil
}

// Discount 计算折扣金额
func (c *Coupon) Discount(orderValue int64) int64 {
	if c.DiscountType == DiscountPercentage {
		return orderValue * c.DiscountValue / 100
	}
	return c.DiscountValue
}

// RecordUsage 使用计数 +1，随订单创建调用一次，之后不再变更
func (c *Coupon) RecordUsage(now time.Time) {
	c.UsedCount++
	c.UpdatedAt = now
}

// Deactivate 管理端显式停用，已停用的券重复停用报错
func (c *Coupon) Deactivate(now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	c.IsActive = false
	c.UpdatedAt = now
	return nil
}
