package coupon

import "errors"

// 优惠券子域哨兵错误

var (
	// ErrCouponNotFound 优惠券不存在
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponExists 优惠码已存在
	ErrCouponExists = errors.New("coupon code already exists")

	// ErrCouponInactive 优惠券已停用
	ErrCouponInactive = errors.New("coupon is not active")

	// ErrCouponExpired 不在有效期内（已过期或尚未生效）
	ErrCouponExpired = errors.New("coupon expired or not yet active")

	// ErrCouponExhausted 使用次数已达上限
	ErrCouponExhausted = errors.New("coupon usage limit reached")

	// ErrOrderValueTooLow 未达最低订单金额
	ErrOrderValueTooLow = errors.New("order value below coupon minimum")
)
