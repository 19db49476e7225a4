package coupon

import "context"

// Repository 优惠券仓储接口
type Repository interface {
	// Save 保存或更新优惠券
	Save(ctx context.Context, c *Coupon) error

	// FindByCode 按归一化后的优惠码查找，未找到返回 ErrCouponNotFound
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindActive 查询所有启用中的优惠券，按创建时间倒序
	FindActive(ctx context.Context) ([]*Coupon, error)
}
