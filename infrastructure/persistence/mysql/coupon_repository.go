package mysql

import (
	"context"
	"errors"

	"bookstore/domain/coupon"
	"bookstore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// CouponRepository 优惠券仓储的 GORM 实现
type CouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓储
func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Save 保存或更新优惠券
func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	return r.db.WithContext(ctx).Save(po.FromCouponDomain(c)).Error
}

// FindByCode 按优惠码查找
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var couponPO po.CouponPO
	if err := r.db.WithContext(ctx).First(&couponPO, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coupon.ErrCouponNotFound
		}
		return nil, err
	}
	return couponPO.ToDomain(), nil
}

// FindActive 查询启用中的优惠券，按创建时间倒序
func (r *CouponRepository) FindActive(ctx context.Context) ([]*coupon.Coupon, error) {
	var couponPOs []po.CouponPO
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&couponPOs).Error; err != nil {
		return nil, err
	}

	coupons := make([]*coupon.Coupon, len(couponPOs))
	for i, couponPO := range couponPOs {
		coupons[i] = couponPO.ToDomain()
	}
	return coupons, nil
}

var _ coupon.Repository = (*CouponRepository)(nil)
