package mocks

import (
	"context"
	"sort"
	"sync"

	"bookstore/domain/coupon"
)

// CouponRepository 内存优惠券仓储
type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*coupon.Coupon
}

// NewCouponRepository 创建内存优惠券仓储
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{coupons: make(map[string]*coupon.Coupon)}
}

// Save 保存或更新优惠券
func (r *CouponRepository) Save(_ context.Context, c *coupon.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *c
	r.coupons[c.Code] = &clone
	return nil
}

// FindByCode 按优惠码查找
func (r *CouponRepository) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[code]
	if !ok {
		return nil, coupon.ErrCouponNotFound
	}
	clone := *c
	return &clone, nil
}

// FindActive 查询启用中的优惠券，按创建时间倒序
func (r *CouponRepository) FindActive(_ context.Context) ([]*coupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*coupon.Coupon
	for _, c := range r.coupons {
		if c.IsActive {
			clone := *c
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

var _ coupon.Repository = (*CouponRepository)(nil)
