package po

import (
	"time"

	"bookstore/domain/coupon"
)

// CouponPO 优惠券持久化对象
type CouponPO struct {
	Code          string `gorm:"primaryKey;size:32"`
	Description   string `gorm:"size:255"`
	DiscountType  string `gorm:"size:16;not null"`
	DiscountValue int64  `gorm:"not null"`
	MinOrderValue int64  `gorm:"not null;default:0"`
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    int  `gorm:"not null;default:0"`
	UsedCount     int  `gorm:"not null;default:0"`
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName 指定表名
func (CouponPO) TableName() string {
	return "coupons"
}

// FromCouponDomain 领域模型转持久化对象
func FromCouponDomain(c *coupon.Coupon) *CouponPO {
	return &CouponPO{
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		MinOrderValue: c.MinOrderValue,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToDomain 持久化对象转领域模型
func (p *CouponPO) ToDomain() *coupon.Coupon {
	return &coupon.Coupon{
		Code:          p.Code,
		Description:   p.Description,
		DiscountType:  coupon.DiscountType(p.DiscountType),
		DiscountValue: p.DiscountValue,
		MinOrderValue: p.MinOrderValue,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		UsageLimit:    p.UsageLimit,
		UsedCount:     p.UsedCount,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
