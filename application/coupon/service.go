/*
Package coupon - 优惠券应用服务

校验路径是纯读（惰性过期除外），使用计数只随订单创建递增。
惰性过期在读到已过结束日期的券时显式停用并持久化。
*/
package coupon

import (
	"context"
	"errors"
	"time"

	"bookstore/domain/coupon"
	apperrors "bookstore/pkg/errors"
	"bookstore/pkg/logger"

	"go.uber.org/zap"
)

// ValidationResult 校验结果
type ValidationResult struct {
	Code           string `json:"code"`
	Description    string `json:"description"`
	DiscountType   string `json:"discountType"`
	DiscountValue  int64  `json:"discountValue"`
	DiscountAmount int64  `json:"discountAmount"`
}

// CreateCouponRequest 创建优惠券请求
type CreateCouponRequest struct {
	Code          string `json:"code" binding:"required"`
	Description   string `json:"description"`
	DiscountType  string `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue int64  `json:"discountValue" binding:"required,gt=0"`
	MinOrderValue int64  `json:"minOrderValue" binding:"gte=0"`
	StartDate     string `json:"startDate" binding:"required"`
	EndDate       string `json:"endDate" binding:"required"`
	UsageLimit    int    `json:"usageLimit" binding:"gte=0"`
}

// CouponDTO 优惠券响应
type CouponDTO struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	DiscountType  string `json:"discountType"`
	DiscountValue int64  `json:"discountValue"`
	MinOrderValue int64  `json:"minOrderValue"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	UsageLimit    int    `json:"usageLimit"`
	UsedCount     int    `json:"usedCount"`
	IsActive      bool   `json:"isActive"`
}

// Service 优惠券应用服务
type Service struct {
	coupons coupon.Repository
}

// NewService 创建优惠券应用服务
func NewService(coupons coupon.Repository) *Service {
	return &Service{coupons: coupons}
}

// Validate 校验优惠码并计算折扣金额，不修改使用计数。
// 已过结束日期的券在此处惰性停用并持久化。
func (s *Service) Validate(ctx context.Context, code string, orderValue int64) (*ValidationResult, error) {
	c, err := s.coupons.FindByCode(ctx, coupon.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) {
			return nil, apperrors.FromDomainError(err)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load coupon")
	}

	// 先按停用前的状态校验，刚过期的券报过期而非未启用
	now := time.Now()
	validationErr := c.Validate(orderValue, now)

	if c.ExpireIfPastEnd(now) {
		if err := s.coupons.Save(ctx, c); err != nil {
			logger.Warn("failed to persist lazy coupon expiry",
				zap.String("code", c.Code), zap.Error(err))
		}
	}

	if validationErr != nil {
		return nil, apperrors.FromDomainError(validationErr)
	}

	return &ValidationResult{
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   string(c.DiscountType),
		DiscountValue:  c.DiscountValue,
		DiscountAmount: c.Discount(orderValue),
	}, nil
}

// RecordUsage 使用计数 +1，随订单创建调用。
// 优惠码查不到时记日志并跳过，不阻断下单。
func (s *Service) RecordUsage(ctx context.Context, code string) {
	normalized := coupon.NormalizeCode(code)
	c, err := s.coupons.FindByCode(ctx, normalized)
	if err != nil {
		logger.Warn("coupon usage not recorded, lookup failed",
			zap.String("code", normalized), zap.Error(err))
		return
	}

	c.RecordUsage(time.Now())
	if err := s.coupons.Save(ctx, c); err != nil {
		logger.Warn("failed to persist coupon usage",
			zap.String("code", normalized), zap.Error(err))
	}
}

// Create 管理端创建优惠券，优惠码大写归一化后唯一
func (s *Service) Create(ctx context.Context, req *CreateCouponRequest) (*CouponDTO, error) {
	code := coupon.NormalizeCode(req.Code)

	if _, err := s.coupons.FindByCode(ctx, code); err == nil {
		return nil, apperrors.FromDomainError(coupon.ErrCouponExists)
	} else if !errors.Is(err, coupon.ErrCouponNotFound) {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to check coupon code")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("invalid startDate, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("invalid endDate, expected YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.Validation("endDate must not be before startDate")
	}

	now := time.Now()
	c := &coupon.Coupon{
		Code:          code,
		Description:   req.Description,
		DiscountType:  coupon.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		StartDate:     startDate,
		EndDate:       endDate,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save coupon")
	}

	logger.Info("coupon created", zap.String("code", code))
	return toCouponDTO(c), nil
}

// Deactivate 管理端下架优惠券，停用后校验路径立即拒绝
func (s *Service) Deactivate(ctx context.Context, code string) (*CouponDTO, error) {
	normalized := coupon.NormalizeCode(code)
	c, err := s.coupons.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) {
			return nil, apperrors.FromDomainError(err)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to load coupon")
	}

	if err := c.Deactivate(time.Now()); err != nil {
		return nil, apperrors.FromDomainError(err)
	}
	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save coupon")
	}

	logger.Info("coupon deactivated", zap.String("code", normalized))
	return toCouponDTO(c), nil
}

// ListActive 查询启用中的优惠券，顺带惰性过期已到期的券
func (s *Service) ListActive(ctx context.Context) ([]*CouponDTO, error) {
	coupons, err := s.coupons.FindActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list coupons")
	}

	now := time.Now()
	result := make([]*CouponDTO, 0, len(coupons))
	for _, c := range coupons {
		if c.ExpireIfPastEnd(now) {
			if err := s.coupons.Save(ctx, c); err != nil {
				logger.Warn("failed to persist lazy coupon expiry",
					zap.String("code", c.Code), zap.Error(err))
			}
			continue
		}
		result = append(result, toCouponDTO(c))
	}
	return result, nil
}

func toCouponDTO(c *coupon.Coupon) *CouponDTO {
	return &CouponDTO{
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		MinOrderValue: c.MinOrderValue,
		StartDate:     c.StartDate.Format("2006-01-02"),
		EndDate:       c.EndDate.Format("2006-01-02"),
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		IsActive:      c.IsActive,
	}
}
