// Package cart - 购物车对账。线上支付结算后移除已购项，
// 购物车缺失或清理失败不影响支付主流程。
package cart

import (
	"context"
	"errors"
	"time"

	"bookstore/domain/cart"
	"bookstore/pkg/logger"

	"go.uber.org/zap"
)

// Reconciler 购物车对账器
type Reconciler struct {
	carts cart.Repository
}

// NewReconciler 创建购物车对账器
func NewReconciler(carts cart.Repository) *Reconciler {
	return &Reconciler{carts: carts}
}

// RemoveSettledItems 从用户购物车移除已结算的图书。
// 购物车不存在视为无事可做，静默返回。
func (r *Reconciler) RemoveSettledItems(ctx context.Context, userID string, bookIDs []string) error {
	c, err := r.carts.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil
		}
		return err
	}

	removed := c.RemoveItems(bookIDs, time.Now())
	if removed == 0 {
		return nil
	}

	if err := r.carts.Save(ctx, c); err != nil {
		return err
	}

	logger.Debug("cart reconciled after settlement",
		zap.String("user_id", userID),
		zap.Int("removed", removed))
	return nil
}
