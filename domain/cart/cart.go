// Package cart - 购物车实体。购物车自身的增删改由外部系统负责，
// 本核心只在支付结算后做已购项的过滤移除。
package cart

import (
	"context"
	"errors"
	"time"
)

// ErrCartNotFound 购物车不存在
var ErrCartNotFound = errors.New("cart not found")

// CartItem 购物车行项
type CartItem struct {
	BookID    string
	Title     string
	Image     string
	UnitPrice int64
	Quantity  int
}

// Cart 用户购物车
type Cart struct {
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemoveItems 移除命中给定图书 ID 的行项，返回移除数量
func (c *Cart) RemoveItems(bookIDs []string, now time.Time) int {
	purchased := make(map[string]struct{}, len(bookIDs))
	for _, id := range bookIDs {
		purchased[id] = struct{}{}
	}

	kept := c.Items[:0]
	removed := 0
	for _, item := range c.Items {
		if _, ok := purchased[item.BookID]; ok {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	if removed > 0 {
		c.UpdatedAt = now
	}
	return removed
}

// Repository 购物车仓储接口
type Repository interface {
	// FindByUserID 按用户查找购物车，未找到返回 ErrCartNotFound
	FindByUserID(ctx context.Context, userID string) (*Cart, error)

	// Save 持久化购物车
	Save(ctx context.Context, c *Cart) error
}
