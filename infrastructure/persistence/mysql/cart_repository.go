package mysql

import (
	"context"
	"errors"

	"bookstore/domain/cart"
	"bookstore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// CartRepository 购物车仓储的 GORM 实现。
// 购物车与行项手工维护，行项采用先删后插策略。
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUserID 按用户查找购物车
func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	db := r.db.WithContext(ctx)

	var cartPO po.CartPO
	if err := db.First(&cartPO, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, err
	}

	var itemPOs []po.CartItemPO
	if err := db.Where("user_id = ?", userID).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return cartPO.ToDomain(itemPOs), nil
}

// Save 持久化购物车
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	cartPO, itemPOs := po.FromCartDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(cartPO).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", c.UserID).Delete(&po.CartItemPO{}).Error; err != nil {
			return err
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ cart.Repository = (*CartRepository)(nil)
