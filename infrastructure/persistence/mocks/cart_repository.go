package mocks

import (
	"context"
	"sync"

	"bookstore/domain/cart"
)

// CartRepository 内存购物车仓储
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

// NewCartRepository 创建内存购物车仓储
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]*cart.Cart)}
}

// FindByUserID 按用户查找购物车
func (r *CartRepository) FindByUserID(_ context.Context, userID string) (*cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return cloneCart(c), nil
}

// Save 持久化购物车
func (r *CartRepository) Save(_ context.Context, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.UserID] = cloneCart(c)
	return nil
}

func cloneCart(c *cart.Cart) *cart.Cart {
	clone := *c
	clone.Items = append([]cart.CartItem(nil), c.Items...)
	return &clone
}

var _ cart.Repository = (*CartRepository)(nil)
