// Package mocks - 内存仓储实现，用于本地运行与测试。
// 所有实现均以互斥锁保护，存取时做拷贝避免外部别名修改。
package mocks

import (
	"context"
	"sort"
	"sync"

	"bookstore/domain/order"
)

// OrderRepository 内存订单仓储
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
}

// NewOrderRepository 创建内存订单仓储
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*order.Order)}
}

// Save 保存订单
func (r *OrderRepository) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

// FindByID 按 ID 查找订单
func (r *OrderRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

// FindByUserID 按用户查找订单，按创建时间倒序
func (r *OrderRepository) FindByUserID(_ context.Context, userID string) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*order.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, cloneOrder(o))
		}
	}
	sortByCreatedAtDesc(result)
	return result, nil
}

// FindAll 全量查询，按创建时间倒序
func (r *OrderRepository) FindAll(_ context.Context) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		result = append(result, cloneOrder(o))
	}
	sortByCreatedAtDesc(result)
	return result, nil
}

// Remove 物理删除订单
func (r *OrderRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func cloneOrder(o *order.Order) *order.Order {
	clone := *o
	clone.Items = append([]order.OrderItem(nil), o.Items...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		clone.PaidAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		clone.DeliveredAt = &t
	}
	if o.PaymentResult != nil {
		pr := *o.PaymentResult
		clone.PaymentResult = &pr
	}
	if o.CouponApplied != nil {
		ca := *o.CouponApplied
		clone.CouponApplied = &ca
	}
	return &clone
}

func sortByCreatedAtDesc(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

var _ order.Repository = (*OrderRepository)(nil)
