package mysql

import (
	"context"
	"errors"

	"bookstore/domain/order"
	"bookstore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderRepository 订单仓储的 GORM 实现。
// 订单与订单项手工维护，不使用 GORM 关联。
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save 保存订单（创建或更新）。订单项采用先删后插策略。
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(orderPO).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", o.ID).Delete(&po.OrderItemPO{}).Error; err != nil {
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

// FindByID 按 ID 查找订单
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.db.WithContext(ctx)

	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}

	// 手工查询订单项，保持聚合边界清晰
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByUserID 按用户查找订单，按创建时间倒序
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	db := r.db.WithContext(ctx)

	var orderPOs []po.OrderPO
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	return r.attachItems(db, orderPOs)
}

// FindAll 管理端全量查询，按创建时间倒序
func (r *OrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	db := r.db.WithContext(ctx)

	var orderPOs []po.OrderPO
	if err := db.Order("created_at DESC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	return r.attachItems(db, orderPOs)
}

// Remove 物理删除订单及其订单项（支付放弃清理路径）
func (r *OrderRepository) Remove(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&po.OrderPO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return order.ErrOrderNotFound
		}
		return nil
	})
}

func (r *OrderRepository) attachItems(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	orders := make([]*order.Order, len(orderPOs))
	for i, orderPO := range orderPOs {
		var itemPOs []po.OrderItemPO
		if err := db.Where("order_id = ?", orderPO.ID).Find(&itemPOs).Error; err != nil {
			return nil, err
		}
		orders[i] = orderPO.ToDomain(itemPOs)
	}
	return orders, nil
}

// 编译期接口实现检查
var _ order.Repository = (*OrderRepository)(nil)
