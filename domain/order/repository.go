package order

import "context"

// Repository 订单仓储接口
type Repository interface {
	// Save 保存或更新订单聚合根
	Save(ctx context.Context, o *Order) error

	// FindByID 按 ID 查找订单，未找到返回 ErrOrderNotFound
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByUserID 按用户查找订单，按创建时间倒序
	FindByUserID(ctx context.Context, userID string) ([]*Order, error)

	// FindAll 管理端全量查询，按创建时间倒序
	FindAll(ctx context.Context) ([]*Order, error)

	// Remove 物理删除订单（仅支付放弃清理路径使用）
	Remove(ctx context.Context, id string) error
}
