package order

import "errors"

// 订单子域哨兵错误，供 errors.Is() 判断，不携带 HTTP 语义

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrderItems 订单项为空
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrInvalidQuantity 订单项数量必须为正
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNegativePrice 价格字段不可为负
	ErrNegativePrice = errors.New("price must be non-negative")

	// ErrInvalidStatus 未知的订单状态值
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrCannotCancelPaidOrder 已支付订单不可取消
	ErrCannotCancelPaidOrder = errors.New("cannot cancel a paid order")

	// ErrOrderDelivered 已妥投订单不可执行该操作
	ErrOrderDelivered = errors.New("order already delivered")

	// ErrOrderClosed 已取消或已退货订单不可再变更
	ErrOrderClosed = errors.New("order already cancelled or returned")

	// ErrAddressFrozen 交付承运后地址冻结
	ErrAddressFrozen = errors.New("address is frozen once the order is handed to a carrier")

	// ErrNotOrderOwner 非订单归属人且非管理员
	ErrNotOrderOwner = errors.New("no permission to access this order")
)
