/*
Package order - 订单子域

订单是本系统的聚合根，持有快照化的订单项、收货地址、价格
明细与支付/物流两个维度的状态。生命周期由状态机方法驱动，
库存增减策略由应用层根据 StockDebited 标记执行。

不变式:
1. IsPaid == true 时 PaymentResult 必定存在
2. Status == delivered 时 IsDelivered 必定为 true
3. StockDebited 在首次进入 confirmed 时置位，扣减库存至多一次
4. 取消/退货回补库存至多一次，且仅当 StockDebited 为 true
*/
package order

import (
	"time"

	"github.com/google/uuid"
)

// Status 订单状态（持久化与线上可见的枚举值）
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipping   Status = "shipping"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusReturned   Status = "returned"
	StatusCancelled  Status = "cancelled"
)

// Valid 校验状态值是否为已知枚举
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipping,
		StatusShipped, StatusDelivered, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// Terminal 是否为终态
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusReturned
}

// handedToCarrier 地址冻结判定：shipping 及之后地址不可修改
func (s Status) handedToCarrier() bool {
	switch s {
	case StatusShipping, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentMoMo PaymentMethod = "MOMO"
)

// OrderItem 订单项，标题/图片/单价在下单时快照，不再回查目录
type OrderItem struct {
	BookID    string
	Title     string
	Image     string
	UnitPrice int64 // VND
	Quantity  int
}

// Address 收货地址
type Address struct {
	FullName string
	Phone    string
	Address  string
	City     string
	District string
	Ward     string
}

// CouponApplied 下单时应用的优惠券快照，一经写入不再变更
type CouponApplied struct {
	Code           string
	DiscountAmount int64
}

// PaymentResult 网关回执（COD 确认时为管理端填充的占位回执）
type PaymentResult struct {
	ID         string
	Status     string
	UpdateTime string
	PayerEmail string
}

// Order 订单聚合根
type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	CouponApplied   *CouponApplied
	ItemsPrice      int64
	ShippingPrice   int64
	TotalPrice      int64 // 信任下单方传入，不做服务端重算
	IsPaid          bool
	PaidAt          *time.Time
	PaymentResult   *PaymentResult
	IsDelivered     bool
	DeliveredAt     *time.Time
	Status          Status
	CancelReason    string
	StockDebited    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder 创建订单，初始状态 pending，未支付，不触碰库存
func NewOrder(userID string, items []OrderItem, addr Address, method PaymentMethod,
	itemsPrice, shippingPrice, totalPrice int64, coupon *CouponApplied) (*Order, error) {

	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	if itemsPrice < 0 || shippingPrice < 0 || totalPrice < 0 {
		return nil, ErrNegativePrice
	}

	now := time.Now()
	return &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		CouponApplied:   coupon,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// MarkPaid 幂等的支付确认。返回值表示本次调用是否为该订单
// 首次离开 pending 的转换（即是否需要扣减库存）。
// 已支付订单上的重复调用是无副作用的 no-op，这是支付网关
// 回调在 at-least-once 投递下依赖的幂等边界。
func (o *Order) MarkPaid(result PaymentResult, now time.Time) bool {
	if o.IsPaid {
		return false
	}

	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
	o.UpdatedAt = now

	if o.Status == StatusPending {
		o.Status = StatusConfirmed
		o.StockDebited = true
		return true
	}
	return false
}

// ApplyStatus 管理端状态推进。delivered 同时置妥投标记。
func (o *Order) ApplyStatus(status Status, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	o.Status = status
	if status == StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	return nil
}

// Cancel 取消订单。已支付或已妥投的订单不可经此路径取消。
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status == StatusCancelled || o.Status == StatusReturned {
		return ErrOrderClosed
	}
	if o.Status == StatusDelivered {
		return ErrOrderDelivered
	}
	if o.IsPaid {
		return ErrCannotCancelPaidOrder
	}

	o.Status = StatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = now
	return nil
}

// Return 退货/拒收。复用 CancelReason 记录退货原因。
func (o *Order) Return(reason string, now time.Time) error {
	if o.Status == StatusCancelled || o.Status == StatusReturned {
		return ErrOrderClosed
	}

	o.Status = StatusReturned
	o.CancelReason = reason
	o.UpdatedAt = now
	return nil
}

// Unpay 管理端更正误标记的支付状态，不回退生命周期与库存
func (o *Order) Unpay(now time.Time) error {
	if o.Status == StatusDelivered {
		return ErrOrderDelivered
	}

	o.IsPaid = false
	o.PaidAt = nil
	o.PaymentResult = nil
	o.UpdatedAt = now
	return nil
}

// ChangeAddress 修改收货地址，交付承运后冻结
func (o *Order) ChangeAddress(addr Address, now time.Time) error {
	if o.Status.handedToCarrier() {
		return ErrAddressFrozen
	}

	o.ShippingAddress = addr
	o.UpdatedAt = now
	return nil
}

// ClearStockDebit 库存回补完成后清除扣减标记，保证回补至多一次
func (o *Order) ClearStockDebit(now time.Time) {
	o.StockDebited = false
	o.UpdatedAt = now
}

// BookIDs 返回订单涉及的图书 ID 列表
func (o *Order) BookIDs() []string {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.BookID
	}
	return ids
}
