// Package po - 持久化对象。只做数据库映射，不含业务逻辑，
// 禁止定义 GORM 关联。
package po

import (
	"time"

	"bookstore/domain/order"
)

// OrderPO 订单持久化对象，地址/优惠券/支付回执拍平为列
type OrderPO struct {
	ID            string `gorm:"primaryKey;size:64"`
	UserID        string `gorm:"size:64;index;not null"`
	Status        string `gorm:"size:20;not null"`
	PaymentMethod string `gorm:"size:10;not null"`

	AddrFullName string `gorm:"size:128"`
	AddrPhone    string `gorm:"size:32"`
	AddrLine     string `gorm:"size:255"`
	AddrCity     string `gorm:"size:64"`
	AddrDistrict string `gorm:"size:64"`
	AddrWard     string `gorm:"size:64"`

	CouponCode     string `gorm:"size:32"`
	CouponDiscount int64

	ItemsPrice    int64 `gorm:"not null"`
	ShippingPrice int64 `gorm:"not null"`
	TotalPrice    int64 `gorm:"not null"`

	IsPaid            bool `gorm:"not null;default:false"`
	PaidAt            *time.Time
	PaymentID         string `gorm:"size:64"`
	PaymentStatus     string `gorm:"size:32"`
	PaymentUpdateTime string `gorm:"size:32"`
	PaymentPayerEmail string `gorm:"size:128"`

	IsDelivered  bool `gorm:"not null;default:false"`
	DeliveredAt  *time.Time
	CancelReason string `gorm:"size:255"`
	StockDebited bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO 订单项持久化对象
type OrderItemPO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:64;index;not null"`
	BookID    string `gorm:"size:64;not null"`
	Title     string `gorm:"size:255;not null"`
	Image     string `gorm:"size:512"`
	UnitPrice int64  `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
}

// TableName 指定表名
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain 领域模型转持久化对象
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		AddrFullName:  o.ShippingAddress.FullName,
		AddrPhone:     o.ShippingAddress.Phone,
		AddrLine:      o.ShippingAddress.Address,
		AddrCity:      o.ShippingAddress.City,
		AddrDistrict:  o.ShippingAddress.District,
		AddrWard:      o.ShippingAddress.Ward,
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CancelReason:  o.CancelReason,
		StockDebited:  o.StockDebited,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.CouponApplied != nil {
		orderPO.CouponCode = o.CouponApplied.Code
		orderPO.CouponDiscount = o.CouponApplied.DiscountAmount
	}
	if o.PaymentResult != nil {
		orderPO.PaymentID = o.PaymentResult.ID
		orderPO.PaymentStatus = o.PaymentResult.Status
		orderPO.PaymentUpdateTime = o.PaymentResult.UpdateTime
		orderPO.PaymentPayerEmail = o.PaymentResult.PayerEmail
	}

	itemPOs := make([]OrderItemPO, len(o.Items))
	for i, item := range o.Items {
		itemPOs[i] = OrderItemPO{
			OrderID:   o.ID,
			BookID:    item.BookID,
			Title:     item.Title,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return orderPO, itemPOs
}

// ToDomain 持久化对象转领域模型
func (p *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.OrderItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.OrderItem{
			BookID:    itemPO.BookID,
			Title:     itemPO.Title,
			Image:     itemPO.Image,
			UnitPrice: itemPO.UnitPrice,
			Quantity:  itemPO.Quantity,
		}
	}

	o := &order.Order{
		ID:     p.ID,
		UserID: p.UserID,
		Items:  items,
		ShippingAddress: order.Address{
			FullName: p.AddrFullName,
			Phone:    p.AddrPhone,
			Address:  p.AddrLine,
			City:     p.AddrCity,
			District: p.AddrDistrict,
			Ward:     p.AddrWard,
		},
		PaymentMethod: order.PaymentMethod(p.PaymentMethod),
		ItemsPrice:    p.ItemsPrice,
		ShippingPrice: p.ShippingPrice,
		TotalPrice:    p.TotalPrice,
		IsPaid:        p.IsPaid,
		PaidAt:        p.PaidAt,
		IsDelivered:   p.IsDelivered,
		DeliveredAt:   p.DeliveredAt,
		Status:        order.Status(p.Status),
		CancelReason:  p.CancelReason,
		StockDebited:  p.StockDebited,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.CouponCode != "" {
		o.CouponApplied = &order.CouponApplied{
			Code:           p.CouponCode,
			DiscountAmount: p.CouponDiscount,
		}
	}
	if p.PaymentID != "" || p.PaymentStatus != "" {
		o.PaymentResult = &order.PaymentResult{
			ID:         p.PaymentID,
			Status:     p.PaymentStatus,
			UpdateTime: p.PaymentUpdateTime,
			PayerEmail: p.PaymentPayerEmail,
		}
	}

	return o
}
