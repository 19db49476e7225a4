package order

import (
	"time"

	"bookstore/domain/order"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress AddressRequest     `json:"shippingAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required,oneof=COD MOMO"`
	CouponApplied   *CouponAppliedDTO  `json:"couponApplied"`
	ItemsPrice      int64              `json:"itemsPrice" binding:"gte=0"`
	ShippingPrice   int64              `json:"shippingPrice" binding:"gte=0"`
	TotalPrice      int64              `json:"totalPrice" binding:"gte=0"`
}

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	BookID    string `json:"bookId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Image     string `json:"image"`
	UnitPrice int64  `json:"unitPrice" binding:"gte=0"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// AddressRequest 收货地址
type AddressRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
}

// CouponAppliedDTO 订单上的优惠券快照
type CouponAppliedDTO struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discountAmount"`
}

// PayOrderRequest 支付确认请求（管理端 COD 确认时 ID 传 ADMIN_CONFIRMED）
type PayOrderRequest struct {
	ID         string `json:"id" binding:"required"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	PayerEmail string `json:"email_address"`
}

// UpdateStatusRequest 管理端状态推进请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ReturnOrderRequest 退货请求
type ReturnOrderRequest struct {
	Reason string `json:"reason"`
}

// PaymentResultDTO 支付回执
type PaymentResultDTO struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	PayerEmail string `json:"email_address"`
}

// OrderDTO 订单响应
type OrderDTO struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	OrderItems      []OrderItemRequest `json:"orderItems"`
	ShippingAddress AddressRequest     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	CouponApplied   *CouponAppliedDTO  `json:"couponApplied,omitempty"`
	ItemsPrice      int64              `json:"itemsPrice"`
	ShippingPrice   int64              `json:"shippingPrice"`
	TotalPrice      int64              `json:"totalPrice"`
	IsPaid          bool               `json:"isPaid"`
	PaidAt          *time.Time         `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResultDTO  `json:"paymentResult,omitempty"`
	IsDelivered     bool               `json:"isDelivered"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty"`
	Status          string             `json:"status"`
	CancelReason    string             `json:"cancelReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// ToOrderDTO 领域订单转响应 DTO
func ToOrderDTO(o *order.Order) *OrderDTO {
	items := make([]OrderItemRequest, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemRequest{
			BookID:    item.BookID,
			Title:     item.Title,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	dto := &OrderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		OrderItems: items,
		ShippingAddress: AddressRequest{
			FullName: o.ShippingAddress.FullName,
			Phone:    o.ShippingAddress.Phone,
			Address:  o.ShippingAddress.Address,
			City:     o.ShippingAddress.City,
			District: o.ShippingAddress.District,
			Ward:     o.ShippingAddress.Ward,
		},
		PaymentMethod: string(o.PaymentMethod),
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		Status:        string(o.Status),
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.CouponApplied != nil {
		dto.CouponApplied = &CouponAppliedDTO{
			Code:           o.CouponApplied.Code,
			DiscountAmount: o.CouponApplied.DiscountAmount,
		}
	}
	if o.PaymentResult != nil {
		dto.PaymentResult = &PaymentResultDTO{
			ID:         o.PaymentResult.ID,
			Status:     o.PaymentResult.Status,
			UpdateTime: o.PaymentResult.UpdateTime,
			PayerEmail: o.PaymentResult.PayerEmail,
		}
	}
	return dto
}

// ToOrderDTOs 批量转换
func ToOrderDTOs(orders []*order.Order) []*OrderDTO {
	dtos := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = ToOrderDTO(o)
	}
	return dtos
}
