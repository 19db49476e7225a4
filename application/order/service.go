/*
Package order 订单应用服务，编排订单生命周期与库存账本、优惠券计数的联动。

下单不触碰库存，仅登记优惠券使用。首次支付确认（pending -> confirmed）
扣减库存恰好一次；取消/退货仅在 StockDebited 置位时回补，回补后清位。
支付确认与放弃清理经同一把锁串行化，网关回调与前端轮询并发到达时
不会双重入账。
*/
package order

import (
	"context"
	"sync"
	"time"

	"bookstore/application/stock"
	"bookstore/domain/order"
	apperrors "bookstore/pkg/errors"
	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"

	"go.uber.org/zap"
)

// RoleAdmin 管理员角色标识
const RoleAdmin = "admin"

// AdminConfirmedPaymentID 管理端 COD 确认的占位回执 ID，
// 携带该 ID 的支付确认直接将订单推进为已妥投
const AdminConfirmedPaymentID = "ADMIN_CONFIRMED"

// CouponUsageRecorder 下单成功后登记优惠券使用
type CouponUsageRecorder interface {
	RecordUsage(ctx context.Context, code string)
}

// Service 订单应用服务
type Service struct {
	orders  order.Repository
	ledger  *stock.Ledger
	coupons CouponUsageRecorder

	// settleMu 串行化支付确认与放弃清理
	settleMu sync.Mutex
}

// NewService 创建订单应用服务
func NewService(orders order.Repository, ledger *stock.Ledger, coupons CouponUsageRecorder) *Service {
	return &Service{
		orders:  orders,
		ledger:  ledger,
		coupons: coupons,
	}
}

// Create 创建订单。价格信任请求传入，不做服务端重算；
// 库存不在此扣减，优惠券使用计数在此登记。
func (s *Service) Create(ctx context.Context, userID string, req *CreateOrderRequest) (*OrderDTO, error) {
	items := make([]order.OrderItem, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = order.OrderItem{
			BookID:    item.BookID,
			Title:     item.Title,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	addr := order.Address{
		FullName: req.ShippingAddress.FullName,
		Phone:    req.ShippingAddress.Phone,
		Address:  req.ShippingAddress.Address,
		City:     req.ShippingAddress.City,
		District: req.ShippingAddress.District,
		Ward:     req.ShippingAddress.Ward,
	}

	var couponApplied *order.CouponApplied
	if req.CouponApplied != nil && req.CouponApplied.Code != "" {
		couponApplied = &order.CouponApplied{
			Code:           req.CouponApplied.Code,
			DiscountAmount: req.CouponApplied.DiscountAmount,
		}
	}

	o, err := order.NewOrder(userID, items, addr, order.PaymentMethod(req.PaymentMethod),
		req.ItemsPrice, req.ShippingPrice, req.TotalPrice, couponApplied)
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	if couponApplied != nil {
		s.coupons.RecordUsage(ctx, couponApplied.Code)
	}

	metrics.OrdersTotal.WithLabelValues(string(order.StatusPending)).Inc()
	logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", userID),
		zap.String("payment_method", string(o.PaymentMethod)),
		zap.Int64("total_price", o.TotalPrice))

	return ToOrderDTO(o), nil
}

// Get 查询订单，仅归属人或管理员可见
func (s *Service) Get(ctx context.Context, id, requesterID, requesterRole string) (*OrderDTO, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(o, requesterID, requesterRole); err != nil {
		return nil, err
	}
	return ToOrderDTO(o), nil
}

// ListByUser 查询用户订单
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*OrderDTO, error) {
	orders, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list orders")
	}
	return ToOrderDTOs(orders), nil
}

// List 管理端全量订单查询
func (s *Service) List(ctx context.Context) ([]*OrderDTO, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list orders")
	}
	return ToOrderDTOs(orders), nil
}

// Confirm 支付确认。返回订单与本次是否为首次确认。
// 幂等: 重复确认是 no-op，库存至多扣减一次。
// forceDelivered 为管理端 COD 确认路径，确认后直接妥投。
func (s *Service) Confirm(ctx context.Context, orderID string, result order.PaymentResult,
	forceDelivered bool) (*order.Order, bool, error) {

	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	first := o.MarkPaid(result, now)

	if forceDelivered {
		if err := o.ApplyStatus(order.StatusDelivered, now); err != nil {
			return nil, false, apperrors.FromDomainError(err)
		}
	}

	if first {
		if err := s.ledger.Debit(ctx, o.Items); err != nil {
			return nil, false, apperrors.Wrap(err, apperrors.CodeInternal, "failed to debit stock")
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	if first {
		metrics.OrdersTotal.WithLabelValues(string(o.Status)).Inc()
	}
	logger.Info("order payment confirmed",
		zap.String("order_id", o.ID),
		zap.Bool("first_confirmation", first),
		zap.String("status", string(o.Status)))

	return o, first, nil
}

// UpdateStatus 管理端状态推进。pending -> confirmed 的手工推进
// 在未扣减时扣减库存；推进到 cancelled/returned 时回补。
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*OrderDTO, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	next := order.Status(status)
	if !next.Valid() {
		return nil, apperrors.FromDomainError(order.ErrInvalidStatus)
	}

	now := time.Now()
	prev := o.Status

	if err := o.ApplyStatus(next, now); err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	switch {
	case prev == order.StatusPending && next == order.StatusConfirmed && !o.StockDebited:
		if err := s.ledger.Debit(ctx, o.Items); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to debit stock")
		}
		o.StockDebited = true
	case (next == order.StatusCancelled || next == order.StatusReturned) && o.StockDebited:
		if err := s.ledger.Credit(ctx, o.Items); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to credit stock")
		}
		o.ClearStockDebit(now)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	metrics.OrdersTotal.WithLabelValues(string(o.Status)).Inc()
	logger.Info("order status updated",
		zap.String("order_id", o.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(o.Status)))

	return ToOrderDTO(o), nil
}

// Cancel 取消订单（归属人或管理员）。仅未支付订单可取消，
// 已扣减库存的取消会回补。
func (s *Service) Cancel(ctx context.Context, id, requesterID, requesterRole, reason string) (*OrderDTO, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(o, requesterID, requesterRole); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := o.Cancel(reason, now); err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	if o.StockDebited {
		if err := s.ledger.Credit(ctx, o.Items); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to credit stock")
		}
		o.ClearStockDebit(now)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	metrics.OrdersTotal.WithLabelValues(string(order.StatusCancelled)).Inc()
	logger.Info("order cancelled",
		zap.String("order_id", o.ID),
		zap.String("reason", reason))

	return ToOrderDTO(o), nil
}

// Return 管理端退货/拒收，已扣减库存时回补
func (s *Service) Return(ctx context.Context, id, reason string) (*OrderDTO, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := o.Return(reason, now); err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	if o.StockDebited {
		if err := s.ledger.Credit(ctx, o.Items); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to credit stock")
		}
		o.ClearStockDebit(now)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	metrics.OrdersTotal.WithLabelValues(string(order.StatusReturned)).Inc()
	logger.Info("order returned",
		zap.String("order_id", o.ID),
		zap.String("reason", reason))

	return ToOrderDTO(o), nil
}

// Unpay 管理端更正误标记的支付状态
func (s *Service) Unpay(ctx context.Context, id string) (*OrderDTO, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Unpay(time.Now()); err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	logger.Info("order marked unpaid", zap.String("order_id", o.ID))
	return ToOrderDTO(o), nil
}

// UpdateAddress 管理端修改收货地址，交付承运后冻结
func (s *Service) UpdateAddress(ctx context.Context, id string, req *AddressRequest) (*OrderDTO, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	addr := order.Address{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		District: req.District,
		Ward:     req.Ward,
	}
	if err := o.ChangeAddress(addr, time.Now()); err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to save order")
	}

	return ToOrderDTO(o), nil
}

// DeleteUnpaid 删除支付失败后放弃的订单。
// 订单已支付或已不存在时是 no-op；与 Confirm 同锁，
// 轮询报失败与回调报成功并发到达时不会误删已入账订单。
func (s *Service) DeleteUnpaid(ctx context.Context, id string) error {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if apperrors.Is(apperrors.FromDomainError(err), apperrors.CodeOrderNotFound) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to load order")
	}

	if o.IsPaid {
		logger.Info("skip deleting paid order", zap.String("order_id", id))
		return nil
	}

	if o.StockDebited {
		if err := s.ledger.Credit(ctx, o.Items); err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to credit stock")
		}
	}

	if err := s.orders.Remove(ctx, id); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete order")
	}

	logger.Info("unpaid order deleted after failed payment", zap.String("order_id", id))
	return nil
}

func (s *Service) findOrder(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}
	return o, nil
}

// authorize 归属人或管理员校验
func authorize(o *order.Order, requesterID, requesterRole string) error {
	if requesterRole == RoleAdmin || o.UserID == requesterID {
		return nil
	}
	return apperrors.FromDomainError(order.ErrNotOrderOwner)
}
