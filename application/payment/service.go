/*
Package payment - 支付应用服务

网关适配的编排层。两条入账路径（IPN 回调与前端轮询）都收敛到
订单服务的幂等 Confirm，先到者入账，后到者成为 no-op；
购物车清理只挂在首次入账之后。

订单 ID 的还原优先走 extraData 载荷，extraData 缺失或损坏时
回退为拆解网关交易号（<订单ID>_<毫秒时间戳>）。
*/
package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	appcart "bookstore/application/cart"
	"bookstore/domain/order"
	"bookstore/infrastructure/gateway/momo"
	apperrors "bookstore/pkg/errors"
	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway 网关外呼接口
type Gateway interface {
	CreatePayment(ctx context.Context, req momo.CreateRequest) (*momo.CreateResponse, error)
}

// OrderSettler 订单入账接口，由订单应用服务实现
type OrderSettler interface {
	Confirm(ctx context.Context, orderID string, result order.PaymentResult, forceDelivered bool) (*order.Order, bool, error)
	DeleteUnpaid(ctx context.Context, id string) error
}

// Service 支付应用服务
type Service struct {
	cfg        momo.Config
	gateway    Gateway
	orders     order.Repository
	settler    OrderSettler
	reconciler *appcart.Reconciler

	// skipSignatureCheck 仅供沙箱联调，生产环境必须关闭
	skipSignatureCheck bool
}

// NewService 创建支付应用服务
func NewService(cfg momo.Config, gateway Gateway, orders order.Repository,
	settler OrderSettler, reconciler *appcart.Reconciler, skipSignatureCheck bool) *Service {

	return &Service{
		cfg:                cfg,
		gateway:            gateway,
		orders:             orders,
		settler:            settler,
		reconciler:         reconciler,
		skipSignatureCheck: skipSignatureCheck,
	}
}

// Initiate 发起线上支付，返回网关收银台链接。
// 每次发起生成新的网关交易号，同一订单可重试。
func (s *Service) Initiate(ctx context.Context, orderID string) (*InitiatePaymentResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}
	if o.IsPaid {
		return nil, apperrors.Conflict("order is already paid")
	}

	txnID := momo.NewTransactionID(o.ID, time.Now())
	req := momo.CreateRequest{
		RequestID: uuid.New().String(),
		Amount:    o.TotalPrice,
		OrderID:   txnID,
		OrderInfo: fmt.Sprintf("Payment for order %s", o.ID),
		ExtraData: momo.EncodeExtraData(o.ID),
	}

	resp, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		if resp != nil && resp.Message != "" {
			return nil, apperrors.Gateway(resp.Message)
		}
		return nil, apperrors.Gateway("")
	}

	logger.Info("payment initiated",
		zap.String("order_id", o.ID),
		zap.String("gateway_order_id", txnID),
		zap.Int64("amount", o.TotalPrice))

	return &InitiatePaymentResponse{
		PaymentURL:           resp.PayURL,
		GatewayOrderID:       txnID,
		GatewayTransactionID: req.RequestID,
	}, nil
}

// HandleIPN 处理网关服务端回调。验签失败拒绝；订单 ID 无法还原
// 返回内部错误（让网关重投）；支付失败的通知只记录不入账。
func (s *Service) HandleIPN(ctx context.Context, n momo.Notification) error {
	if !s.skipSignatureCheck && !momo.VerifyNotification(s.cfg, n) {
		metrics.PaymentNotifications.WithLabelValues("ipn", "rejected").Inc()
		logger.Warn("ipn signature verification failed",
			zap.String("gateway_order_id", n.OrderID))
		return apperrors.Forbidden("invalid notification signature")
	}

	orderID, ok := s.resolveOrderID(n.ExtraData, n.OrderID)
	if !ok {
		metrics.PaymentNotifications.WithLabelValues("ipn", "unresolved").Inc()
		logger.Error("unable to resolve order from ipn",
			zap.String("gateway_order_id", n.OrderID),
			zap.String("extra_data", n.ExtraData))
		return apperrors.Internal("unable to resolve order from notification")
	}

	if n.ResultCode != 0 {
		metrics.PaymentNotifications.WithLabelValues("ipn", "failed").Inc()
		logger.Info("ipn reported failed payment",
			zap.String("order_id", orderID),
			zap.Int("result_code", n.ResultCode),
			zap.String("message", n.Message))
		return nil
	}

	result := order.PaymentResult{
		ID:         strconv.FormatInt(n.TransID, 10),
		Status:     "COMPLETED",
		UpdateTime: strconv.FormatInt(n.ResponseTime, 10),
	}

	o, first, err := s.settler.Confirm(ctx, orderID, result, false)
	if err != nil {
		metrics.PaymentNotifications.WithLabelValues("ipn", "error").Inc()
		return err
	}

	if first {
		s.reconcileCart(ctx, o)
	}

	metrics.PaymentNotifications.WithLabelValues("ipn", "success").Inc()
	return nil
}

// CheckStatus 处理前端轮询回传的支付结果。
// 成功路径与 IPN 等价入账；失败路径删除未支付订单，
// 订单已被回调入账时删除是 no-op。
func (s *Service) CheckStatus(ctx context.Context, req *CheckStatusRequest) (*CheckStatusResponse, error) {
	orderID, ok := s.resolveOrderID(req.ExtraData, req.OrderID)
	if !ok {
		metrics.PaymentNotifications.WithLabelValues("poll", "unresolved").Inc()
		return nil, apperrors.Validation("unable to resolve order from transaction id")
	}

	if req.ResultCode != 0 {
		if err := s.settler.DeleteUnpaid(ctx, orderID); err != nil {
			return nil, err
		}
		metrics.PaymentNotifications.WithLabelValues("poll", "failed").Inc()
		logger.Info("payment failed on poll, unpaid order removed",
			zap.String("order_id", orderID),
			zap.Int("result_code", req.ResultCode))
		return nil, apperrors.Validation("Payment failed. Order has been cancelled.")
	}

	result := order.PaymentResult{
		ID:         strconv.FormatInt(req.TransID, 10),
		Status:     "COMPLETED",
		UpdateTime: strconv.FormatInt(time.Now().UnixMilli(), 10),
	}

	o, first, err := s.settler.Confirm(ctx, orderID, result, false)
	if err != nil {
		metrics.PaymentNotifications.WithLabelValues("poll", "error").Inc()
		return nil, err
	}

	if first {
		s.reconcileCart(ctx, o)
	}

	metrics.PaymentNotifications.WithLabelValues("poll", "success").Inc()
	return &CheckStatusResponse{
		OrderID: o.ID,
		Status:  string(o.Status),
		Message: "Payment confirmed",
	}, nil
}

// resolveOrderID extraData 优先，交易号拆解兜底
func (s *Service) resolveOrderID(extraData, gatewayOrderID string) (string, bool) {
	if id, ok := momo.OrderIDFromExtraData(extraData); ok {
		return id, true
	}
	return momo.OrderIDFromTransactionID(gatewayOrderID)
}

// reconcileCart 首次入账后移除购物车内已购项，失败不影响主流程
func (s *Service) reconcileCart(ctx context.Context, o *order.Order) {
	if err := s.reconciler.RemoveSettledItems(ctx, o.UserID, o.BookIDs()); err != nil {
		logger.Warn("cart reconciliation failed after settlement",
			zap.String("order_id", o.ID),
			zap.String("user_id", o.UserID),
			zap.Error(err))
	}
}
