package payment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	appcart "bookstore/application/cart"
	apporder "bookstore/application/order"
	"bookstore/application/stock"
	"bookstore/domain/book"
	"bookstore/domain/cart"
	"bookstore/domain/order"
	"bookstore/infrastructure/gateway/momo"
	"bookstore/infrastructure/persistence/mocks"
	apperrors "bookstore/pkg/errors"
)

type gatewayStub struct {
	mu       sync.Mutex
	requests []momo.CreateRequest
	resp     *momo.CreateResponse
	err      error
}

func (g *gatewayStub) CreatePayment(_ context.Context, req momo.CreateRequest) (*momo.CreateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.resp, g.err
}

type paymentFixture struct {
	svc     *Service
	gateway *gatewayStub
	orders  *mocks.OrderRepository
	books   *mocks.BookRepository
	carts   *mocks.CartRepository
	settler *apporder.Service
}

type noopRecorder struct{}

func (noopRecorder) RecordUsage(context.Context, string) {}

func newPaymentFixture(t *testing.T, skipSignatureCheck bool) *paymentFixture {
	t.Helper()

	orders := mocks.NewOrderRepository()
	books := mocks.NewBookRepository()
	carts := mocks.NewCartRepository()

	if err := books.Save(context.Background(), &book.Book{ID: "b1", Title: "Go", Stock: 10}); err != nil {
		t.Fatalf("seed book: %v", err)
	}

	settler := apporder.NewService(orders, stock.NewLedger(books), noopRecorder{})
	gateway := &gatewayStub{resp: &momo.CreateResponse{ResultCode: 0, PayURL: "https://pay.momo.vn/abc"}}

	cfg := momo.Config{
		PartnerCode: "MOMO",
		AccessKey:   "access-key",
		SecretKey:   "secret-key",
		RequestType: "captureWallet",
	}

	return &paymentFixture{
		svc:     NewService(cfg, gateway, orders, settler, appcart.NewReconciler(carts), skipSignatureCheck),
		gateway: gateway,
		orders:  orders,
		books:   books,
		carts:   carts,
		settler: settler,
	}
}

func (f *paymentFixture) createOrder(t *testing.T) string {
	t.Helper()
	dto, err := f.settler.Create(context.Background(), "user-1", &apporder.CreateOrderRequest{
		OrderItems: []apporder.OrderItemRequest{
			{BookID: "b1", Title: "Go", UnitPrice: 100000, Quantity: 2},
		},
		ShippingAddress: apporder.AddressRequest{FullName: "A", Phone: "0900", Address: "1 Le Loi"},
		PaymentMethod:   "MOMO",
		ItemsPrice:      200000,
		ShippingPrice:   30000,
		TotalPrice:      230000,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return dto.ID
}

func (f *paymentFixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	b, err := f.books.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find book: %v", err)
	}
	return b.Stock
}

func TestInitiate(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	resp, err := f.svc.Initiate(context.Background(), orderID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}
	if resp.PaymentURL != "https://pay.momo.vn/abc" {
		t.Errorf("payment url = %s", resp.PaymentURL)
	}
	if !strings.HasPrefix(resp.GatewayOrderID, orderID+"_") {
		t.Errorf("gateway order id = %s, want prefix %s_", resp.GatewayOrderID, orderID)
	}
	if resp.GatewayTransactionID == "" {
		t.Error("gateway transaction id must be set")
	}

	// 前端按固定键名取链接与交易号
	wire, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, key := range []string{`"paymentUrl"`, `"gatewayOrderId"`, `"gatewayTransactionId"`} {
		if !strings.Contains(string(wire), key) {
			t.Errorf("response json missing %s key: %s", key, wire)
		}
	}

	req := f.gateway.requests[0]
	if req.Amount != 230000 {
		t.Errorf("amount = %d, want order total", req.Amount)
	}
	if got, ok := momo.OrderIDFromExtraData(req.ExtraData); !ok || got != orderID {
		t.Errorf("extraData must carry the internal order id, got %q", req.ExtraData)
	}
}

func TestInitiateAlreadyPaid(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)
	f.settler.Confirm(context.Background(), orderID, order.PaymentResult{ID: "txn", Status: "COMPLETED"}, false)

	_, err := f.svc.Initiate(context.Background(), orderID)
	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Errorf("got %v, want CodeConflict", err)
	}
}

func TestInitiateGatewayRejection(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)
	f.gateway.resp = &momo.CreateResponse{ResultCode: 41, Message: "order amount invalid"}
	f.gateway.err = errors.New("gateway rejected request: order amount invalid (code 41)")

	_, err := f.svc.Initiate(context.Background(), orderID)
	if !apperrors.Is(err, apperrors.CodeGateway) {
		t.Errorf("got %v, want CodeGateway", err)
	}
}

func TestHandleIPNSuccess(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)
	f.seedCart(t)

	n := momo.Notification{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		TransID:    987654,
		ExtraData:  momo.EncodeExtraData(orderID),
	}
	if err := f.svc.HandleIPN(context.Background(), n); err != nil {
		t.Fatalf("HandleIPN() error = %v", err)
	}

	o, _ := f.orders.FindByID(context.Background(), orderID)
	if !o.IsPaid || o.Status != "confirmed" {
		t.Errorf("order state = paid:%v status:%s", o.IsPaid, o.Status)
	}
	if got := f.stockOf(t, "b1"); got != 8 {
		t.Errorf("stock = %d, want 8", got)
	}

	// 首次入账后购物车已购项被移除
	c, _ := f.carts.FindByUserID(context.Background(), "user-1")
	for _, item := range c.Items {
		if item.BookID == "b1" {
			t.Error("settled item must be removed from cart")
		}
	}
}

func TestHandleIPNInvalidSignature(t *testing.T) {
	f := newPaymentFixture(t, false)
	orderID := f.createOrder(t)

	n := momo.Notification{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		ExtraData:  momo.EncodeExtraData(orderID),
		Signature:  "forged",
	}
	err := f.svc.HandleIPN(context.Background(), n)
	if !apperrors.Is(err, apperrors.CodeForbidden) {
		t.Errorf("got %v, want CodeForbidden", err)
	}

	o, _ := f.orders.FindByID(context.Background(), orderID)
	if o.IsPaid {
		t.Error("forged notification must not settle the order")
	}
}

func TestHandleIPNFallbackResolution(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	// extraData 损坏时回退为拆解交易号
	n := momo.Notification{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		ExtraData:  "not-json",
	}
	if err := f.svc.HandleIPN(context.Background(), n); err != nil {
		t.Fatalf("HandleIPN() error = %v", err)
	}

	o, _ := f.orders.FindByID(context.Background(), orderID)
	if !o.IsPaid {
		t.Error("order must be settled via transaction id fallback")
	}
}

func TestHandleIPNUnresolvable(t *testing.T) {
	f := newPaymentFixture(t, true)

	n := momo.Notification{OrderID: "garbage", ResultCode: 0}
	err := f.svc.HandleIPN(context.Background(), n)
	if !apperrors.Is(err, apperrors.CodeInternal) {
		t.Errorf("got %v, want CodeInternal", err)
	}
}

func TestHandleIPNFailedPaymentIsNoop(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	n := momo.Notification{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 1006,
		Message:    "user cancelled",
		ExtraData:  momo.EncodeExtraData(orderID),
	}
	if err := f.svc.HandleIPN(context.Background(), n); err != nil {
		t.Fatalf("HandleIPN() error = %v", err)
	}

	o, err := f.orders.FindByID(context.Background(), orderID)
	if err != nil {
		t.Fatal("order must survive a failed ipn")
	}
	if o.IsPaid {
		t.Error("failed ipn must not settle the order")
	}
}

func TestCheckStatusSuccess(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	resp, err := f.svc.CheckStatus(context.Background(), &CheckStatusRequest{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		TransID:    555,
	})
	if err != nil {
		t.Fatalf("CheckStatus() error = %v", err)
	}
	if resp.OrderID != orderID || resp.Status != "confirmed" {
		t.Errorf("resp = %+v", resp)
	}
	if got := f.stockOf(t, "b1"); got != 8 {
		t.Errorf("stock = %d, want 8", got)
	}
}

func TestCheckStatusFailureDeletesUnpaid(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	_, err := f.svc.CheckStatus(context.Background(), &CheckStatusRequest{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 1006,
	})
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("got %v, want CodeValidation", err)
	}

	if _, err := f.orders.FindByID(context.Background(), orderID); err == nil {
		t.Error("abandoned unpaid order must be deleted")
	}
	if got := f.stockOf(t, "b1"); got != 10 {
		t.Errorf("stock = %d, want untouched 10", got)
	}
}

func TestCheckStatusFailureAfterIPNSettlement(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	ipn := momo.Notification{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		ExtraData:  momo.EncodeExtraData(orderID),
	}
	if err := f.svc.HandleIPN(context.Background(), ipn); err != nil {
		t.Fatalf("HandleIPN() error = %v", err)
	}

	// 轮询端报失败，但订单已被回调入账，不可误删
	f.svc.CheckStatus(context.Background(), &CheckStatusRequest{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 1006,
	})

	o, err := f.orders.FindByID(context.Background(), orderID)
	if err != nil {
		t.Fatal("settled order must survive a failed poll")
	}
	if !o.IsPaid {
		t.Error("settled order must stay paid")
	}
}

func TestConcurrentIPNAndPollSettleOnce(t *testing.T) {
	f := newPaymentFixture(t, true)
	orderID := f.createOrder(t)

	n := momo.Notification{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		TransID:    111,
		ExtraData:  momo.EncodeExtraData(orderID),
	}
	poll := &CheckStatusRequest{
		OrderID:    orderID + "_1700000000000",
		ResultCode: 0,
		TransID:    111,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.svc.HandleIPN(context.Background(), n)
	}()
	go func() {
		defer wg.Done()
		f.svc.CheckStatus(context.Background(), poll)
	}()
	wg.Wait()

	o, _ := f.orders.FindByID(context.Background(), orderID)
	if !o.IsPaid {
		t.Fatal("order must be settled")
	}
	if got := f.stockOf(t, "b1"); got != 8 {
		t.Errorf("stock = %d, concurrent settlement must debit exactly once", got)
	}
}

func (f *paymentFixture) seedCart(t *testing.T) {
	t.Helper()
	now := time.Now()
	if err := f.carts.Save(context.Background(), &cart.Cart{
		UserID: "user-1",
		Items: []cart.CartItem{
			{BookID: "b1", Quantity: 2},
			{BookID: "b9", Quantity: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}
