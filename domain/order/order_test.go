package order

import (
	"errors"
	"testing"
	"time"
)

func newTestOrder(t *testing.T, method PaymentMethod) *Order {
	t.Helper()
	o, err := NewOrder("user-1",
		[]OrderItem{{BookID: "book-1", Title: "Clean Go", UnitPrice: 120000, Quantity: 2}},
		Address{FullName: "Nguyen Van A", Phone: "0900000000", Address: "1 Le Loi"},
		method, 240000, 30000, 270000, nil)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	return o
}

func TestNewOrderValidation(t *testing.T) {
	addr := Address{FullName: "A", Phone: "1", Address: "x"}

	if _, err := NewOrder("u", nil, addr, PaymentCOD, 0, 0, 0, nil); !errors.Is(err, ErrEmptyOrderItems) {
		t.Errorf("empty items: got %v, want ErrEmptyOrderItems", err)
	}

	items := []OrderItem{{BookID: "b", Quantity: 0}}
	if _, err := NewOrder("u", items, addr, PaymentCOD, 0, 0, 0, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: got %v, want ErrInvalidQuantity", err)
	}

	items = []OrderItem{{BookID: "b", Quantity: 1}}
	if _, err := NewOrder("u", items, addr, PaymentCOD, -1, 0, 0, nil); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("negative price: got %v, want ErrNegativePrice", err)
	}

	o, err := NewOrder("u", items, addr, PaymentMoMo, 100, 0, 100, nil)
	if err != nil {
		t.Fatalf("valid order: unexpected error %v", err)
	}
	if o.Status != StatusPending {
		t.Errorf("initial status = %s, want pending", o.Status)
	}
	if o.IsPaid || o.StockDebited {
		t.Error("new order must be unpaid with no stock debit")
	}
	if o.ID == "" {
		t.Error("order ID must be generated")
	}
}

func TestMarkPaidFirstConfirmation(t *testing.T) {
	o := newTestOrder(t, PaymentMoMo)
	now := time.Now()

	first := o.MarkPaid(PaymentResult{ID: "txn-1", Status: "COMPLETED"}, now)
	if !first {
		t.Fatal("first MarkPaid must report first confirmation")
	}
	if o.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", o.Status)
	}
	if !o.IsPaid || o.PaidAt == nil || o.PaymentResult == nil {
		t.Error("paid state not fully populated")
	}
	if !o.StockDebited {
		t.Error("first confirmation must flag stock debit")
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	o := newTestOrder(t, PaymentMoMo)
	now := time.Now()

	o.MarkPaid(PaymentResult{ID: "txn-1"}, now)
	firstResult := *o.PaymentResult

	if again := o.MarkPaid(PaymentResult{ID: "txn-2"}, now.Add(time.Second)); again {
		t.Error("second MarkPaid must be a no-op")
	}
	if o.PaymentResult.ID != firstResult.ID {
		t.Errorf("payment result overwritten: got %s, want %s", o.PaymentResult.ID, firstResult.ID)
	}
}

func TestMarkPaidOutsidePending(t *testing.T) {
	o := newTestOrder(t, PaymentCOD)
	now := time.Now()

	if err := o.ApplyStatus(StatusShipping, now); err != nil {
		t.Fatalf("ApplyStatus() error = %v", err)
	}

	if first := o.MarkPaid(PaymentResult{ID: "txn-1"}, now); first {
		t.Error("paying a shipping order must not count as first confirmation")
	}
	if o.Status != StatusShipping {
		t.Errorf("status = %s, want shipping preserved", o.Status)
	}
	if o.StockDebited {
		t.Error("stock debit must not be flagged outside pending")
	}
	if !o.IsPaid {
		t.Error("order must still be marked paid")
	}
}

func TestApplyStatusDelivered(t *testing.T) {
	o := newTestOrder(t, PaymentCOD)

	if err := o.ApplyStatus("teleported", time.Now()); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status: got %v, want ErrInvalidStatus", err)
	}

	if err := o.ApplyStatus(StatusDelivered, time.Now()); err != nil {
		t.Fatalf("ApplyStatus(delivered) error = %v", err)
	}
	if !o.IsDelivered || o.DeliveredAt == nil {
		t.Error("delivered status must set delivery markers")
	}
}

func TestCancelGuards(t *testing.T) {
	now := time.Now()

	o := newTestOrder(t, PaymentMoMo)
	o.MarkPaid(PaymentResult{ID: "txn"}, now)
	if err := o.Cancel("changed my mind", now); !errors.Is(err, ErrCannotCancelPaidOrder) {
		t.Errorf("paid order: got %v, want ErrCannotCancelPaidOrder", err)
	}

	o = newTestOrder(t, PaymentCOD)
	o.ApplyStatus(StatusDelivered, now)
	if err := o.Cancel("too late", now); !errors.Is(err, ErrOrderDelivered) {
		t.Errorf("delivered order: got %v, want ErrOrderDelivered", err)
	}

	o = newTestOrder(t, PaymentCOD)
	if err := o.Cancel("first", now); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := o.Cancel("second", now); !errors.Is(err, ErrOrderClosed) {
		t.Errorf("cancelled order: got %v, want ErrOrderClosed", err)
	}
	if o.CancelReason != "first" {
		t.Errorf("cancel reason = %q, want first reason preserved", o.CancelReason)
	}
}

func TestReturnGuards(t *testing.T) {
	now := time.Now()

	o := newTestOrder(t, PaymentCOD)
	if err := o.Return("damaged", now); err != nil {
		t.Fatalf("Return() error = %v", err)
	}
	if o.Status != StatusReturned {
		t.Errorf("status = %s, want returned", o.Status)
	}

	if err := o.Return("again", now); !errors.Is(err, ErrOrderClosed) {
		t.Errorf("returned order: got %v, want ErrOrderClosed", err)
	}
}

func TestUnpay(t *testing.T) {
	now := time.Now()

	o := newTestOrder(t, PaymentMoMo)
	o.MarkPaid(PaymentResult{ID: "txn"}, now)

	if err := o.Unpay(now); err != nil {
		t.Fatalf("Unpay() error = %v", err)
	}
	if o.IsPaid || o.PaidAt != nil || o.PaymentResult != nil {
		t.Error("unpay must clear payment state")
	}
	if o.Status != StatusConfirmed {
		t.Errorf("status = %s, unpay must not roll back lifecycle", o.Status)
	}
	if !o.StockDebited {
		t.Error("unpay must not touch the stock debit flag")
	}

	o2 := newTestOrder(t, PaymentCOD)
	o2.ApplyStatus(StatusDelivered, now)
	if err := o2.Unpay(now); !errors.Is(err, ErrOrderDelivered) {
		t.Errorf("delivered order: got %v, want ErrOrderDelivered", err)
	}
}

func TestChangeAddressFrozen(t *testing.T) {
	now := time.Now()
	newAddr := Address{FullName: "B", Phone: "2", Address: "2 Hai Ba Trung"}

	o := newTestOrder(t, PaymentCOD)
	if err := o.ChangeAddress(newAddr, now); err != nil {
		t.Fatalf("ChangeAddress() on pending error = %v", err)
	}
	if o.ShippingAddress.FullName != "B" {
		t.Error("address not updated")
	}

	for _, status := range []Status{StatusShipping, StatusShipped, StatusDelivered} {
		o := newTestOrder(t, PaymentCOD)
		o.ApplyStatus(status, now)
		if err := o.ChangeAddress(newAddr, now); !errors.Is(err, ErrAddressFrozen) {
			t.Errorf("status %s: got %v, want ErrAddressFrozen", status, err)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, status := range []Status{StatusDelivered, StatusCancelled, StatusReturned} {
		if !status.Terminal() {
			t.Errorf("%s must be terminal", status)
		}
	}
	for _, status := range []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipping, StatusShipped} {
		if status.Terminal() {
			t.Errorf("%s must not be terminal", status)
		}
	}
}

func TestBookIDs(t *testing.T) {
	o, _ := NewOrder("u", []OrderItem{
		{BookID: "b1", Quantity: 1},
		{BookID: "b2", Quantity: 3},
	}, Address{}, PaymentCOD, 0, 0, 0, nil)

	ids := o.BookIDs()
	if len(ids) != 2 || ids[0] != "b1" || ids[1] != "b2" {
		t.Errorf("BookIDs() = %v", ids)
	}
}
