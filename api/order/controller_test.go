package order

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/api/middleware"
	apporder "bookstore/application/order"
	"bookstore/application/stock"
	"bookstore/domain/book"
	"bookstore/infrastructure/persistence/mocks"

	"github.com/gin-gonic/gin"
)

type noopCouponRecorder struct{}

func (noopCouponRecorder) RecordUsage(context.Context, string) {}

func newTestRouter(t *testing.T) (*gin.Engine, *apporder.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	books := mocks.NewBookRepository()
	if err := books.Save(context.Background(), &book.Book{ID: "b1", Title: "Go in Action", Stock: 10}); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	svc := apporder.NewService(mocks.NewOrderRepository(), stock.NewLedger(books), noopCouponRecorder{})

	engine := gin.New()
	api := engine.Group("/api/v1", middleware.Identity())
	NewController(svc).RegisterRoutes(api)
	return engine, svc
}

func createTestOrder(t *testing.T, svc *apporder.Service) *apporder.OrderDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), "user-1", &apporder.CreateOrderRequest{
		OrderItems: []apporder.OrderItemRequest{
			{BookID: "b1", Title: "Go in Action", UnitPrice: 100000, Quantity: 2},
		},
		ShippingAddress: apporder.AddressRequest{FullName: "A", Phone: "0900", Address: "1 Le Loi"},
		PaymentMethod:   "COD",
		ItemsPrice:      200000,
		ShippingPrice:   30000,
		TotalPrice:      230000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return dto
}

func putAddress(engine *gin.Engine, orderID, userID, role string) *httptest.ResponseRecorder {
	body := bytes.NewBufferString(`{"fullName":"B","phone":"0901","address":"2 Hai Ba Trung"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+orderID+"/address", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, userID)
	if role != "" {
		req.Header.Set(middleware.UserRoleHeader, role)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestUpdateAddressAdminOnly(t *testing.T) {
	engine, svc := newTestRouter(t)
	dto := createTestOrder(t, svc)

	// 归属人无管理员角色，不可改址
	if w := putAddress(engine, dto.ID, "user-1", ""); w.Code != http.StatusForbidden {
		t.Errorf("owner update: status = %d, want %d", w.Code, http.StatusForbidden)
	}

	if w := putAddress(engine, dto.ID, "admin-9", apporder.RoleAdmin); w.Code != http.StatusOK {
		t.Errorf("admin update: status = %d, want %d", w.Code, http.StatusOK)
	}

	updated, err := svc.Get(context.Background(), dto.ID, "user-1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if updated.ShippingAddress.Address != "2 Hai Ba Trung" {
		t.Errorf("address = %s, admin update must persist", updated.ShippingAddress.Address)
	}
}
