package cart

import (
	"context"
	"testing"
	"time"

	"bookstore/domain/cart"
	"bookstore/infrastructure/persistence/mocks"
)

func TestRemoveSettledItems(t *testing.T) {
	repo := mocks.NewCartRepository()
	now := time.Now()
	if err := repo.Save(context.Background(), &cart.Cart{
		UserID: "user-1",
		Items: []cart.CartItem{
			{BookID: "b1", Quantity: 1},
			{BookID: "b2", Quantity: 2},
			{BookID: "b3", Quantity: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	r := NewReconciler(repo)
	if err := r.RemoveSettledItems(context.Background(), "user-1", []string{"b1", "b3"}); err != nil {
		t.Fatalf("RemoveSettledItems() error = %v", err)
	}

	c, err := repo.FindByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].BookID != "b2" {
		t.Errorf("remaining items = %+v, want only b2", c.Items)
	}
}

func TestRemoveSettledItemsMissingCart(t *testing.T) {
	r := NewReconciler(mocks.NewCartRepository())

	// 购物车不存在是静默 no-op
	if err := r.RemoveSettledItems(context.Background(), "nobody", []string{"b1"}); err != nil {
		t.Errorf("missing cart: unexpected error %v", err)
	}
}

func TestRemoveSettledItemsNoMatches(t *testing.T) {
	repo := mocks.NewCartRepository()
	now := time.Now()
	repo.Save(context.Background(), &cart.Cart{
		UserID:    "user-1",
		Items:     []cart.CartItem{{BookID: "b1", Quantity: 1}},
		CreatedAt: now,
		UpdatedAt: now,
	})

	r := NewReconciler(repo)
	if err := r.RemoveSettledItems(context.Background(), "user-1", []string{"other"}); err != nil {
		t.Fatalf("RemoveSettledItems() error = %v", err)
	}

	c, _ := repo.FindByUserID(context.Background(), "user-1")
	if len(c.Items) != 1 {
		t.Errorf("items = %+v, want untouched cart", c.Items)
	}
}
