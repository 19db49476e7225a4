package stock

import (
	"context"
	"testing"
	"time"

	"bookstore/domain/book"
	"bookstore/domain/order"
	"bookstore/infrastructure/persistence/mocks"
)

func seedBook(t *testing.T, repo *mocks.BookRepository, id string, stock int) {
	t.Helper()
	if err := repo.Save(context.Background(), &book.Book{
		ID: id, Title: id, Stock: stock, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed book %s: %v", id, err)
	}
}

func stockOf(t *testing.T, repo *mocks.BookRepository, id string) int {
	t.Helper()
	b, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find book %s: %v", id, err)
	}
	return b.Stock
}

func TestDebitAndCredit(t *testing.T) {
	repo := mocks.NewBookRepository()
	seedBook(t, repo, "b1", 10)
	seedBook(t, repo, "b2", 3)
	ledger := NewLedger(repo)

	items := []order.OrderItem{
		{BookID: "b1", Quantity: 2},
		{BookID: "b2", Quantity: 1},
	}

	if err := ledger.Debit(context.Background(), items); err != nil {
		t.Fatalf("Debit() error = %v", err)
	}
	if got := stockOf(t, repo, "b1"); got != 8 {
		t.Errorf("b1 stock after debit = %d, want 8", got)
	}
	if got := stockOf(t, repo, "b2"); got != 2 {
		t.Errorf("b2 stock after debit = %d, want 2", got)
	}

	if err := ledger.Credit(context.Background(), items); err != nil {
		t.Fatalf("Credit() error = %v", err)
	}
	if got := stockOf(t, repo, "b1"); got != 10 {
		t.Errorf("b1 stock after credit = %d, want 10", got)
	}
	if got := stockOf(t, repo, "b2"); got != 3 {
		t.Errorf("b2 stock after credit = %d, want 3", got)
	}
}

func TestDebitClampsAtZero(t *testing.T) {
	repo := mocks.NewBookRepository()
	seedBook(t, repo, "b1", 1)
	ledger := NewLedger(repo)

	items := []order.OrderItem{{BookID: "b1", Quantity: 5}}
	if err := ledger.Debit(context.Background(), items); err != nil {
		t.Fatalf("Debit() error = %v", err)
	}
	if got := stockOf(t, repo, "b1"); got != 0 {
		t.Errorf("overdrawn stock = %d, want clamped at 0", got)
	}
}

func TestAdjustSkipsMissingBooks(t *testing.T) {
	repo := mocks.NewBookRepository()
	seedBook(t, repo, "b1", 5)
	ledger := NewLedger(repo)

	items := []order.OrderItem{
		{BookID: "ghost", Quantity: 1},
		{BookID: "b1", Quantity: 2},
	}

	// 已下架图书跳过，后续行项照常记账
	if err := ledger.Debit(context.Background(), items); err != nil {
		t.Fatalf("Debit() error = %v", err)
	}
	if got := stockOf(t, repo, "b1"); got != 3 {
		t.Errorf("b1 stock = %d, want 3", got)
	}
}
