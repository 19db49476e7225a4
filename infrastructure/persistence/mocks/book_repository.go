package mocks

import (
	"context"
	"sync"

	"bookstore/domain/book"
)

// BookRepository 内存图书仓储
type BookRepository struct {
	mu    sync.RWMutex
	books map[string]*book.Book
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{books: make(map[string]*book.Book)}
}

// FindByID 按 ID 查找图书
func (r *BookRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

// Save 保存图书
func (r *BookRepository) Save(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *b
	r.books[b.ID] = &clone
	return nil
}

var _ book.Repository = (*BookRepository)(nil)
