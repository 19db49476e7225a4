package mysql

import (
	"context"
	"errors"

	"bookstore/domain/book"
	"bookstore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// BookRepository 图书仓储的 GORM 实现
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// FindByID 按 ID 查找图书
func (r *BookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var bookPO po.BookPO
	if err := r.db.WithContext(ctx).First(&bookPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, err
	}
	return bookPO.ToDomain(), nil
}

// Save 保存图书
func (r *BookRepository) Save(ctx context.Context, b *book.Book) error {
	return r.db.WithContext(ctx).Save(po.FromBookDomain(b)).Error
}

var _ book.Repository = (*BookRepository)(nil)
