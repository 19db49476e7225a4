package po

import (
	"time"

	"bookstore/domain/book"
)

// BookPO 图书持久化对象（仅库存相关列）
type BookPO struct {
	ID        string `gorm:"primaryKey;size:64"`
	Title     string `gorm:"size:255;not null"`
	Stock     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (BookPO) TableName() string {
	return "books"
}

// FromBookDomain 领域模型转持久化对象
func FromBookDomain(b *book.Book) *BookPO {
	return &BookPO{
		ID:        b.ID,
		Title:     b.Title,
		Stock:     b.Stock,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToDomain 持久化对象转领域模型
func (p *BookPO) ToDomain() *book.Book {
	return &book.Book{
		ID:        p.ID,
		Title:     p.Title,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
