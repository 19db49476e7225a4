// Package book - 图书库存实体。目录 CRUD 属于外部系统，
// 本核心只读写 Stock 字段。
package book

import (
	"context"
	"errors"
	"time"
)

// ErrBookNotFound 图书未找到
var ErrBookNotFound = errors.New("book not found")

// Book 库存承载实体
type Book struct {
	ID        string
	Title     string
	Stock     int // 始终 >= 0，扣减在 0 处截断
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdjustStock 调整库存，delta 可为负；结果为负时截断为 0。
// 截断而非报错：库存充足性由上游购物车/下单校验保证，
// 账本层只做无条件记账。
func (b *Book) AdjustStock(delta int, now time.Time) {
	b.Stock += delta
	if b.Stock < 0 {
		b.Stock = 0
	}
	b.UpdatedAt = now
}

// Repository 图书仓储接口（只覆盖本核心所需的读与库存写）
type Repository interface {
	// FindByID 按 ID 查找图书，未找到返回 ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Save 持久化图书（last-writer-wins）
	Save(ctx context.Context, b *Book) error
}
