/*
Package stock - 库存账本

扣减与回补以订单项列表为单位批量执行。账本层不做充足性校验，
只负责记账（截断在实体层完成）；命中不存在的图书时跳过该行
并告警，不中断整批操作。
*/
package stock

import (
	"context"
	"errors"
	"time"

	"bookstore/domain/book"
	"bookstore/domain/order"
	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"

	"go.uber.org/zap"
)

// Ledger 库存账本
type Ledger struct {
	books book.Repository
}

// NewLedger 创建库存账本
func NewLedger(books book.Repository) *Ledger {
	return &Ledger{books: books}
}

// Debit 按订单项扣减库存（下单数量为扣减量）
func (l *Ledger) Debit(ctx context.Context, items []order.OrderItem) error {
	return l.adjust(ctx, items, -1, "debit")
}

// Credit 按订单项回补库存
func (l *Ledger) Credit(ctx context.Context, items []order.OrderItem) error {
	return l.adjust(ctx, items, 1, "credit")
}

func (l *Ledger) adjust(ctx context.Context, items []order.OrderItem, sign int, direction string) error {
	now := time.Now()
	for _, item := range items {
		b, err := l.books.FindByID(ctx, item.BookID)
		if err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				// 图书可能已下架，跳过该行继续记账
				logger.Warn("stock adjustment skipped, book not found",
					zap.String("book_id", item.BookID),
					zap.String("direction", direction))
				continue
			}
			return err
		}

		b.AdjustStock(sign*item.Quantity, now)
		if err := l.books.Save(ctx, b); err != nil {
			return err
		}

		metrics.StockAdjustments.WithLabelValues(direction).Inc()
		logger.Debug("stock adjusted",
			zap.String("book_id", item.BookID),
			zap.String("direction", direction),
			zap.Int("quantity", item.Quantity),
			zap.Int("stock_after", b.Stock))
	}
	return nil
}
