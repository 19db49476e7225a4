package po

import (
	"time"

	"bookstore/domain/cart"
)

// CartPO 购物车持久化对象
type CartPO struct {
	UserID    string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (CartPO) TableName() string {
	return "carts"
}

// CartItemPO 购物车行项持久化对象
type CartItemPO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"size:64;index;not null"`
	BookID    string `gorm:"size:64;not null"`
	Title     string `gorm:"size:255"`
	Image     string `gorm:"size:512"`
	UnitPrice int64  `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
}

// TableName 指定表名
func (CartItemPO) TableName() string {
	return "cart_items"
}

// FromCartDomain 领域模型转持久化对象
func FromCartDomain(c *cart.Cart) (*CartPO, []CartItemPO) {
	cartPO := &CartPO{
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	itemPOs := make([]CartItemPO, len(c.Items))
	for i, item := range c.Items {
		itemPOs[i] = CartItemPO{
			UserID:    c.UserID,
			BookID:    item.BookID,
			Title:     item.Title,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return cartPO, itemPOs
}

// ToDomain 持久化对象转领域模型
func (p *CartPO) ToDomain(itemPOs []CartItemPO) *cart.Cart {
	items := make([]cart.CartItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = cart.CartItem{
			BookID:    itemPO.BookID,
			Title:     itemPO.Title,
			Image:     itemPO.Image,
			UnitPrice: itemPO.UnitPrice,
			Quantity:  itemPO.Quantity,
		}
	}

	return &cart.Cart{
		UserID:    p.UserID,
		Items:     items,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
