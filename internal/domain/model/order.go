package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced   OrderStatus = "placed"
	OrderStatusShipped  OrderStatus = "shipped"
	OrderStatusCanceled OrderStatus = "canceled"
)

// 注文明細。価格は購入時点のものをバックエンドが確定する。
type OrderItem struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name,omitempty"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// 確定済み注文。作成後の所有はバックエンド側。
type Order struct {
	ID          string          `json:"id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}
