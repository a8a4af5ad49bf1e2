package model

import "github.com/shopspring/decimal"

// カタログ商品。バックエンドが正で、クライアント側は読み取り専用。
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}
