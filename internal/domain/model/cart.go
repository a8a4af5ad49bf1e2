package model

import "github.com/shopspring/decimal"

// カートの明細。productIDごとに1行だけ。
// Quantityは常に1以上（0になった行は削除される）。
// Priceは追加時点の価格スナップショット。注文時の正価はバックエンドが再計算する。
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// 明細の小計
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}
