package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

// バックエンド世代によってidが数値だったり文字列だったりするので吸収する。
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type wireOrderItem struct {
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type wireOrder struct {
	ID          flexID          `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []wireOrderItem `json:"items"`
	CreatedAt   string          `json:"created_at"`
}

func (w wireOrder) toModel() model.Order {
	items := make([]model.OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, model.OrderItem{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}

	// created_atはRFC3339を正とし、読めない形式は零値のままにする
	created, _ := time.Parse(time.RFC3339, w.CreatedAt)

	return model.Order{
		ID:          string(w.ID),
		Status:      model.OrderStatus(w.Status),
		TotalAmount: w.TotalAmount,
		Items:       items,
		CreatedAt:   created,
	}
}
