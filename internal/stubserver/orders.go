package stubserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

type orderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type createOrderRequest struct {
	Items []orderItemInput `json:"items"`
}

type orderResponse struct {
	Order model.Order `json:"order"`
}

type ordersResponse struct {
	Items []model.Order `json:"items"`
}

// 価格はクライアントの申告を信用せず、カタログの現在値で再計算する。
// Idempotency-Keyが付いた重複送信には保存済みの注文をそのまま返す。
func (s *Server) createOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if len(req.Items) == 0 {
		return jsonError(c, http.StatusBadRequest, "no items provided")
	}

	user := currentUser(c)
	idemKey := c.Request().Header.Get("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()

	if idemKey != "" {
		if prev, ok := s.ordersByIdemKey[idemKey]; ok {
			return c.JSON(http.StatusOK, orderResponse{Order: prev})
		}
	}

	byID := make(map[int64]*model.Product, len(s.products))
	for _, p := range s.products {
		byID[p.ID] = p
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		p, ok := byID[in.ProductID]
		if !ok || in.Quantity <= 0 {
			return jsonError(c, http.StatusBadRequest, fmt.Sprintf("invalid item %d", in.ProductID))
		}
		if p.Stock < in.Quantity {
			return jsonError(c, http.StatusBadRequest, fmt.Sprintf("insufficient stock for product %s", p.Name))
		}

		line := p.Price.Mul(decimal.NewFromInt(in.Quantity))
		total = total.Add(line)
		items = append(items, model.OrderItem{
			ProductID:       p.ID,
			Name:            p.Name,
			Quantity:        in.Quantity,
			PriceAtPurchase: p.Price,
		})
	}

	//在庫は確定時にまとめて引く
	for _, it := range items {
		byID[it.ProductID].Stock -= it.Quantity
	}

	order := model.Order{
		ID:          uuid.NewString(),
		Status:      model.OrderStatusPlaced,
		TotalAmount: total,
		Items:       items,
		CreatedAt:   time.Now().UTC(),
	}
	s.ordersByUser[user.ID] = append(s.ordersByUser[user.ID], order)
	if idemKey != "" {
		s.ordersByIdemKey[idemKey] = order
	}

	return c.JSON(http.StatusCreated, orderResponse{Order: order})
}

func (s *Server) listOrders(c echo.Context) error {
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.ordersByUser[user.ID]
	items := make([]model.Order, len(orders))
	copy(items, orders)

	return c.JSON(http.StatusOK, ordersResponse{Items: items})
}
