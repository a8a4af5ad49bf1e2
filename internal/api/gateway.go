package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

// GatewayはClientをusecaseのportsに合わせる薄い層。
// HTTPの失敗をドメインのエラー区分に落とすのはここだけ。
type Gateway struct {
	client *Client
}

func NewGateway(c *Client) *Gateway {
	return &Gateway{client: c}
}

func (g *Gateway) Login(ctx context.Context, email, password string) (model.Session, error) {
	sess, err := g.client.Login(ctx, email, password)
	if err != nil {
		return model.Session{}, loginError(err)
	}
	return sess, nil
}

func (g *Gateway) SubmitOrder(ctx context.Context, items []model.OrderItem) (model.Order, error) {
	in := make([]OrderItemInput, 0, len(items))
	for _, it := range items {
		in = append(in, OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := g.client.CreateOrder(ctx, in)
	if err != nil {
		return model.Order{}, orderError(err)
	}
	return order, nil
}

func (g *Gateway) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := g.client.Orders(ctx)
	if err != nil {
		return nil, orderError(err)
	}
	return orders, nil
}

// ログインの失敗区分: 401=資格情報違い, 403=停止アカウント, 400=入力, 他=通信
func loginError(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", usecase.ErrNetwork, err)
	}

	switch se.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", usecase.ErrInvalidCredentials, se.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", usecase.ErrAccountSuspended, se.Message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", usecase.ErrValidation, se.Message)
	default:
		return fmt.Errorf("%w: %s", usecase.ErrNetwork, se.Error())
	}
}

// 注文の失敗区分: 401=認証切れ, 400/422=検証, 他=通信
func orderError(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", usecase.ErrNetwork, err)
	}

	switch se.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", usecase.ErrUnauthorized, se.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", usecase.ErrValidation, se.Message)
	default:
		return fmt.Errorf("%w: %s", usecase.ErrNetwork, se.Error())
	}
}
