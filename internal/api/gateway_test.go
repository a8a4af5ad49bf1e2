package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

func gatewayFor(t *testing.T, status int, body string) *Gateway {
	t.Helper()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	return NewGateway(c)
}

func TestGateway_LoginErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"invalid credentials", http.StatusUnauthorized, `{"error":"invalid email or password"}`, usecase.ErrInvalidCredentials},
		{"suspended", http.StatusForbidden, `{"error":"account suspended"}`, usecase.ErrAccountSuspended},
		{"bad input", http.StatusBadRequest, `{"error":"email and password required"}`, usecase.ErrValidation},
		{"backend down", http.StatusBadGateway, ``, usecase.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gatewayFor(t, tt.status, tt.body)
			_, err := g.Login(context.Background(), "a@b.c", "pw")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGateway_OrderErrorMapping(t *testing.T) {
	items := []model.OrderItem{{ProductID: 1, Quantity: 1}}

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"expired session", http.StatusUnauthorized, `{"error":"unauthorized"}`, usecase.ErrUnauthorized},
		{"stock", http.StatusBadRequest, `{"error":"insufficient stock"}`, usecase.ErrValidation},
		{"server error", http.StatusInternalServerError, ``, usecase.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gatewayFor(t, tt.status, tt.body)
			_, err := g.SubmitOrder(context.Background(), items)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGateway_TransportFailureIsNetwork(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil) // 誰も聞いていないポート
	g := NewGateway(c)

	_, err := g.ListOrders(context.Background())
	assert.ErrorIs(t, err, usecase.ErrNetwork)
}

func TestGateway_SubmitOrderSendsOnlyIDAndQuantity(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"order":{"id":"ord-1","status":"placed"}}`))
	})
	g := NewGateway(c)

	_, err := g.SubmitOrder(context.Background(), []model.OrderItem{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)

	//価格はクライアントから送らない
	assert.JSONEq(t, `{"items":[{"product_id":1,"quantity":2}]}`, gotBody)
}
