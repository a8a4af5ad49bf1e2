package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client())
}

func TestClient_ProductsWrappedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"Yoga Mat","price":"29.99","stock":50}]}`))
	})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Yoga Mat", products[0].Name)
	assert.Equal(t, "29.99", products[0].Price.String())
}

// 過去世代のバックエンドは素の配列を返していた
func TestClient_ProductsBareArrayShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Yoga Mat","price":29.99,"stock":50}]`))
	})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
}

func TestClient_ProductsUnexpectedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":true}`))
	})

	_, err := c.Products(context.Background())
	assert.Error(t, err)
}

func TestClient_ErrorBodyBecomesStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"email already exists"}`))
	})

	err := c.Register(context.Background(), "a@b.c", "pw1234", "customer")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Code)
	assert.Equal(t, "email already exists", se.Message)
}

func TestClient_AttachesBearerWhenTokenPresent(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c.SetAuthHooks(func() (string, bool) { return "tok-123", true }, nil)

	_, err := c.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestClient_NoBearerWhenAnonymous(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	c.SetAuthHooks(func() (string, bool) { return "", false }, nil)

	_, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

// tokenを付けた呼び出しの401だけがフックを呼ぶ
func TestClient_UnauthorizedHookFiresOnlyWhenAuthed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	})

	fired := 0
	authed := false
	c.SetAuthHooks(
		func() (string, bool) { return "tok-123", authed },
		func() { fired++ },
	)

	//匿名の401（ログイン失敗など）ではフックは呼ばれない
	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	assert.Error(t, err)
	assert.Equal(t, 0, fired)

	//認証付きの401はグローバルフック経由でセッション破棄につながる
	authed = true
	_, err = c.Orders(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, fired)
}

func TestClient_OrderResponseShapes(t *testing.T) {
	//{"order":{...}}と素のオブジェクトの両方を受ける
	wrapped := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"order":{"id":"ord-1","status":"placed","total_amount":"25"}}`))
	})
	bare := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":42,"status":"placed","total_amount":25.0}`))
	})

	items := []OrderItemInput{{ProductID: 1, Quantity: 1}}

	o1, err := wrapped.CreateOrder(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", o1.ID)

	//数値idは文字列に正規化される
	o2, err := bare.CreateOrder(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, "42", o2.ID)
}

func TestClient_TransportErrorIsNotStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // わざと落としてから叩く

	c := NewClient(srv.URL, nil)
	_, err := c.Products(context.Background())
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}
