package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
)

// バックエンドが返した4xx/5xx。bodyの{"error": ...}を取り込む。
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.Code)
}

// マーケットプレイスAPIのHTTPクライアント。
// 認証はSetAuthHooksで差し込まれたtokenを全リクエストに付ける。
type Client struct {
	baseURL string
	httpc   *http.Client

	token          func() (string, bool)
	onUnauthorized func()
}

func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// SetAuthHooksはtoken取得と401受信時のフックを登録する。
// axiosのinterceptor相当。構築順の都合で後差しにしている。
func (c *Client) SetAuthHooks(token func() (string, bool), onUnauthorized func()) {
	c.token = token
	c.onUnauthorized = onUnauthorized
}

// ---------------- auth ----------------

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (c *Client) Register(ctx context.Context, email, password string, role model.Role) error {
	return c.doJSON(ctx, http.MethodPost, "/register", registerRequest{
		Email:    email,
		Password: password,
		Role:     role,
	}, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	var res loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return model.Session{}, err
	}
	if res.Token == "" {
		return model.Session{}, fmt.Errorf("login response missing token")
	}
	return model.Session{Token: res.Token, User: res.User}, nil
}

// ---------------- products ----------------

// カタログ応答は {"items":[...]} が正。過去の素の配列も受けて正規化する。
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeList[model.Product](raw)
}

type ProductInput struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", in, &p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, &p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// ---------------- orders ----------------

type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type createOrderRequest struct {
	Items []OrderItemInput `json:"items"`
}

// 注文応答は {"order":{...}} が正。素のオブジェクトも受ける。
func (c *Client) CreateOrder(ctx context.Context, items []OrderItemInput) (model.Order, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/orders", createOrderRequest{Items: items}, &raw); err != nil {
		return model.Order{}, err
	}

	var wrapped struct {
		Order *wireOrder `json:"order"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Order != nil {
		return wrapped.Order.toModel(), nil
	}

	var bare wireOrder
	if err := json.Unmarshal(raw, &bare); err != nil {
		return model.Order{}, fmt.Errorf("decode order response: %w", err)
	}
	return bare.toModel(), nil
}

func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &raw); err != nil {
		return nil, err
	}

	wire, err := normalizeList[wireOrder](raw)
	if err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(wire))
	for _, w := range wire {
		orders = append(orders, w.toModel())
	}
	return orders, nil
}

// ---------------- wishlist ----------------

func (c *Client) Wishlist(ctx context.Context) ([]model.Product, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/wishlist", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeList[model.Product](raw)
}

func (c *Client) AddToWishlist(ctx context.Context, productID int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/wishlist/%d", productID), nil, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", productID), nil, nil)
}

// ---------------- plumbing ----------------

// doJSONはJSONを送ってJSONを受ける共通経路。
// tokenがあればBearerで付け、tokenを付けた呼び出しが401で返ったら
// onUnauthorizedフックを一度だけ呼ぶ（ログアウト処理の一本化）。
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	authed := false
	if c.token != nil {
		if tok, ok := c.token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
			authed = true
		}
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if res.StatusCode >= 400 {
		if authed && res.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &StatusError{Code: res.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		return e.Error
	}
	return ""
}

// {"items":[...]} / {"orders":[...]} / 素の配列、どれで来ても配列に寄せる。
func normalizeList[T any](raw json.RawMessage) ([]T, error) {
	var wrapped struct {
		Items  []T `json:"items"`
		Orders []T `json:"orders"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Items != nil {
			return wrapped.Items, nil
		}
		if wrapped.Orders != nil {
			return wrapped.Orders, nil
		}
	}

	var bare []T
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("unexpected list response shape")
}
