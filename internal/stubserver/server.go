// Package stubserver はマーケットプレイスAPIのインメモリ実装。
// ローカル開発とe2eテストでPython製バックエンドの代わりに立てる。
// データはプロセスが生きている間だけ保持する。
package stubserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

type account struct {
	user         model.User
	passwordHash string
	suspended    bool
}

type Server struct {
	e      *echo.Echo
	secret []byte

	mu              sync.Mutex
	accountsByEmail map[string]*account
	accountsByID    map[int64]*account
	products        []*model.Product // idの昇順を保つ
	ordersByUser    map[int64][]model.Order
	ordersByIdemKey map[string]model.Order
	wishlists       map[int64]map[int64]bool

	nextUserID    int64
	nextProductID int64
}

func New(jwtSecret string) *Server {
	s := &Server{
		e:               echo.New(),
		secret:          []byte(jwtSecret),
		accountsByEmail: make(map[string]*account),
		accountsByID:    make(map[int64]*account),
		ordersByUser:    make(map[int64][]model.Order),
		ordersByIdemKey: make(map[string]model.Order),
		wishlists:       make(map[int64]map[int64]bool),
	}
	s.e.HideBanner = true
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.e

	e.POST("/register", s.register)
	e.POST("/login", s.login)

	e.GET("/products", s.listProducts)
	e.POST("/products", s.createProduct, s.requireAuth, s.requireVendor)
	e.PUT("/products/:id", s.updateProduct, s.requireAuth, s.requireVendor)
	e.DELETE("/products/:id", s.deleteProduct, s.requireAuth, s.requireVendor)

	e.POST("/orders", s.createOrder, s.requireAuth)
	e.GET("/orders", s.listOrders, s.requireAuth)

	e.GET("/wishlist", s.listWishlist, s.requireAuth)
	e.POST("/wishlist/:id", s.addWishlist, s.requireAuth)
	e.DELETE("/wishlist/:id", s.removeWishlist, s.requireAuth)
}

// Handlerはhttptest.Server等にそのまま渡せる。
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SeedProductはカタログに商品を足して登録後の値を返す。
func (s *Server) SeedProduct(name string, price decimal.Decimal, stock int64) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	p := &model.Product{ID: s.nextProductID, Name: name, Price: price, Stock: stock}
	s.products = append(s.products, p)
	return *p
}

// SuspendAccountはアカウントを停止状態にする（テスト用の裏口）。
func (s *Server) SuspendAccount(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.accountsByEmail[email]; ok {
		a.suspended = true
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}
