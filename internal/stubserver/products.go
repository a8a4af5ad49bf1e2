package stubserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

type productsResponse struct {
	Items []model.Product `json:"items"`
}

func (s *Server) listProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		items = append(items, *p)
	}
	return c.JSON(http.StatusOK, productsResponse{Items: items})
}

type productInput struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

func (s *Server) createProduct(c echo.Context) error {
	var in productInput
	if err := c.Bind(&in); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}

	price, err := parseProductInput(in)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	p := &model.Product{ID: s.nextProductID, Name: in.Name, Price: price, Stock: in.Stock}
	s.products = append(s.products, p)

	return c.JSON(http.StatusCreated, *p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}

	var in productInput
	if err := c.Bind(&in); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}

	price, err := parseProductInput(in)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			p.Name = in.Name
			p.Price = price
			p.Stock = in.Stock
			return c.JSON(http.StatusOK, *p)
		}
	}
	return jsonError(c, http.StatusNotFound, "product not found")
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
		}
	}
	return jsonError(c, http.StatusNotFound, "product not found")
}

func parseProductInput(in productInput) (decimal.Decimal, error) {
	if in.Name == "" {
		return decimal.Zero, errInput("name is required")
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return decimal.Zero, errInput("price must be a non-negative number")
	}
	if in.Stock < 0 {
		return decimal.Zero, errInput("stock must be non-negative")
	}
	return price, nil
}

type errInput string

func (e errInput) Error() string { return string(e) }
