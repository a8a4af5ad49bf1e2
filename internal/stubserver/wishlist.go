package stubserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
)

func (s *Server) listWishlist(c echo.Context) error {
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Product, 0)
	for _, p := range s.products {
		if s.wishlists[user.ID][p.ID] {
			items = append(items, *p)
		}
	}
	return c.JSON(http.StatusOK, productsResponse{Items: items})
}

func (s *Server) addWishlist(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, p := range s.products {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		return jsonError(c, http.StatusNotFound, "product not found")
	}

	if s.wishlists[user.ID] == nil {
		s.wishlists[user.ID] = make(map[int64]bool)
	}
	s.wishlists[user.ID][id] = true

	return c.JSON(http.StatusCreated, map[string]string{"message": "added"})
}

func (s *Server) removeWishlist(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.wishlists[user.ID], id)

	return c.JSON(http.StatusOK, map[string]string{"message": "removed"})
}
