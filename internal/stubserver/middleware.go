package stubserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
)

const ctxUserKey = "current_user"

// bearerAuth用のJWT検証ミドルウェア。
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" {
			return jsonError(c, http.StatusUnauthorized, "authentication required")
		}

		//Bearer形式か確認してtokenを抜く
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}
		rawToken := strings.TrimSpace(parts[1])
		if rawToken == "" {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		})
		if err != nil || token == nil || !token.Valid {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}

		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}

		s.mu.Lock()
		a, exists := s.accountsByID[int64(sub)]
		s.mu.Unlock()

		if !exists {
			return jsonError(c, http.StatusUnauthorized, "unauthorized")
		}
		//停止はtokenが有効でも弾く（セッション破棄対象の401とは区別する）
		if a.suspended {
			return jsonError(c, http.StatusForbidden, "account suspended")
		}

		c.Set(ctxUserKey, a.user)
		return next(c)
	}
}

// vendor/adminだけが商品を触れる
func (s *Server) requireVendor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := currentUser(c)
		if u.Role != model.RoleVendor && u.Role != model.RoleAdmin {
			return jsonError(c, http.StatusForbidden, "vendor role required")
		}
		return next(c)
	}
}

// requireAuthの後でだけ呼べる
func currentUser(c echo.Context) model.User {
	u, _ := c.Get(ctxUserKey).(model.User)
	return u
}
