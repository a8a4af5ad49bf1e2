package stubserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain/model"
)

const tokenTTL = 24 * time.Hour

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return jsonError(c, http.StatusBadRequest, "valid email is required")
	}
	if len(req.Password) < 4 {
		return jsonError(c, http.StatusBadRequest, "password must be at least 4 characters")
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return jsonError(c, http.StatusBadRequest, "role must be customer, vendor, or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "internal error")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountsByEmail[email]; exists {
		return jsonError(c, http.StatusConflict, "email already exists")
	}

	s.nextUserID++
	a := &account{
		user:         model.User{ID: s.nextUserID, Email: email, Role: role},
		passwordHash: string(hash),
	}
	s.accountsByEmail[email] = a
	s.accountsByID[a.user.ID] = a

	return c.JSON(http.StatusCreated, map[string]string{"message": "user registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	a, ok := s.accountsByEmail[email]
	s.mu.Unlock()

	if !ok {
		return jsonError(c, http.StatusUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(req.Password)); err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid email or password")
	}
	//停止アカウントは資格情報が合っていてもログインさせない
	if a.suspended {
		return jsonError(c, http.StatusForbidden, "account suspended")
	}

	token, err := s.issueToken(a.user)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: a.user})
}

func (s *Server) issueToken(u model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
