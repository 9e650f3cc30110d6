package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/middlewares"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

type AuthHandler struct {
	db           *gorm.DB
	dir          ledger.Directory
	auth         middlewares.AuthConfig
	secureCookie bool
}

func NewAuthHandler(db *gorm.DB, dir ledger.Directory, auth middlewares.AuthConfig, secureCookie bool) *AuthHandler {
	return &AuthHandler{db: db, dir: dir, auth: auth, secureCookie: secureCookie}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return badRequest(c, "MISSING_FIELDS", "Email and password are required")
	}

	var u models.User
	if err := h.db.WithContext(c.Request().Context()).Where("email = ?", email).First(&u).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return fail(c, err)
		}
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials", "code": "INVALID_CREDENTIALS"})
	}
	if !u.Active || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials", "code": "INVALID_CREDENTIALS"})
	}

	token, err := h.auth.SignToken(middlewares.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return fail(c, err)
	}
	c.SetCookie(h.cookie(token, int(h.auth.TTL/time.Second)))
	return ok(c, map[string]any{"user": u})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", -1))
	return ok(c, map[string]any{"message": "Logged out"})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.dir.Lookup(c.Request().Context(), caller(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"user": u})
}
