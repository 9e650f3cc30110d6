package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// ProfileHandler lets any signed-in user maintain their own account.
type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler { return &ProfileHandler{db: db} }

type profileUpdateRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

type changePasswordRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

// PUT /auth/profile
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest(c, "INVALID_NAME", "name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Department != nil {
		updates["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		updates["position"] = strings.TrimSpace(*req.Position)
	}
	if len(updates) == 0 {
		return badRequest(c, "NO_FIELDS_TO_UPDATE", "Nothing to update")
	}

	ctx := c.Request().Context()
	uid := caller(c).UserID
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		return fail(c, err)
	}
	var u models.User
	if err := h.db.WithContext(ctx).First(&u, "id = ?", uid).Error; err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"user": u})
}

// PUT /auth/password  body: { current, next }
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	if len(req.Next) < 8 {
		return badRequest(c, "WEAK_PASSWORD", "New password must be at least 8 characters")
	}

	ctx := c.Request().Context()
	var u models.User
	if err := h.db.WithContext(ctx).First(&u, "id = ?", caller(c).UserID).Error; err != nil {
		return fail(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Current)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false, "error": "Current password is incorrect", "code": "INVALID_CURRENT_PASSWORD",
		})
	}

	hash, err := HashPassword(req.Next)
	if err != nil {
		return fail(c, err)
	}
	if err := h.db.WithContext(ctx).Model(&u).Update("password_hash", hash).Error; err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Password updated"})
}
