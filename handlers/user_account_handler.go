package handlers

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

type UserAccountHandler struct {
	db *gorm.DB
}

func NewUserAccountHandler(db *gorm.DB) *UserAccountHandler { return &UserAccountHandler{db: db} }

type createUserReq struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
}

type patchUserReq struct {
	Role       *string `json:"role,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"` // "" clears the manager
	Active     *bool   `json:"active,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

type resetPasswordReq struct {
	Length int `json:"length"`
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func randomPassword(n int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	if n < 8 {
		n = 8
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[k.Int64()]
	}
	return string(out), nil
}

func (h *UserAccountHandler) findUser(c echo.Context) (*models.User, error) {
	id, valid := uuidParam(c.Param("id"))
	if !valid {
		return nil, badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	var u models.User
	err := h.db.WithContext(c.Request().Context()).First(&u, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "User not found", "code": "NOT_FOUND"})
	}
	if err != nil {
		return nil, fail(c, err)
	}
	return &u, nil
}

// managerRef resolves a manager_id value; an empty string means "no manager".
func (h *UserAccountHandler) managerRef(c echo.Context, raw string) (*uuid.UUID, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	id, valid := uuidParam(raw)
	if !valid {
		return nil, "manager_id must be a UUID"
	}
	var mgr models.User
	if err := h.db.WithContext(c.Request().Context()).First(&mgr, "id = ?", id).Error; err != nil {
		return nil, "manager not found"
	}
	if mgr.Role != models.RoleManager && mgr.Role != models.RoleAdmin {
		return nil, "manager must have the manager or admin role"
	}
	return &id, ""
}

// GET /admin/users?role=&limit=&offset=
func (h *UserAccountHandler) List(c echo.Context) error {
	limit := atoiOr(c.QueryParam("limit"), 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := atoiOr(c.QueryParam("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	q := h.db.WithContext(c.Request().Context()).Model(&models.User{})
	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail(c, err)
	}
	var users []models.User
	if err := q.Order("name asc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"data": users, "total": total})
}

// POST /admin/users
func (h *UserAccountHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = models.RoleEmployee
	}

	fields := map[string]string{}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fields["email"] = "required"
	}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "min_length_8"
	}
	if !models.ValidRole(req.Role) {
		fields["role"] = "invalid"
	}
	var managerID *uuid.UUID
	if req.ManagerID != nil {
		var msg string
		if managerID, msg = h.managerRef(c, *req.ManagerID); msg != "" {
			fields["manager_id"] = msg
		}
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"success": false, "error": "Validation failed", "code": "VALIDATION_ERROR", "fields": fields,
		})
	}

	ctx := c.Request().Context()
	var cnt int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&cnt).Error; err != nil {
		return fail(c, err)
	}
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"success": false, "error": "Email already registered", "code": "EMAIL_TAKEN"})
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return fail(c, err)
	}
	u := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashed,
		Role:         req.Role,
		ManagerID:    managerID,
		Department:   strings.TrimSpace(req.Department),
		Position:     strings.TrimSpace(req.Position),
		Active:       true,
	}
	if err := h.db.WithContext(ctx).Create(&u).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "user": u})
}

// PATCH /admin/users/:id
func (h *UserAccountHandler) Patch(c echo.Context) error {
	u, err := h.findUser(c)
	if u == nil {
		return err
	}
	var req patchUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}

	updates := map[string]any{}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return badRequest(c, "INVALID_ROLE", "role must be admin, manager or employee")
		}
		updates["role"] = *req.Role
	}
	if req.ManagerID != nil {
		mid, msg := h.managerRef(c, *req.ManagerID)
		if msg != "" {
			return badRequest(c, "INVALID_MANAGER", msg)
		}
		if mid != nil && *mid == u.ID {
			return badRequest(c, "INVALID_MANAGER", "a user cannot manage themselves")
		}
		updates["manager_id"] = mid
	}
	if req.Active != nil {
		updates["active"] = *req.Active
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
	if err := h.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return fail(c, err)
	}
	if err := h.db.WithContext(ctx).First(u, "id = ?", u.ID).Error; err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"user": u})
}

// POST /admin/users/:id/reset-password  body: { length? }
// resp: { one_time_password }
func (h *UserAccountHandler) ResetPassword(c echo.Context) error {
	u, err := h.findUser(c)
	if u == nil {
		return err
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Length == 0 {
		req.Length = 12
	}

	pw, err := randomPassword(req.Length)
	if err != nil {
		return fail(c, err)
	}
	hash, err := HashPassword(pw)
	if err != nil {
		return fail(c, err)
	}
	if err := h.db.WithContext(c.Request().Context()).Model(u).Update("password_hash", hash).Error; err != nil {
		return fail(c, err)
	}
	c.Logger().Infof("admin %s reset the password of %s", caller(c).UserID, u.ID)
	return ok(c, map[string]any{"one_time_password": pw})
}
