package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/middlewares"
)

// string -> int; falls back to def when empty or not a number
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// fail maps business errors to their status and hides everything else behind a 500.
func fail(c echo.Context, err error) error {
	if le, ok := ledger.AsError(err); ok {
		return c.JSON(le.Status, map[string]any{"success": false, "error": le.Message, "code": le.Code})
	}
	c.Logger().Errorf("%s %s: %+v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "Internal server error"})
}

func badRequest(c echo.Context, code, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": msg, "code": code})
}

func ok(c echo.Context, body map[string]any) error {
	body["success"] = true
	return c.JSON(http.StatusOK, body)
}

// caller is guaranteed by RequireAuth on every route that uses it.
func caller(c echo.Context) middlewares.Identity {
	id, _ := middlewares.CurrentUser(c)
	return id
}

// dateParam parses an optional YYYY-MM-DD query value.
func dateParam(c echo.Context, name string, def time.Time) (time.Time, bool) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return def, true
	}
	t, err := ledger.ParseDate(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func uuidParam(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	return id, err == nil
}
