package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
)

type NotificationHandler struct {
	sink *ledger.NotificationSink
}

func NewNotificationHandler(s *ledger.NotificationSink) *NotificationHandler {
	return &NotificationHandler{sink: s}
}

// GET /notifications?unreadOnly=true
func (h *NotificationHandler) List(c echo.Context) error {
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unreadOnly"))
	ctx := c.Request().Context()
	uid := caller(c).UserID

	rows, err := h.sink.List(ctx, uid, unreadOnly)
	if err != nil {
		return fail(c, err)
	}
	unread, err := h.sink.UnreadCount(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"data": rows, "unreadCount": unread})
}

// PUT /notifications  body: { notificationId } or { markAll: true }
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	var req struct {
		NotificationID string `json:"notificationId"`
		MarkAll        bool   `json:"markAll"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	ctx := c.Request().Context()
	uid := caller(c).UserID

	if req.MarkAll {
		n, err := h.sink.MarkAllRead(ctx, uid)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, map[string]any{"message": "All notifications marked as read", "updated": n})
	}
	id, valid := uuidParam(req.NotificationID)
	if !valid {
		return badRequest(c, "INVALID_ID", "notificationId must be a UUID")
	}
	if err := h.sink.MarkRead(ctx, id, uid); err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Notification marked as read"})
}

// DELETE /notifications?id=
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, valid := uuidParam(c.QueryParam("id"))
	if !valid {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	if err := h.sink.Delete(c.Request().Context(), id, caller(c).UserID); err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Notification deleted"})
}
