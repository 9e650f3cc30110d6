package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

type LeaveRequestHandler struct {
	ledger *ledger.LeaveLedger
}

func NewLeaveRequestHandler(l *ledger.LeaveLedger) *LeaveRequestHandler {
	return &LeaveRequestHandler{ledger: l}
}

type createLeaveReq struct {
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	LeaveType        string   `json:"leave_type"`
	Reason           string   `json:"reason"`
	HalfDay          bool     `json:"half_day"`
	EmergencyContact string   `json:"emergency_contact"`
	Attachments      []string `json:"attachments"`
}

// POST /leave
func (h *LeaveRequestHandler) Create(c echo.Context) error {
	var req createLeaveReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.StartDate) == "" {
		fields["start_date"] = "required"
	}
	if strings.TrimSpace(req.EndDate) == "" {
		fields["end_date"] = "required"
	}
	if strings.TrimSpace(req.LeaveType) == "" {
		fields["leave_type"] = "required"
	}
	if strings.TrimSpace(req.Reason) == "" {
		fields["reason"] = "required"
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "error": "Missing required fields", "code": "VALIDATION_ERROR", "fields": fields,
		})
	}

	lr, err := h.ledger.Create(c.Request().Context(), caller(c).UserID, ledger.LeaveInput{
		StartDate:        strings.TrimSpace(req.StartDate),
		EndDate:          strings.TrimSpace(req.EndDate),
		LeaveType:        strings.ToLower(strings.TrimSpace(req.LeaveType)),
		Reason:           req.Reason,
		HalfDay:          req.HalfDay,
		EmergencyContact: req.EmergencyContact,
		Attachments:      req.Attachments,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success":        true,
		"message":        "Leave request submitted",
		"leaveRequestId": lr.ID,
	})
}

// GET /leave → the caller's own requests, newest first
func (h *LeaveRequestHandler) List(c echo.Context) error {
	rows, err := h.ledger.ForUser(c.Request().Context(), caller(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"data": rows})
}

// DELETE /leave?id=
func (h *LeaveRequestHandler) Delete(c echo.Context) error {
	id, valid := uuidParam(c.QueryParam("id"))
	if !valid {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	if err := h.ledger.Delete(c.Request().Context(), id, caller(c).UserID); err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Leave request deleted"})
}

type decideReq struct {
	LeaveRequestID string `json:"leaveRequestId"`
	Action         string `json:"action"` // approve | reject
	Comments       string `json:"comments"`
}

// POST /leave/approve  body: { leaveRequestId, action, comments? }
func (h *LeaveRequestHandler) Decide(c echo.Context) error {
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	id, valid := uuidParam(req.LeaveRequestID)
	if !valid {
		return badRequest(c, "INVALID_ID", "leaveRequestId must be a UUID")
	}
	actor := caller(c).Actor()
	ctx := c.Request().Context()

	var (
		lr  *models.LeaveRequest
		err error
		msg string
	)
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "approve":
		lr, err = h.ledger.Approve(ctx, id, actor, req.Comments)
		msg = "Leave request approved"
	case "reject":
		if strings.TrimSpace(req.Comments) == "" {
			return badRequest(c, ledger.ErrCommentsRequired.Code, ledger.ErrCommentsRequired.Message)
		}
		lr, err = h.ledger.Reject(ctx, id, actor, req.Comments)
		msg = "Leave request rejected"
	default:
		return badRequest(c, "UNKNOWN_ACTION", "action must be approve or reject")
	}
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": msg, "data": lr})
}

// GET /leave/balance
func (h *LeaveRequestHandler) Balance(c echo.Context) error {
	bal, err := h.ledger.Balance(c.Request().Context(), caller(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"data": bal})
}

// GET /leave/team?status= → managers see their reports, admins see everyone
func (h *LeaveRequestHandler) Team(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	me := caller(c)

	var (
		rows []models.LeaveRequest
		err  error
	)
	if me.Role == models.RoleAdmin {
		rows, err = h.ledger.All(c.Request().Context(), status)
	} else {
		rows, err = h.ledger.ForTeam(c.Request().Context(), me.UserID, status)
	}
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"data": rows})
}

// GET /leave/pending-count
func (h *LeaveRequestHandler) PendingCount(c echo.Context) error {
	n, err := h.ledger.PendingCount(c.Request().Context(), caller(c).Actor())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"count": n})
}
