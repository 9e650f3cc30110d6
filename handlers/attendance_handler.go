package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

type AttendanceHandler struct {
	ledger *ledger.TimeLedger
}

func NewAttendanceHandler(l *ledger.TimeLedger) *AttendanceHandler {
	return &AttendanceHandler{ledger: l}
}

type notesReq struct {
	Notes string `json:"notes"`
}

// POST /attendance/checkin  body: { notes? }
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	var req notesReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	rec, err := h.ledger.CheckIn(c.Request().Context(), caller(c).UserID, strings.TrimSpace(req.Notes))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Checked in successfully", "attendance": rec})
}

// POST /attendance/checkout  body: { notes? }
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	var req notesReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	rec, err := h.ledger.CheckOut(c.Request().Context(), caller(c).UserID, strings.TrimSpace(req.Notes))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Checked out successfully", "totalHours": rec.TotalHours})
}

// POST /attendance/break/start
func (h *AttendanceHandler) StartBreak(c echo.Context) error {
	if _, err := h.ledger.StartBreak(c.Request().Context(), caller(c).UserID); err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Break started"})
}

// POST /attendance/break/end
func (h *AttendanceHandler) EndBreak(c echo.Context) error {
	secs, err := h.ledger.EndBreak(c.Request().Context(), caller(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"message": "Break ended", "breakDuration": secs})
}

// GET /attendance/today → placeholder (id all zeros, status absent) when nothing is recorded
func (h *AttendanceHandler) Today(c echo.Context) error {
	rec, err := h.ledger.Today(c.Request().Context(), caller(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"attendance": rec})
}

// GET /attendance/weekly?startDate=YYYY-MM-DD (defaults to this week's Monday)
func (h *AttendanceHandler) Weekly(c echo.Context) error {
	start, valid := dateParam(c, "startDate", ledger.WeekStart(h.ledger.Now()))
	if !valid {
		return badRequest(c, "INVALID_DATE", "startDate must be YYYY-MM-DD")
	}
	ctx := c.Request().Context()
	uid := caller(c).UserID

	week, err := h.ledger.Weekly(ctx, uid, start)
	if err != nil {
		return fail(c, err)
	}
	summary, err := h.ledger.Summary(ctx, uid, start, start.AddDate(0, 0, 6))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"weeklyAttendance": week, "summary": summary})
}

// GET /attendance/summary?startDate=&endDate= (defaults to the current month)
func (h *AttendanceHandler) Summary(c echo.Context) error {
	now := h.ledger.Now()
	monthStart := now.AddDate(0, 0, 1-now.Day())
	start, valid := dateParam(c, "startDate", monthStart)
	if !valid {
		return badRequest(c, "INVALID_DATE", "startDate must be YYYY-MM-DD")
	}
	end, valid := dateParam(c, "endDate", monthStart.AddDate(0, 1, -1))
	if !valid || end.Before(start) {
		return badRequest(c, "INVALID_DATE", "endDate must be YYYY-MM-DD and not before startDate")
	}
	s, err := h.ledger.Summary(c.Request().Context(), caller(c).UserID, start, end)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]any{"summary": s})
}

// POST /attendance  body: { action: "delete" } removes today's record
func (h *AttendanceHandler) Action(c echo.Context) error {
	var req struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_PAYLOAD", "Invalid request body")
	}
	switch strings.TrimSpace(req.Action) {
	case "delete":
		if err := h.ledger.DeleteToday(c.Request().Context(), caller(c).UserID); err != nil {
			return fail(c, err)
		}
		c.Logger().Warnf("attendance: user %s deleted today's record", caller(c).UserID)
		return ok(c, map[string]any{"message": "Today's attendance record deleted"})
	default:
		return badRequest(c, "UNKNOWN_ACTION", "Unknown action")
	}
}

// GET /attendance/records?start=YYYY-MM-DD&end=YYYY-MM-DD&userId=&statuses=present,late
func (h *AttendanceHandler) Records(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := ledger.ParseDate(d); err != nil {
			return badRequest(c, "INVALID_DATE", "start/end must be YYYY-MM-DD")
		}
	}
	f := ledger.ListFilter{Start: start, End: end, Statuses: splitCSV(c.QueryParam("statuses"))}
	if me := caller(c); me.Role != models.RoleAdmin {
		f.ManagerID = &me.UserID
	}
	if v := c.QueryParam("userId"); v != "" {
		uid, valid := uuidParam(v)
		if !valid {
			return badRequest(c, "INVALID_ID", "userId must be a UUID")
		}
		f.UserID = &uid
	}

	rows, err := h.ledger.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": rows})
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GET /attendance/daily?date=YYYY-MM-DD → managers see their reports, admins see everyone
func (h *AttendanceHandler) Daily(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = h.ledger.TodayKey()
	} else if _, err := ledger.ParseDate(date); err != nil {
		return badRequest(c, "INVALID_DATE", "date must be YYYY-MM-DD")
	}

	me := caller(c)
	var scope *uuid.UUID
	if me.Role != models.RoleAdmin {
		scope = &me.UserID
	}
	rows, err := h.ledger.Daily(c.Request().Context(), date, scope)
	if err != nil {
		return fail(c, err)
	}

	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Attendance.Status]++
	}
	return ok(c, map[string]any{"date": date, "rows": rows, "counts": counts})
}
