package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// TimeLedger owns the per-user, per-day attendance record.
type TimeLedger struct {
	options
	db *gorm.DB
}

func NewTimeLedger(db *gorm.DB, opts ...Option) *TimeLedger {
	return &TimeLedger{options: newOptions(opts), db: db}
}

func (l *TimeLedger) find(ctx context.Context, userID uuid.UUID, date string) (*models.Attendance, error) {
	var rec models.Attendance
	err := l.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load attendance")
	}
	return &rec, nil
}

func placeholder(userID uuid.UUID, date string) models.Attendance {
	return models.Attendance{UserID: userID, Date: date, Status: models.StatusAbsent}
}

// CheckIn upserts today's row keyed on (user_id, date).
func (l *TimeLedger) CheckIn(ctx context.Context, userID uuid.UUID, notes string) (*models.Attendance, error) {
	now := l.clock()
	today := DateKey(now)

	existing, err := l.find(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.CheckedIn() {
		return nil, ErrAlreadyCheckedIn
	}

	status := models.StatusPresent
	if now.Hour() >= l.lateHour {
		status = models.StatusLate
	}
	rec := models.Attendance{
		UserID:      userID,
		Date:        today,
		CheckInTime: &now,
		Status:      status,
		Notes:       notes,
	}
	// a re-check-in restarts the day; cumulative break seconds survive. The
	// conflict update only fires when the stored row is not an open check-in.
	res := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "(attendance.check_in_time IS NULL OR attendance.check_out_time IS NOT NULL)"},
		}},
		DoUpdates: clause.Assignments(map[string]any{
			"check_in_time":    now,
			"check_out_time":   nil,
			"break_start_time": nil,
			"break_end_time":   nil,
			"total_hours":      0,
			"status":           status,
			"notes":            notes,
			"updated_at":       now,
		}),
	}).Create(&rec)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "check in")
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyCheckedIn
	}
	return l.find(ctx, userID, today)
}

// CheckOut returns the record with total_hours set to the raw check-in span.
func (l *TimeLedger) CheckOut(ctx context.Context, userID uuid.UUID, notes string) (*models.Attendance, error) {
	now := l.clock()
	rec, err := l.find(ctx, userID, DateKey(now))
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.CheckInTime == nil {
		return nil, ErrNoCheckIn
	}
	if rec.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	updates := map[string]any{
		"check_out_time": now,
		"total_hours":    now.Sub(*rec.CheckInTime).Seconds() / 3600,
	}
	if rec.BreakOpen() {
		updates["break_end_time"] = now
		updates["break_duration"] = gorm.Expr("break_duration + ?", int64(now.Sub(*rec.BreakStartTime).Seconds()))
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := l.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("id = ? AND check_in_time IS NOT NULL AND check_out_time IS NULL", rec.ID).
		Updates(updates)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "check out")
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyCheckedOut
	}
	return l.find(ctx, userID, rec.Date)
}

func (l *TimeLedger) StartBreak(ctx context.Context, userID uuid.UUID) (*models.Attendance, error) {
	now := l.clock()
	rec, err := l.find(ctx, userID, DateKey(now))
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.CheckedIn() {
		return nil, ErrNoCheckIn
	}
	if rec.BreakOpen() {
		return nil, ErrBreakAlreadyOpen
	}
	res := l.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("id = ? AND check_out_time IS NULL", rec.ID).
		Where("(break_start_time IS NULL OR break_end_time IS NOT NULL)").
		Updates(map[string]any{
			"break_start_time": now,
			"break_end_time":   nil,
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "start break")
	}
	if res.RowsAffected == 0 {
		return nil, ErrBreakAlreadyOpen
	}
	return l.find(ctx, userID, rec.Date)
}

// EndBreak closes the open break and returns its length in whole seconds.
func (l *TimeLedger) EndBreak(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := l.clock()
	rec, err := l.find(ctx, userID, DateKey(now))
	if err != nil {
		return 0, err
	}
	if rec == nil || !rec.BreakOpen() {
		return 0, ErrNoOpenBreak
	}
	seconds := int64(now.Sub(*rec.BreakStartTime).Seconds())
	// only the caller that actually closes the break adds its seconds
	res := l.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("id = ? AND break_start_time IS NOT NULL AND break_end_time IS NULL", rec.ID).
		Updates(map[string]any{
			"break_end_time": now,
			"break_duration": gorm.Expr("break_duration + ?", seconds),
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "end break")
	}
	if res.RowsAffected == 0 {
		return 0, ErrNoOpenBreak
	}
	return seconds, nil
}

// Today never returns nil; a missing row becomes an unsaved absent placeholder.
func (l *TimeLedger) Today(ctx context.Context, userID uuid.UUID) (*models.Attendance, error) {
	today := DateKey(l.clock())
	rec, err := l.find(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		p := placeholder(userID, today)
		return &p, nil
	}
	return rec, nil
}

// Weekly returns seven entries starting at start, placeholders for empty days.
func (l *TimeLedger) Weekly(ctx context.Context, userID uuid.UUID, start time.Time) ([]models.Attendance, error) {
	days := DaysBetween(start, start.AddDate(0, 0, 6))

	var rows []models.Attendance
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, days[0], days[len(days)-1]).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "load week")
	}

	byDate := make(map[string]models.Attendance, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	out := make([]models.Attendance, 0, len(days))
	for _, d := range days {
		if r, ok := byDate[d]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, placeholder(userID, d))
	}
	return out, nil
}

// Summary aggregates [start, end] in a single statement.
func (l *TimeLedger) Summary(ctx context.Context, userID uuid.UUID, start, end time.Time) (*models.AttendanceSummary, error) {
	var s models.AttendanceSummary
	err := l.db.WithContext(ctx).Model(&models.Attendance{}).
		Select(`COUNT(*) AS total_days,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS present_days,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS absent_days,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS late_days,
			COALESCE(SUM(total_hours), 0) AS total_hours`,
			[]string{models.StatusPresent, models.StatusLate, models.StatusOnDuty},
			models.StatusAbsent, models.StatusLate).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, DateKey(start), DateKey(end)).
		Scan(&s).Error
	if err != nil {
		return nil, errors.Wrap(err, "summarize attendance")
	}
	return &s, nil
}

// DeleteToday hard-deletes today's row. Irreversible; meant for corrections.
func (l *TimeLedger) DeleteToday(ctx context.Context, userID uuid.UUID) error {
	tx := l.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, DateKey(l.clock())).
		Delete(&models.Attendance{})
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "delete attendance")
	}
	if tx.RowsAffected == 0 {
		return ErrNoRecordToday
	}
	return nil
}

type ListFilter struct {
	Start    string
	End      string
	UserID   *uuid.UUID
	Statuses []string
	// ManagerID limits rows to the manager's direct reports; nil means everyone.
	ManagerID *uuid.UUID
}

// List is the manager/admin view across users.
func (l *TimeLedger) List(ctx context.Context, f ListFilter) ([]models.Attendance, error) {
	tx := l.db.WithContext(ctx).Model(&models.Attendance{})
	if f.Start != "" {
		tx = tx.Where("date >= ?", f.Start)
	}
	if f.End != "" {
		tx = tx.Where("date <= ?", f.End)
	}
	if f.UserID != nil {
		tx = tx.Where("user_id = ?", *f.UserID)
	}
	if f.ManagerID != nil {
		team := l.db.Model(&models.User{}).Select("id").Where("manager_id = ?", *f.ManagerID)
		tx = tx.Where("user_id IN (?)", team)
	}
	if len(f.Statuses) > 0 {
		tx = tx.Where("status IN ?", f.Statuses)
	}
	rows := []models.Attendance{}
	if err := tx.Order("date ASC, check_in_time ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list attendance")
	}
	return rows, nil
}

// DailyEntry is one person's line on the daily board.
type DailyEntry struct {
	User       models.User       `json:"user"`
	Attendance models.Attendance `json:"attendance"`
}

// Daily lists every active user (the manager's direct reports when managerID
// is set) with their row for date; users with no row get an absent placeholder.
func (l *TimeLedger) Daily(ctx context.Context, date string, managerID *uuid.UUID) ([]DailyEntry, error) {
	users := l.db.WithContext(ctx).Model(&models.User{}).Where("active = ?", true)
	if managerID != nil {
		users = users.Where("manager_id = ?", *managerID)
	}
	var people []models.User
	if err := users.Order("name ASC").Find(&people).Error; err != nil {
		return nil, errors.Wrap(err, "load daily users")
	}
	if len(people) == 0 {
		return []DailyEntry{}, nil
	}

	ids := make([]uuid.UUID, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	var rows []models.Attendance
	if err := l.db.WithContext(ctx).Where("date = ? AND user_id IN ?", date, ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load daily attendance")
	}
	byUser := make(map[uuid.UUID]models.Attendance, len(rows))
	for _, r := range rows {
		byUser[r.UserID] = r
	}

	out := make([]DailyEntry, 0, len(people))
	for _, p := range people {
		rec, ok := byUser[p.ID]
		if !ok {
			rec = placeholder(p.ID, date)
		}
		out = append(out, DailyEntry{User: p, Attendance: rec})
	}
	return out, nil
}

// Today's date key in the ledger's business location.
func (l *TimeLedger) TodayKey() string { return DateKey(l.clock()) }
