package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/database/databasetest"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

func newTimeLedger(t *testing.T) (*ledger.TimeLedger, *gorm.DB, *models.User, *fakeClock) {
	t.Helper()
	db := databasetest.New(t)
	user := databasetest.CreateUser(t, db, "emp@example.com", models.RoleEmployee, nil)
	clk := &fakeClock{t: at(2026, 3, 2, 9, 5)}
	return ledger.NewTimeLedger(db, ledger.WithClock(clk.Now)), db, user, clk
}

func TestCheckInTwice(t *testing.T) {
	l, _, user, _ := newTimeLedger(t)
	ctx := context.Background()

	rec, err := l.CheckIn(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	if rec.Status != models.StatusPresent {
		t.Errorf("status = %q, want present", rec.Status)
	}
	if _, err := l.CheckIn(ctx, user.ID, ""); !errors.Is(err, ledger.ErrAlreadyCheckedIn) {
		t.Errorf("second CheckIn err = %v, want ErrAlreadyCheckedIn", err)
	}
}

func TestCheckInLosesToConcurrentCheckIn(t *testing.T) {
	l, db, user, _ := newTimeLedger(t)
	first := at(2026, 3, 2, 8, 0)
	interleave(t, db, "create", "attendance", func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO attendance
			(id, user_id, date, check_in_time, break_duration, total_hours, status, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, 0, 0, ?, '', ?, ?)`,
			uuid.New(), user.ID, "2026-03-02", first, models.StatusPresent, first, first).Error
	})

	if _, err := l.CheckIn(context.Background(), user.ID, "late bus"); !errors.Is(err, ledger.ErrAlreadyCheckedIn) {
		t.Fatalf("CheckIn err = %v, want ErrAlreadyCheckedIn", err)
	}
	var stored models.Attendance
	if err := db.First(&stored, "user_id = ? AND date = ?", user.ID, "2026-03-02").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.CheckInTime == nil || !stored.CheckInTime.Equal(first) || stored.Notes != "" {
		t.Errorf("stored check-in = %v %q, want the 08:00 one untouched", stored.CheckInTime, stored.Notes)
	}
}

func TestCheckInLate(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	clk.Set(at(2026, 3, 2, 10, 0))

	rec, err := l.CheckIn(context.Background(), user.ID, "traffic")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.Status != models.StatusLate {
		t.Errorf("status = %q, want late", rec.Status)
	}
	if rec.Notes != "traffic" {
		t.Errorf("notes = %q, want traffic", rec.Notes)
	}
}

func TestCheckInAfterCheckOutRestartsDay(t *testing.T) {
	l, db, user, clk := newTimeLedger(t)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	clk.Set(at(2026, 3, 2, 12, 0))
	if _, err := l.CheckOut(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	clk.Set(at(2026, 3, 2, 13, 0))
	rec, err := l.CheckIn(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("re-CheckIn: %v", err)
	}
	if rec.CheckOutTime != nil || rec.TotalHours != 0 {
		t.Errorf("re-CheckIn kept checkout %v / hours %v", rec.CheckOutTime, rec.TotalHours)
	}
	if rec.Status != models.StatusLate {
		t.Errorf("status = %q, want late", rec.Status)
	}

	var n int64
	db.Model(&models.Attendance{}).Where("user_id = ?", user.ID).Count(&n)
	if n != 1 {
		t.Errorf("rows for user = %d, want 1", n)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	l, _, user, _ := newTimeLedger(t)
	if _, err := l.CheckOut(context.Background(), user.ID, ""); !errors.Is(err, ledger.ErrNoCheckIn) {
		t.Errorf("CheckOut err = %v, want ErrNoCheckIn", err)
	}
}

func TestCheckOutTwice(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	ctx := context.Background()
	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	clk.Set(at(2026, 3, 2, 17, 0))
	if _, err := l.CheckOut(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if _, err := l.CheckOut(ctx, user.ID, ""); !errors.Is(err, ledger.ErrAlreadyCheckedOut) {
		t.Errorf("second CheckOut err = %v, want ErrAlreadyCheckedOut", err)
	}
}

func TestTotalHoursIgnoresBreaks(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	ctx := context.Background()

	clk.Set(at(2026, 3, 2, 9, 0))
	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	clk.Set(at(2026, 3, 2, 12, 0))
	if _, err := l.StartBreak(ctx, user.ID); err != nil {
		t.Fatalf("StartBreak: %v", err)
	}
	clk.Set(at(2026, 3, 2, 13, 0))
	if _, err := l.EndBreak(ctx, user.ID); err != nil {
		t.Fatalf("EndBreak: %v", err)
	}
	clk.Set(at(2026, 3, 2, 17, 30))
	rec, err := l.CheckOut(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if rec.TotalHours != 8.5 {
		t.Errorf("TotalHours = %v, want 8.5", rec.TotalHours)
	}
	if rec.BreakDuration != 3600 {
		t.Errorf("BreakDuration = %d, want 3600", rec.BreakDuration)
	}
}

func TestCheckOutClosesOpenBreak(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	ctx := context.Background()

	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	clk.Set(at(2026, 3, 2, 16, 50))
	if _, err := l.StartBreak(ctx, user.ID); err != nil {
		t.Fatalf("StartBreak: %v", err)
	}
	clk.Set(at(2026, 3, 2, 17, 0))
	rec, err := l.CheckOut(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if rec.BreakOpen() {
		t.Error("break still open after checkout")
	}
	if rec.BreakDuration != 600 {
		t.Errorf("BreakDuration = %d, want 600", rec.BreakDuration)
	}
}

func TestEndBreakCountsOnce(t *testing.T) {
	l, db, user, clk := newTimeLedger(t)
	ctx := context.Background()
	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, err := l.StartBreak(ctx, user.ID); err != nil {
		t.Fatalf("StartBreak: %v", err)
	}

	// another request closes the same break a minute in
	interleave(t, db, "update", "attendance", func(tx *gorm.DB) error {
		return tx.Exec(`UPDATE attendance SET break_end_time = ?, break_duration = break_duration + 60
			WHERE user_id = ? AND date = ?`, at(2026, 3, 2, 9, 6), user.ID, "2026-03-02").Error
	})
	clk.Set(at(2026, 3, 2, 9, 20))
	if _, err := l.EndBreak(ctx, user.ID); !errors.Is(err, ledger.ErrNoOpenBreak) {
		t.Fatalf("EndBreak err = %v, want ErrNoOpenBreak", err)
	}
	rec, err := l.Today(ctx, user.ID)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if rec.BreakDuration != 60 {
		t.Errorf("break_duration = %d, want 60 from the single close", rec.BreakDuration)
	}
}

func TestBreakNesting(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	ctx := context.Background()

	if _, err := l.StartBreak(ctx, user.ID); !errors.Is(err, ledger.ErrNoCheckIn) {
		t.Errorf("StartBreak before check-in err = %v, want ErrNoCheckIn", err)
	}
	if _, err := l.EndBreak(ctx, user.ID); !errors.Is(err, ledger.ErrNoOpenBreak) {
		t.Errorf("EndBreak with no record err = %v, want ErrNoOpenBreak", err)
	}
	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, err := l.EndBreak(ctx, user.ID); !errors.Is(err, ledger.ErrNoOpenBreak) {
		t.Errorf("EndBreak without break err = %v, want ErrNoOpenBreak", err)
	}
	if _, err := l.StartBreak(ctx, user.ID); err != nil {
		t.Fatalf("StartBreak: %v", err)
	}
	if _, err := l.StartBreak(ctx, user.ID); !errors.Is(err, ledger.ErrBreakAlreadyOpen) {
		t.Errorf("second StartBreak err = %v, want ErrBreakAlreadyOpen", err)
	}

	clk.Set(at(2026, 3, 2, 9, 20))
	secs, err := l.EndBreak(ctx, user.ID)
	if err != nil {
		t.Fatalf("EndBreak: %v", err)
	}
	if secs != 15*60 {
		t.Errorf("break seconds = %d, want 900", secs)
	}
	if _, err := l.EndBreak(ctx, user.ID); !errors.Is(err, ledger.ErrNoOpenBreak) {
		t.Errorf("second EndBreak err = %v, want ErrNoOpenBreak", err)
	}

	// a second break adds to the cumulative total
	if _, err := l.StartBreak(ctx, user.ID); err != nil {
		t.Fatalf("StartBreak again: %v", err)
	}
	clk.Set(at(2026, 3, 2, 9, 25))
	if _, err := l.EndBreak(ctx, user.ID); err != nil {
		t.Fatalf("EndBreak again: %v", err)
	}
	rec, err := l.Today(ctx, user.ID)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if rec.BreakDuration != 20*60 {
		t.Errorf("BreakDuration = %d, want 1200", rec.BreakDuration)
	}
}

func TestWorkdayScenario(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	ctx := context.Background()

	rec, err := l.CheckIn(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("CheckIn at 09:05: %v", err)
	}
	if rec.Status != models.StatusPresent {
		t.Errorf("status = %q, want present", rec.Status)
	}
	if _, err := l.CheckIn(ctx, user.ID, ""); !errors.Is(err, ledger.ErrAlreadyCheckedIn) {
		t.Errorf("repeat CheckIn err = %v, want ErrAlreadyCheckedIn", err)
	}

	clk.Set(at(2026, 3, 2, 12, 0))
	if _, err := l.StartBreak(ctx, user.ID); err != nil {
		t.Fatalf("StartBreak: %v", err)
	}
	clk.Set(at(2026, 3, 2, 12, 30))
	if _, err := l.EndBreak(ctx, user.ID); err != nil {
		t.Fatalf("EndBreak: %v", err)
	}

	clk.Set(at(2026, 3, 2, 17, 0))
	rec, err = l.CheckOut(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if rec.BreakDuration != 1800 {
		t.Errorf("BreakDuration = %d, want 1800", rec.BreakDuration)
	}
	if want := float64(7*3600+55*60) / 3600; rec.TotalHours != want {
		t.Errorf("TotalHours = %v, want %v", rec.TotalHours, want)
	}

	if err := l.DeleteToday(ctx, user.ID); err != nil {
		t.Fatalf("DeleteToday: %v", err)
	}
	today, err := l.Today(ctx, user.ID)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if !today.IsPlaceholder() || today.Status != models.StatusAbsent || today.CheckInTime != nil {
		t.Errorf("Today after delete = %+v, want placeholder", today)
	}
	if err := l.DeleteToday(ctx, user.ID); !errors.Is(err, ledger.ErrNoRecordToday) {
		t.Errorf("second DeleteToday err = %v, want ErrNoRecordToday", err)
	}
}

func TestWeeklyFillsPlaceholders(t *testing.T) {
	l, _, user, clk := newTimeLedger(t)
	ctx := context.Background()

	clk.Set(at(2026, 3, 4, 8, 30)) // Wednesday
	if _, err := l.CheckIn(ctx, user.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	week, err := l.Weekly(ctx, user.ID, ledger.WeekStart(clk.Now()))
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("Weekly len = %d, want 7", len(week))
	}
	if week[0].Date != "2026-03-02" || week[6].Date != "2026-03-08" {
		t.Errorf("week spans %s..%s", week[0].Date, week[6].Date)
	}
	for i, r := range week {
		if i == 2 {
			if r.IsPlaceholder() || r.Status != models.StatusPresent {
				t.Errorf("Wednesday = %+v, want stored present record", r)
			}
			continue
		}
		if !r.IsPlaceholder() || r.Status != models.StatusAbsent {
			t.Errorf("day %s = %+v, want absent placeholder", r.Date, r)
		}
	}
}

func TestSummary(t *testing.T) {
	l, db, user, _ := newTimeLedger(t)
	other := databasetest.CreateUser(t, db, "other@example.com", models.RoleEmployee, nil)

	rows := []models.Attendance{
		{UserID: user.ID, Date: "2026-03-02", Status: models.StatusPresent, TotalHours: 8},
		{UserID: user.ID, Date: "2026-03-03", Status: models.StatusLate, TotalHours: 7.5},
		{UserID: user.ID, Date: "2026-03-04", Status: models.StatusOnDuty, TotalHours: 8},
		{UserID: user.ID, Date: "2026-03-05", Status: models.StatusAbsent},
		{UserID: user.ID, Date: "2026-03-06", Status: models.StatusLeave, TotalHours: 8},
		{UserID: user.ID, Date: "2026-03-20", Status: models.StatusPresent, TotalHours: 8},
		{UserID: other.ID, Date: "2026-03-02", Status: models.StatusPresent, TotalHours: 8},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := l.Summary(context.Background(), user.ID, at(2026, 3, 2, 0, 0), at(2026, 3, 8, 0, 0))
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := models.AttendanceSummary{TotalDays: 5, PresentDays: 3, AbsentDays: 1, LateDays: 1, TotalHours: 31.5}
	if *s != want {
		t.Errorf("Summary = %+v, want %+v", *s, want)
	}

	empty, err := l.Summary(context.Background(), user.ID, at(2025, 1, 1, 0, 0), at(2025, 1, 7, 0, 0))
	if err != nil {
		t.Fatalf("Summary empty: %v", err)
	}
	if *empty != (models.AttendanceSummary{}) {
		t.Errorf("empty Summary = %+v, want zero", *empty)
	}
}

func TestListFilters(t *testing.T) {
	l, db, user, _ := newTimeLedger(t)
	other := databasetest.CreateUser(t, db, "other@example.com", models.RoleEmployee, nil)
	rows := []models.Attendance{
		{UserID: user.ID, Date: "2026-03-02", Status: models.StatusPresent},
		{UserID: user.ID, Date: "2026-03-03", Status: models.StatusLate},
		{UserID: other.ID, Date: "2026-03-02", Status: models.StatusPresent},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx := context.Background()
	all, err := l.List(ctx, ledger.ListFilter{Start: "2026-03-01", End: "2026-03-31"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List all = %d rows, want 3", len(all))
	}

	mine, err := l.List(ctx, ledger.ListFilter{UserID: &user.ID, Statuses: []string{models.StatusLate}})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(mine) != 1 || mine[0].Date != "2026-03-03" {
		t.Errorf("List filtered = %+v, want the late row", mine)
	}
}

func TestDailyBoard(t *testing.T) {
	l, db, user, _ := newTimeLedger(t)
	ctx := context.Background()
	mgr := databasetest.CreateUser(t, db, "mgr@example.com", models.RoleManager, nil)
	report := databasetest.CreateUser(t, db, "a-report@example.com", models.RoleEmployee, &mgr.ID)
	gone := databasetest.CreateUser(t, db, "b-gone@example.com", models.RoleEmployee, &mgr.ID)
	db.Model(gone).Update("active", false)

	if _, err := l.CheckIn(ctx, report.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	team, err := l.Daily(ctx, l.TodayKey(), &mgr.ID)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(team) != 1 || team[0].User.ID != report.ID || team[0].Attendance.Status != models.StatusPresent {
		t.Fatalf("team board = %+v", team)
	}

	all, err := l.Daily(ctx, l.TodayKey(), nil)
	if err != nil {
		t.Fatalf("Daily all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("company board has %d rows, want 3 active users", len(all))
	}
	for _, e := range all {
		if e.User.ID == user.ID && (!e.Attendance.IsPlaceholder() || e.Attendance.Status != models.StatusAbsent) {
			t.Errorf("user without a row = %+v, want absent placeholder", e.Attendance)
		}
	}
}
