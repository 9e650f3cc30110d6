package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusOnDuty  = "on_duty"
	StatusLeave   = "leave"
)

// Attendance is one user's record for one calendar day.
type Attendance struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date"`
	Date           string     `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_user_date"` // YYYY-MM-DD
	CheckInTime    *time.Time `json:"check_in_time"`
	CheckOutTime   *time.Time `json:"check_out_time"`
	BreakStartTime *time.Time `json:"break_start_time"`
	BreakEndTime   *time.Time `json:"break_end_time"`
	BreakDuration  int64      `json:"break_duration" gorm:"not null;default:0"` // seconds, cumulative
	TotalHours     float64    `json:"total_hours" gorm:"not null;default:0"`
	Status         string     `json:"status" gorm:"size:20;not null"`
	Notes          string     `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Attendance) TableName() string { return "attendance" }

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsPlaceholder reports whether the record was synthesized rather than loaded.
func (a *Attendance) IsPlaceholder() bool { return a.ID == uuid.Nil }

func (a *Attendance) CheckedIn() bool { return a.CheckInTime != nil && a.CheckOutTime == nil }

func (a *Attendance) BreakOpen() bool { return a.BreakStartTime != nil && a.BreakEndTime == nil }

// AttendanceSummary aggregates a user's records over a date range.
type AttendanceSummary struct {
	TotalDays   int64   `json:"totalDays"`
	PresentDays int64   `json:"presentDays"`
	AbsentDays  int64   `json:"absentDays"`
	LateDays    int64   `json:"lateDays"`
	TotalHours  float64 `json:"totalHours"`
}
