package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotifyLeaveRequest    = "leave_request"
	NotifyLeaveApproved   = "leave_approved"
	NotifyLeaveRejected   = "leave_rejected"
	NotifyAttendanceAlert = "attendance_alert"
	NotifyTaskAssigned    = "task_assigned"
	NotifySystemUpdate    = "system_update"
)

type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Type      string         `json:"type" gorm:"size:30;not null"`
	Title     string         `json:"title" gorm:"size:200;not null"`
	Message   string         `json:"message" gorm:"type:text"`
	Data      map[string]any `json:"data" gorm:"type:text;serializer:json"`
	ReadAt    *time.Time     `json:"read_at" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
