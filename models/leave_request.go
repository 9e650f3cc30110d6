package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// days are fractional (half days) but clients expect plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	LeaveAnnual    = "annual"
	LeaveSick      = "sick"
	LeavePersonal  = "personal"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
	LeaveUnpaid    = "unpaid"
)

const (
	LeavePending   = "pending"
	LeaveApproved  = "approved"
	LeaveRejected  = "rejected"
	LeaveCancelled = "cancelled"
)

// LeaveTypes lists every leave type with its yearly allocation in days.
var LeaveTypes = []struct {
	Type  string
	Total int64
}{
	{LeaveAnnual, 20},
	{LeaveSick, 10},
	{LeavePersonal, 5},
	{LeaveMaternity, 90},
	{LeavePaternity, 14},
	{LeaveUnpaid, 365},
}

func ValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt.Type == t {
			return true
		}
	}
	return false
}

type LeaveRequest struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `json:"user_id" gorm:"type:uuid;index;not null"`
	LeaveType        string          `json:"leave_type" gorm:"size:20;not null"`
	StartDate        string          `json:"start_date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	EndDate          string          `json:"end_date" gorm:"size:10;not null;index"`   // YYYY-MM-DD, inclusive
	Days             decimal.Decimal `json:"days" gorm:"type:numeric(6,1);not null"`
	HalfDay          bool            `json:"half_day" gorm:"not null;default:false"`
	Reason           string          `json:"reason" gorm:"type:text"`
	EmergencyContact string          `json:"emergency_contact" gorm:"size:120"`
	Attachments      []string        `json:"attachments" gorm:"type:text;serializer:json"`
	Status           string          `json:"status" gorm:"size:20;not null;index"`
	ApproverID       *uuid.UUID      `json:"approver_id" gorm:"type:uuid;index"`
	ApprovedAt       *time.Time      `json:"approved_at"`
	Comments         string          `json:"comments" gorm:"type:text"`

	User     *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Approver *User `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BalanceEntry is one leave type's standing for a calendar year.
type BalanceEntry struct {
	Used      decimal.Decimal `json:"used"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}

// LeaveBalance is keyed by leave type.
type LeaveBalance map[string]BalanceEntry
