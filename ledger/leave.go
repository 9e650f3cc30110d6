package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// LeaveDayHours is the attendance credit written for each approved leave day.
const LeaveDayHours = 8

// Actor is the authenticated caller with its resolved role.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

type LeaveInput struct {
	StartDate        string
	EndDate          string
	LeaveType        string
	Reason           string
	HalfDay          bool
	EmergencyContact string
	Attachments      []string
}

// LeaveLedger owns the leave-request lifecycle and derives balances from it.
type LeaveLedger struct {
	options
	db     *gorm.DB
	dir    Directory
	notify *NotificationSink
}

func NewLeaveLedger(db *gorm.DB, dir Directory, notify *NotificationSink, opts ...Option) *LeaveLedger {
	return &LeaveLedger{options: newOptions(opts), db: db, dir: dir, notify: notify}
}

// Create files a pending request routed to the requester's manager.
func (l *LeaveLedger) Create(ctx context.Context, userID uuid.UUID, in LeaveInput) (*models.LeaveRequest, error) {
	if !models.ValidLeaveType(in.LeaveType) {
		return nil, ErrInvalidLeaveType
	}
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if start.Before(l.today()) {
		return nil, ErrStartDateInPast
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	requester, err := l.dir.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	approverID, err := l.dir.ManagerOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	days := decimal.NewFromInt(InclusiveDays(start, end))
	if in.HalfDay {
		days = days.Div(decimal.NewFromInt(2))
	}
	req := &models.LeaveRequest{
		UserID:           userID,
		LeaveType:        in.LeaveType,
		StartDate:        DateKey(start),
		EndDate:          DateKey(end),
		Days:             days,
		HalfDay:          in.HalfDay,
		Reason:           strings.TrimSpace(in.Reason),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		Attachments:      in.Attachments,
		Status:           models.LeavePending,
		ApproverID:       approverID,
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var overlapping int64
		err := tx.Model(&models.LeaveRequest{}).
			Where("user_id = ? AND status IN ?", userID, []string{models.LeavePending, models.LeaveApproved}).
			Where("start_date <= ? AND end_date >= ?", req.EndDate, req.StartDate).
			Count(&overlapping).Error
		if err != nil {
			return errors.Wrap(err, "overlap check")
		}
		if overlapping > 0 {
			return ErrOverlappingRequest
		}
		if err := tx.Create(req).Error; err != nil {
			return errors.Wrap(err, "create leave request")
		}
		if approverID == nil {
			return nil
		}
		_, err = l.notify.WithTx(tx).Create(ctx, *approverID, models.NotifyLeaveRequest,
			"New leave request",
			fmt.Sprintf("%s requested %s day(s) of %s leave from %s to %s",
				displayName(requester), req.Days.String(), req.LeaveType, req.StartDate, req.EndDate),
			map[string]any{"leaveRequestId": req.ID.String(), "userId": userID.String()})
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func displayName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// loadForDecision returns the request if actor may approve or reject it.
func loadForDecision(tx *gorm.DB, id uuid.UUID, actor Actor) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	if err := tx.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load leave request")
	}
	if req.Status != models.LeavePending {
		return nil, ErrAlreadyProcessed
	}
	if !actor.IsAdmin() && (req.ApproverID == nil || *req.ApproverID != actor.ID) {
		return nil, ErrUnauthorized
	}
	return &req, nil
}

// decide flips a pending request; zero rows means someone else got there first.
func decide(tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	res := tx.Model(&models.LeaveRequest{}).
		Where("id = ? AND status = ?", id, models.LeavePending).
		Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update leave request")
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// Approve backfills one leave attendance row per day and flips the status in
// the same transaction, so a failure leaves the request pending.
func (l *LeaveLedger) Approve(ctx context.Context, id uuid.UUID, actor Actor, comments string) (*models.LeaveRequest, error) {
	now := l.clock()
	var out *models.LeaveRequest
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadForDecision(tx, id, actor)
		if err != nil {
			return err
		}
		start, err := ParseDate(req.StartDate)
		if err != nil {
			return err
		}
		end, err := ParseDate(req.EndDate)
		if err != nil {
			return err
		}

		days := DaysBetween(start, end)
		rows := make([]models.Attendance, 0, len(days))
		for _, d := range days {
			rows = append(rows, models.Attendance{
				UserID:     req.UserID,
				Date:       d,
				Status:     models.StatusLeave,
				TotalHours: LeaveDayHours,
				Notes:      fmt.Sprintf("Approved %s leave", req.LeaveType),
			})
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "total_hours", "notes", "updated_at"}),
		}).CreateInBatches(&rows, 100).Error
		if err != nil {
			return errors.Wrap(err, "backfill leave attendance")
		}

		approver := actor.ID
		err = decide(tx, id, map[string]any{
			"status":      models.LeaveApproved,
			"approver_id": approver,
			"approved_at": now,
			"comments":    strings.TrimSpace(comments),
		})
		if err != nil {
			return err
		}
		req.Status = models.LeaveApproved
		req.ApproverID = &approver
		req.ApprovedAt = &now
		req.Comments = strings.TrimSpace(comments)

		_, err = l.notify.WithTx(tx).Create(ctx, req.UserID, models.NotifyLeaveApproved,
			"Leave request approved",
			fmt.Sprintf("Your %s leave from %s to %s has been approved", req.LeaveType, req.StartDate, req.EndDate),
			map[string]any{"leaveRequestId": req.ID.String()})
		if err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *LeaveLedger) Reject(ctx context.Context, id uuid.UUID, actor Actor, comments string) (*models.LeaveRequest, error) {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return nil, ErrCommentsRequired
	}
	now := l.clock()
	var out *models.LeaveRequest
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadForDecision(tx, id, actor)
		if err != nil {
			return err
		}
		approver := actor.ID
		err = decide(tx, id, map[string]any{
			"status":      models.LeaveRejected,
			"approver_id": approver,
			"approved_at": now,
			"comments":    comments,
		})
		if err != nil {
			return err
		}
		req.Status = models.LeaveRejected
		req.ApproverID = &approver
		req.ApprovedAt = &now
		req.Comments = comments

		_, err = l.notify.WithTx(tx).Create(ctx, req.UserID, models.NotifyLeaveRejected,
			"Leave request rejected",
			fmt.Sprintf("Your %s leave from %s to %s was rejected: %s", req.LeaveType, req.StartDate, req.EndDate, comments),
			map[string]any{"leaveRequestId": req.ID.String()})
		if err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the owner's request while it is still pending.
func (l *LeaveLedger) Delete(ctx context.Context, id, userID uuid.UUID) error {
	var req models.LeaveRequest
	if err := l.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "load leave request")
	}
	if req.UserID != userID {
		return ErrUnauthorized
	}
	if req.Status != models.LeavePending {
		return ErrNotPending
	}
	res := l.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.LeavePending).
		Delete(&models.LeaveRequest{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete leave request")
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (l *LeaveLedger) withPeople(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).
		Preload("User").
		Preload("Approver").
		Order("created_at DESC")
}

func (l *LeaveLedger) ForUser(ctx context.Context, userID uuid.UUID) ([]models.LeaveRequest, error) {
	rows := []models.LeaveRequest{}
	if err := l.withPeople(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list leave requests")
	}
	return rows, nil
}

// ForTeam lists requests of everyone reporting to managerID.
func (l *LeaveLedger) ForTeam(ctx context.Context, managerID uuid.UUID, status string) ([]models.LeaveRequest, error) {
	team := l.db.Model(&models.User{}).Select("id").Where("manager_id = ?", managerID)
	tx := l.withPeople(ctx).Where("user_id IN (?)", team)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	rows := []models.LeaveRequest{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list team leave requests")
	}
	return rows, nil
}

func (l *LeaveLedger) All(ctx context.Context, status string) ([]models.LeaveRequest, error) {
	tx := l.withPeople(ctx)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	rows := []models.LeaveRequest{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list leave requests")
	}
	return rows, nil
}

// PendingCount counts requests waiting on actor; admins see every pending request.
func (l *LeaveLedger) PendingCount(ctx context.Context, actor Actor) (int64, error) {
	tx := l.db.WithContext(ctx).Model(&models.LeaveRequest{}).Where("status = ?", models.LeavePending)
	if !actor.IsAdmin() {
		tx = tx.Where("approver_id = ?", actor.ID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count pending leave requests")
	}
	return n, nil
}

// Balance is recomputed from approved requests of the current year on every call.
func (l *LeaveLedger) Balance(ctx context.Context, userID uuid.UUID) (models.LeaveBalance, error) {
	year := l.clock().Year()
	var used []struct {
		LeaveType string
		Used      decimal.Decimal
	}
	err := l.db.WithContext(ctx).Model(&models.LeaveRequest{}).
		Select("leave_type, COALESCE(SUM(days), 0) AS used").
		Where("user_id = ? AND status = ?", userID, models.LeaveApproved).
		Where("start_date >= ? AND start_date <= ?", fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)).
		Group("leave_type").
		Scan(&used).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum leave days")
	}

	byType := make(map[string]decimal.Decimal, len(used))
	for _, u := range used {
		byType[u.LeaveType] = u.Used
	}
	out := make(models.LeaveBalance, len(models.LeaveTypes))
	for _, lt := range models.LeaveTypes {
		total := decimal.NewFromInt(lt.Total)
		u := byType[lt.Type]
		out[lt.Type] = models.BalanceEntry{Used: u, Total: total, Remaining: total.Sub(u)}
	}
	return out, nil
}
