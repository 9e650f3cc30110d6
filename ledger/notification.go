package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// NotificationSink stores in-app notifications for their recipients.
type NotificationSink struct {
	db  *gorm.DB
	now Clock
}

func NewNotificationSink(db *gorm.DB, now Clock) *NotificationSink {
	if now == nil {
		now = time.Now
	}
	return &NotificationSink{db: db, now: now}
}

// WithTx binds the sink to a running transaction.
func (s *NotificationSink) WithTx(tx *gorm.DB) *NotificationSink {
	return &NotificationSink{db: tx, now: s.now}
}

func (s *NotificationSink) Create(ctx context.Context, userID uuid.UUID, typ, title, message string, data map[string]any) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, errors.Wrap(err, "create notification")
	}
	return n, nil
}

// List is newest first.
func (s *NotificationSink) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		tx = tx.Where("read_at IS NULL")
	}
	rows := []models.Notification{}
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return rows, nil
}

// MarkRead sets read_at once; repeating it on an owned notification is a no-op.
func (s *NotificationSink) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tx := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", s.now())
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "mark notification read")
	}
	if tx.RowsAffected > 0 {
		return nil
	}

	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).Count(&n).Error
	if err != nil {
		return errors.Wrap(err, "check notification owner")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationSink) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", s.now())
	if tx.Error != nil {
		return 0, errors.Wrap(tx.Error, "mark all notifications read")
	}
	return tx.RowsAffected, nil
}

func (s *NotificationSink) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "count unread notifications")
	}
	return n, nil
}

func (s *NotificationSink) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tx := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "delete notification")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
