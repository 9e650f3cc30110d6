package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// Directory resolves identity and reporting lines.
type Directory interface {
	Lookup(ctx context.Context, id uuid.UUID) (*models.User, error)
	ManagerOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory { return &UserDirectory{db: db} }

func (d *UserDirectory) Lookup(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := d.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup user")
	}
	return &u, nil
}

// ManagerOf returns nil when the user has no manager.
func (d *UserDirectory) ManagerOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	u, err := d.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ManagerID, nil
}
