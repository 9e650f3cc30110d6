package cli

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/handlers"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the first admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := open()
		if err != nil {
			return err
		}
		u, created, err := createAdmin(db, adminEmail, adminName, adminPassword)
		if err != nil {
			return err
		}
		if !created {
			fmt.Println("Admin user already exists:", u.Email)
			return nil
		}
		fmt.Println("Admin user created:", u.Email)
		fmt.Println("Password:", adminPassword, "(change it after the first login)")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "admin@example.com", "Login email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Initial password (min 8 characters)")
	_ = createAdminCmd.MarkFlagRequired("password")
}

// createAdmin is idempotent on email: an existing account is returned untouched.
func createAdmin(db *gorm.DB, email, name, password string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, errors.New("email is required")
	}
	if len(password) < 8 {
		return nil, false, errors.New("password must be at least 8 characters")
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, errors.Wrap(err, "query users")
	}

	hashed, err := handlers.HashPassword(password)
	if err != nil {
		return nil, false, errors.Wrap(err, "hash password")
	}
	u := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, false, errors.Wrap(err, "insert admin")
	}
	log.Printf("[create-admin] %s (%s)", u.Email, u.ID)
	return &u, true, nil
}
