package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/payrollhq/payroll-management/internal/auth"
)

// UserRepository implements auth.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *auth.User) error {
	if err := r.db.Create(user).Error; err != nil {
		// the unique indexes on email/username close the pre-check race
		if isUniqueViolation(err) {
			return auth.ErrUserExists
		}
		return err
	}
	return nil
}

// GetByEmail maps a missing row to auth.ErrUserNotFound so callers can tell
// absence apart from a storage failure.
func (r *UserRepository) GetByEmail(email string) (*auth.User, error) {
	var user auth.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int64) (*auth.User, error) {
	var user auth.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var count int64
	err := r.db.Model(&auth.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := strings.ToLower(err.Error())
	// pgx: "duplicate key value violates unique constraint"; sqlite: "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
