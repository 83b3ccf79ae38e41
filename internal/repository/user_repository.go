package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"airdrop-tracker/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A unique-index violation on username or email comes
// back wrapped around gorm.ErrDuplicatedKey so the service can map it to a
// conflict even when two registrations race past the existence checks.
func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create user failed: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// Count is the bootstrap signal: zero users means the next registration
// becomes the auto-approved admin.
func (r *UserRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users failed: %w", err)
	}
	return count, nil
}

func (r *UserRepository) SetApproved(id string) (int64, error) {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("is_approved", true)
	if result.Error != nil {
		return 0, fmt.Errorf("approve user failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRepository) Delete(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete user failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteWithProjects removes the user and every project it owns in one
// transaction, so a failure mid-sequence cannot leave orphaned projects.
func (r *UserRepository) DeleteWithProjects(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&model.Project{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.User{}).Error
	})
	if err != nil {
		return fmt.Errorf("cascade delete user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) ListPending() ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("is_approved = ?", false).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list pending users failed: %w", err)
	}
	return users, nil
}
