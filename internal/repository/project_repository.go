package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"airdrop-tracker/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create project failed: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("create project failed: %w", err)
	}
	return nil
}

func (r *ProjectRepository) ListByOwnerID(ownerID string) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.Where("owner_id = ?", ownerID).Order("last_update DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) GetByOwnerAndName(ownerID, name string) (*model.Project, error) {
	var project model.Project
	if err := r.db.Where("owner_id = ? AND name = ?", ownerID, name).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project failed: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) UpdateDaily(ownerID, name, value string, at time.Time) (int64, error) {
	result := r.db.Model(&model.Project{}).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Updates(map[string]interface{}{
			"daily":       value,
			"last_update": at,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("update daily status failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ProjectRepository) DeleteByOwnerAndName(ownerID, name string) (int64, error) {
	result := r.db.Where("owner_id = ? AND name = ?", ownerID, name).Delete(&model.Project{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete project failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ProjectRepository) CountByOwnerID(ownerID string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Project{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count projects failed: %w", err)
	}
	return count, nil
}
