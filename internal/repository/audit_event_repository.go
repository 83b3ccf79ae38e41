package repository

import (
	"fmt"

	"gorm.io/gorm"

	"airdrop-tracker/internal/model"
)

type AuditEventRepository struct {
	db *gorm.DB
}

func NewAuditEventRepository(db *gorm.DB) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

func (r *AuditEventRepository) Create(event *model.AuditEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create audit event failed: %w", err)
	}
	return nil
}

func (r *AuditEventRepository) ListBySubjectID(subjectID string, limit int) ([]model.AuditEvent, error) {
	query := r.db.Where("subject_id = ?", subjectID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []model.AuditEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list audit events failed: %w", err)
	}
	return events, nil
}
