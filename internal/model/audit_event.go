package model

import "time"

// Account lifecycle actions recorded by the audit worker.
const (
	AuditRegistered = "registered"
	AuditApproved   = "approved"
	AuditRejected   = "rejected"
	AuditDeleted    = "deleted"
)

type AuditEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	SubjectID string    `gorm:"size:36;not null;index" json:"subject_id"`
	ActorID   string    `gorm:"size:36" json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}
