package app

import (
	"context"
	"errors"
	"log"

	"airdrop-tracker/internal/model"
)

var (
	ErrAdminRequired = errors.New("admin access required")

	// Admin-flagged accounts can never be rejected or deleted; there is no
	// transition out of the admin state in this design.
	ErrAdminImmutable = errors.New("cannot delete admin user")
)

// AuditStore reads back the lifecycle events the worker persisted.
type AuditStore interface {
	ListBySubjectID(subjectID string, limit int) ([]model.AuditEvent, error)
}

// auditTrailLimit bounds one trail response; four event kinds per account
// keep real trails far below it.
const auditTrailLimit = 100

// AdminService owns the pending -> approved and * -> deleted transitions.
// The middleware already gates these routes on is_admin; the service checks
// the actor again so the rule holds no matter who calls it.
type AdminService struct {
	users     UserStore
	audits    AuditStore
	userCache UserCache
	events    EventPublisher
}

func NewAdminService(users UserStore, audits AuditStore, userCache UserCache, events EventPublisher) *AdminService {
	return &AdminService{
		users:     users,
		audits:    audits,
		userCache: userCache,
		events:    events,
	}
}

func (s *AdminService) ListAll(actor *model.User) ([]model.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrAdminRequired
	}
	return s.users.ListAll()
}

func (s *AdminService) ListPending(actor *model.User) ([]model.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrAdminRequired
	}
	return s.users.ListPending()
}

// Approve opens the approval gate for the target user. Approving an already
// approved user is a silent no-op; only a missing target is an error.
func (s *AdminService) Approve(actor *model.User, userID string) error {
	if actor == nil || !actor.IsAdmin {
		return ErrAdminRequired
	}

	target, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.IsApproved {
		return nil
	}

	rows, err := s.users.SetApproved(userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// The target vanished between the read and the update.
		return ErrUserNotFound
	}

	s.invalidate(userID)
	publishAudit(s.events, model.AuditApproved, userID, actor.ID)
	return nil
}

// Reject removes a user that never made it past the approval gate.
func (s *AdminService) Reject(actor *model.User, userID string) error {
	if actor == nil || !actor.IsAdmin {
		return ErrAdminRequired
	}

	target, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.IsAdmin {
		return ErrAdminImmutable
	}

	rows, err := s.users.Delete(userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	s.invalidate(userID)
	publishAudit(s.events, model.AuditRejected, userID, actor.ID)
	return nil
}

// Delete removes an account and every project it owns. The cascade runs in
// one storage transaction, so no intermediate owner-less state is observable.
func (s *AdminService) Delete(actor *model.User, userID string) error {
	if actor == nil || !actor.IsAdmin {
		return ErrAdminRequired
	}

	target, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.IsAdmin {
		return ErrAdminImmutable
	}

	if err := s.users.DeleteWithProjects(userID); err != nil {
		return err
	}

	s.invalidate(userID)
	publishAudit(s.events, model.AuditDeleted, userID, actor.ID)
	return nil
}

// AuditTrail returns the persisted lifecycle events for one account, newest
// first. Events outlive the account itself, so a trail for a deleted user is
// still readable; an id that never produced events yields an empty trail.
func (s *AdminService) AuditTrail(actor *model.User, userID string) ([]model.AuditEvent, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrAdminRequired
	}
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.audits.ListBySubjectID(userID, auditTrailLimit)
}

func (s *AdminService) invalidate(userID string) {
	if s.userCache == nil {
		return
	}
	if err := s.userCache.Delete(context.Background(), userID); err != nil {
		log.Printf("invalidate user cache failed: %v", err)
	}
}
