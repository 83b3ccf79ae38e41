package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"airdrop-tracker/internal/model"
	"airdrop-tracker/internal/repository"
)

// In-memory stand-ins for the gorm repositories, the Redis cache and the
// RabbitMQ publisher. They mimic the observable behavior the services rely
// on: nil-on-missing lookups, rows-affected counts, duplicate-key errors and
// the all-or-nothing cascade delete.

type fakeUserStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	projects *fakeProjectStore

	createErr  error
	cascadeErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[string]*model.User),
		projects: newFakeProjectStore(),
	}
}

func (s *fakeUserStore) Create(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("create user failed: %w", repository.ErrDuplicateKey)
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByUsername(username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) SetApproved(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return 0, nil
	}
	user.IsApproved = true
	return 1, nil
}

func (s *fakeUserStore) Delete(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return 0, nil
	}
	delete(s.users, id)
	return 1, nil
}

func (s *fakeUserStore) DeleteWithProjects(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cascadeErr != nil {
		// Simulates a failed transaction: nothing is applied.
		return s.cascadeErr
	}
	if _, ok := s.users[id]; !ok {
		return nil
	}
	s.projects.deleteAllForOwner(id)
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) ListAll() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	return users, nil
}

func (s *fakeUserStore) ListPending() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []model.User
	for _, user := range s.users {
		if !user.IsApproved {
			users = append(users, *user)
		}
	}
	return users, nil
}

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]*model.Project

	createErr error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*model.Project)}
}

func (s *fakeProjectStore) Create(project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.projects {
		if existing.OwnerID == project.OwnerID && existing.Name == project.Name {
			return fmt.Errorf("create project failed: %w", repository.ErrDuplicateKey)
		}
	}
	clone := *project
	s.projects[project.ID] = &clone
	return nil
}

func (s *fakeProjectStore) ListByOwnerID(ownerID string) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var projects []model.Project
	for _, project := range s.projects {
		if project.OwnerID == ownerID {
			projects = append(projects, *project)
		}
	}
	return projects, nil
}

func (s *fakeProjectStore) GetByOwnerAndName(ownerID, name string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, project := range s.projects {
		if project.OwnerID == ownerID && project.Name == name {
			clone := *project
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeProjectStore) UpdateDaily(ownerID, name, value string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, project := range s.projects {
		if project.OwnerID == ownerID && project.Name == name {
			project.Daily = value
			project.LastUpdate = at
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeProjectStore) DeleteByOwnerAndName(ownerID, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, project := range s.projects {
		if project.OwnerID == ownerID && project.Name == name {
			delete(s.projects, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeProjectStore) deleteAllForOwner(ownerID string) {
	for id, project := range s.projects {
		if project.OwnerID == ownerID {
			delete(s.projects, id)
		}
	}
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []model.AuditEvent
	err    error
}

func (p *fakeEventPublisher) Publish(_ context.Context, event model.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakeEventPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, 0, len(p.events))
	for _, event := range p.events {
		actions = append(actions, event.Action)
	}
	return actions
}

type fakeAuditStore struct {
	mu     sync.Mutex
	events []model.AuditEvent
	err    error
}

func (s *fakeAuditStore) add(events ...model.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// ListBySubjectID returns matching events newest first, like the repository's
// ORDER BY created_at DESC.
func (s *fakeAuditStore) ListBySubjectID(subjectID string, limit int) ([]model.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var matched []model.AuditEvent
	for _, event := range s.events {
		if event.SubjectID == subjectID {
			matched = append(matched, event)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeUserCache struct {
	mu      sync.Mutex
	entries map[string]*model.User
	deletes []string
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: make(map[string]*model.User)}
}

func (c *fakeUserCache) Get(_ context.Context, userID string) (*model.User, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, ok := c.entries[userID]
	if !ok {
		return nil, false, nil
	}
	clone := *user
	return &clone, true, nil
}

func (c *fakeUserCache) Set(_ context.Context, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *user
	c.entries[user.ID] = &clone
	return nil
}

func (c *fakeUserCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.deletes = append(c.deletes, userID)
	return nil
}

var errStoreDown = errors.New("store down")
