package app

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"airdrop-tracker/internal/model"
	"airdrop-tracker/internal/repository"
)

var (
	ErrProjectExists   = errors.New("project name already exists")
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectStore is the project record contract; every method is scoped by the
// owner id so one user can never see or touch another user's rows.
type ProjectStore interface {
	Create(project *model.Project) error
	ListByOwnerID(ownerID string) ([]model.Project, error)
	GetByOwnerAndName(ownerID, name string) (*model.Project, error)
	UpdateDaily(ownerID, name, value string, at time.Time) (int64, error)
	DeleteByOwnerAndName(ownerID, name string) (int64, error)
}

type ProjectService struct {
	projects ProjectStore
}

func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

type CreateProjectInput struct {
	OwnerID  string
	Name     string
	Twitter  string
	Discord  string
	Telegram string
	Wallet   string
	Email    string
	Github   string
	Website  string
	Notes    string
	Tags     []string
}

func (s *ProjectService) List(ownerID string) ([]model.Project, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.projects.ListByOwnerID(ownerID)
}

func (s *ProjectService) Create(input CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	if input.OwnerID == "" || name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.projects.GetByOwnerAndName(input.OwnerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProjectExists
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	project := &model.Project{
		ID:         uuid.NewString(),
		OwnerID:    input.OwnerID,
		Name:       name,
		Twitter:    input.Twitter,
		Discord:    input.Discord,
		Telegram:   input.Telegram,
		Wallet:     input.Wallet,
		Email:      input.Email,
		Github:     input.Github,
		Website:    input.Website,
		Notes:      input.Notes,
		Tags:       tags,
		Daily:      model.DailyUnchecked,
		LastUpdate: time.Now().UTC(),
	}
	if err := s.projects.Create(project); err != nil {
		// Composite unique index on (owner_id, name) catches the race
		// between the existence check and the insert.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrProjectExists
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) UpdateDaily(ownerID, name, value string) error {
	name = strings.TrimSpace(name)
	if ownerID == "" || name == "" || strings.TrimSpace(value) == "" {
		return ErrInvalidInput
	}

	rows, err := s.projects.UpdateDaily(ownerID, name, value, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *ProjectService) Delete(ownerID, name string) error {
	name = strings.TrimSpace(name)
	if ownerID == "" || name == "" {
		return ErrInvalidInput
	}

	rows, err := s.projects.DeleteByOwnerAndName(ownerID, name)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProjectNotFound
	}
	return nil
}
