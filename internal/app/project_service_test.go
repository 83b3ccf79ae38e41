package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdrop-tracker/internal/model"
	"airdrop-tracker/internal/repository"
)

func TestCreateProject_Defaults(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	created, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "  zksync  "})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "zksync", created.Name)
	assert.Equal(t, model.DailyUnchecked, created.Daily)
	assert.NotNil(t, created.Tags)
	assert.Empty(t, created.Tags)
	assert.False(t, created.LastUpdate.IsZero())
}

func TestCreateProject_DuplicateNamePerOwner(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	_, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	require.NoError(t, err)

	_, err = service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	assert.ErrorIs(t, err, ErrProjectExists)

	// The same name under another owner is fine.
	_, err = service.Create(CreateProjectInput{OwnerID: "u2", Name: "zksync"})
	assert.NoError(t, err)
}

func TestCreateProject_RacedDuplicateInsert(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	// The existence check passes (empty store) but the insert trips the
	// composite unique index, as it would when two creates race.
	projects.createErr = fmt.Errorf("insert project failed: %w", repository.ErrDuplicateKey)

	_, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	assert.ErrorIs(t, err, ErrProjectExists)
}

func TestCreateProject_InvalidInput(t *testing.T) {
	service := NewProjectService(newFakeProjectStore())

	_, err := service.Create(CreateProjectInput{OwnerID: "", Name: "zksync"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Create(CreateProjectInput{OwnerID: "u1", Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateDaily_RefreshesLastUpdate(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	created, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	require.NoError(t, err)
	before := created.LastUpdate

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, service.UpdateDaily("u1", "zksync", "CHECKED"))

	updated, err := projects.GetByOwnerAndName("u1", "zksync")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "CHECKED", updated.Daily)
	assert.True(t, updated.LastUpdate.After(before))
}

func TestUpdateDaily_ScopedToOwner(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	_, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	require.NoError(t, err)

	err = service.UpdateDaily("u2", "zksync", "CHECKED")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	untouched, getErr := projects.GetByOwnerAndName("u1", "zksync")
	require.NoError(t, getErr)
	assert.Equal(t, model.DailyUnchecked, untouched.Daily)
}

func TestDeleteProject_ScopedToOwner(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	_, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	require.NoError(t, err)

	err = service.Delete("u2", "zksync")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	require.NoError(t, service.Delete("u1", "zksync"))

	err = service.Delete("u1", "zksync")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListProjects_OnlyOwnRows(t *testing.T) {
	projects := newFakeProjectStore()
	service := NewProjectService(projects)

	_, err := service.Create(CreateProjectInput{OwnerID: "u1", Name: "zksync"})
	require.NoError(t, err)
	_, err = service.Create(CreateProjectInput{OwnerID: "u1", Name: "linea"})
	require.NoError(t, err)
	_, err = service.Create(CreateProjectInput{OwnerID: "u2", Name: "scroll"})
	require.NoError(t, err)

	mine, err := service.List("u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, project := range mine {
		assert.Equal(t, "u1", project.OwnerID)
	}
}
