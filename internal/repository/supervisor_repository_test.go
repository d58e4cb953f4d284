package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSupervisorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO time_sheet_supervisors")).
		WithArgs(sqlmock.AnyArg(), "collab-1", "supervisor-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	relation, err := repo.Create(context.Background(), "collab-1", "supervisor-1")
	require.NoError(t, err)
	assert.NotEmpty(t, relation.ID)
	assert.Equal(t, "collab-1", relation.CollaboratorID)
}

func TestSupervisorRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSupervisorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO time_sheet_supervisors")).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), "collab-1", "supervisor-1")
	assert.Equal(t, ErrDuplicateRelation, err)
}

func TestSupervisorRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSupervisorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM time_sheet_supervisors")).
		WithArgs("collab-1", "supervisor-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "collab-1", "supervisor-9")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestSupervisorRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSupervisorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM time_sheet_supervisors")).
		WithArgs("collab-1", "supervisor-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), "collab-1", "supervisor-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSupervisorRepositoryListForCollaborator(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSupervisorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "collaborateur_id", "supervisor_id", "created_at", "supervisor_nom", "supervisor_email"}).
		AddRow("rel-1", "collab-1", "supervisor-1", time.Now().UTC(), "Jean Martin", "jean@example.com")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("collab-1").
		WillReturnRows(rows)

	relations, err := repo.ListForCollaborator(context.Background(), "collab-1")
	require.NoError(t, err)
	require.Len(t, relations, 1)
	require.NotNil(t, relations[0].SupervisorName)
	assert.Equal(t, "Jean Martin", *relations[0].SupervisorName)
}
