package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tempo-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func sheetRows(id, userID, statut string, weekStart, weekEnd time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "user_id", "week_start", "week_end", "statut", "created_at", "updated_at"}).
		AddRow(id, userID, weekStart, weekEnd, statut, now, now)
}

func TestTimeSheetRepositoryFindByIDNormalizesFrenchStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSheetRepository(db)

	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, week_start, week_end, statut, created_at, updated_at FROM time_sheets WHERE id = $1`)).
		WithArgs("sheet-1").
		WillReturnRows(sheetRows("sheet-1", "user-1", "validé", weekStart, weekStart.AddDate(0, 0, 6)))

	sheet, err := repo.FindByID(context.Background(), "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, sheet.Status)
}

func TestTimeSheetRepositoryFindByWeekStartNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSheetRepository(db)

	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("user-1", weekStart).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByWeekStart(context.Background(), "user-1", weekStart)
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestTimeSheetRepositoryFindOrCreateCreates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSheetRepository(db)

	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("user-1", weekStart).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO time_sheets")).
		WithArgs(sqlmock.AnyArg(), "user-1", weekStart, weekEnd, models.StatusSaved, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sheet, err := repo.FindOrCreate(context.Background(), "user-1", weekStart, weekEnd)
	require.NoError(t, err)
	assert.NotEmpty(t, sheet.ID)
	assert.Equal(t, models.StatusSaved, sheet.Status)
	assert.Equal(t, weekStart, sheet.WeekStart)
}

func TestTimeSheetRepositoryFindOrCreateRecoversUniqueRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSheetRepository(db)

	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("user-1", weekStart).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO time_sheets")).
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("user-1", weekStart).
		WillReturnRows(sheetRows("sheet-winner", "user-1", "saved", weekStart, weekEnd))

	sheet, err := repo.FindOrCreate(context.Background(), "user-1", weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, "sheet-winner", sheet.ID)
}

func TestTimeSheetRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSheetRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE time_sheets SET statut = $1, updated_at = $2 WHERE id = $3`)).
		WithArgs(models.StatusSubmitted, sqlmock.AnyArg(), "sheet-99").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "sheet-99", models.StatusSubmitted)
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestTimeSheetRepositoryStatistics(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSheetRepository(db)

	rows := sqlmock.NewRows([]string{"total_entries", "total_hc", "total_hnc", "total_heures"}).
		AddRow(4, 28.5, 7.0, 35.5)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("sheet-1").
		WillReturnRows(rows)

	stats, err := repo.Statistics(context.Background(), "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEntries)
	assert.InDelta(t, 28.5, stats.TotalHC, 1e-9)
	assert.InDelta(t, 35.5, stats.TotalHours, 1e-9)
}
