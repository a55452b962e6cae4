//nolint:testpackage // Testing internal repository requires same package access
package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*ContentRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewContentRepository(sqlx.NewDb(db, "postgres"), infralogger.NewNop()), mock
}

func mustCategory(t *testing.T, key string) models.Category {
	t.Helper()

	cat, ok := models.Lookup(key)
	require.True(t, ok)
	return cat
}

func TestContentRepository_List_OrdersByCreation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"id", "title", "content", "created_at", "updated_at"}).
		AddRow("a1", "Psalm 23", "The Lord is my shepherd", first, first).
		AddRow("b2", "Ecclesiastes 3", "To every thing there is a season", second, second)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, title, content, created_at, updated_at FROM readings ORDER BY created_at ASC, id ASC",
	)).WillReturnRows(rows)

	items, err := repo.List(context.Background(), mustCategory(t, models.Readings))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Psalm 23", items[0].Title)
	assert.Equal(t, "To every thing there is a season", items[1].Content)
	assert.Empty(t, items[1].Link)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_List_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT id, title, link, created_at, updated_at FROM music").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "link", "created_at", "updated_at"}))

	items, err := repo.List(context.Background(), mustCategory(t, models.Music))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestContentRepository_List_Error(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT .* FROM poems").WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), mustCategory(t, models.Poems))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list poems")
}

func TestContentRepository_Create_UsesCategoryColumn(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		key     string
		item    models.ContentItem
		query   string
		payload string
	}{
		{
			name:    "text category stores content",
			key:     models.Prayers,
			item:    models.ContentItem{ID: "p1", Title: "Prayer of St Francis", Content: "Make me an instrument", Link: "ignored"},
			query:   "INSERT INTO prayers (id, title, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
			payload: "Make me an instrument",
		},
		{
			name:    "music stores link",
			key:     models.Music,
			item:    models.ContentItem{ID: "m1", Title: "Amazing Grace", Content: "ignored", Link: "https://youtu.be/CDdvReNKKuk"},
			query:   "INSERT INTO music (id, title, link, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
			payload: "https://youtu.be/CDdvReNKKuk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			item := tt.item
			item.CreatedAt, item.UpdatedAt = now, now

			mock.ExpectExec(regexp.QuoteMeta(tt.query)).
				WithArgs(item.ID, item.Title, tt.payload, now, now).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.Create(context.Background(), mustCategory(t, tt.key), &item))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentRepository_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		result      driver.Result
		execErr     error
		wantDeleted bool
		wantErr     bool
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1), wantDeleted: true},
		{name: "no such row", result: sqlmock.NewResult(0, 0), wantDeleted: false},
		{name: "database error", execErr: errors.New("disk full"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			exp := mock.ExpectExec(regexp.QuoteMeta("DELETE FROM gospels WHERE id = $1")).WithArgs("g1")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			deleted, err := repo.Delete(context.Background(), mustCategory(t, models.Gospels), "g1")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentRepository_GetByIDs(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, title, content, created_at, updated_at FROM poems WHERE id IN ($1, $2)",
	)).
		WithArgs("p1", "p2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "updated_at"}).
			AddRow("p2", "Crossing the Bar", "Sunset and evening star", now, now))

	items, err := repo.GetByIDs(context.Background(), mustCategory(t, models.Poems), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_GetByIDs_EmptySkipsQuery(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	items, err := repo.GetByIDs(context.Background(), mustCategory(t, models.Poems), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}
