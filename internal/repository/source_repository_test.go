package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/repository"
)

// sourceColumns lists the columns returned by scrape_sources SELECT queries.
var sourceColumns = []string{
	"id", "name", "kind", "feed_url", "query", "enabled", "created_at", "updated_at",
}

func newSourceRepo(t *testing.T) (*repository.SourceRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := repository.NewSourceRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestSourceRepository_List(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM scrape_sources ORDER BY created_at").
		WillReturnRows(
			sqlmock.NewRows(sourceColumns).
				AddRow("tc", "TechCrunch", "rss", "https://techcrunch.com/feed/", "", true, now, now).
				AddRow("gn", "Google News", "google_news", "", "seed round", false, now, now),
		)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(list))
	}
	if list[0].Kind != domain.SourceKindRSS || list[0].FeedURL != "https://techcrunch.com/feed/" {
		t.Errorf("unexpected first source: %+v", list[0])
	}
	if list[1].Kind != domain.SourceKindGoogleNews || list[1].Enabled {
		t.Errorf("unexpected second source: %+v", list[1])
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_List_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM scrape_sources").
		WillReturnRows(sqlmock.NewRows(sourceColumns))

	list, err := repo.ListSources(context.Background())
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}
	if list == nil {
		t.Error("expected empty slice, got nil")
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM scrape_sources WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sourceColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_Create_AssignsIDAndTimestamps(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO scrape_sources").
		WithArgs(sqlmock.AnyArg(), "Example", "rss", "https://example.com/feed", "", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	src := &domain.SourceConfig{
		Name:    "Example",
		Kind:    domain.SourceKindRSS,
		FeedURL: "https://example.com/feed",
		Enabled: true,
	}
	if err := repo.Create(context.Background(), src); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if src.ID == "" {
		t.Error("expected generated ID")
	}
	if src.CreatedAt.IsZero() || !src.CreatedAt.Equal(src.UpdatedAt) {
		t.Errorf("expected matching non-zero timestamps, got %v / %v", src.CreatedAt, src.UpdatedAt)
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_Update_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE scrape_sources").
		WithArgs("missing", "Name", "rss", "https://example.com/feed", "", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.SourceConfig{
		ID:      "missing",
		Name:    "Name",
		Kind:    domain.SourceKindRSS,
		FeedURL: "https://example.com/feed",
		Enabled: true,
	})
	if !errors.Is(err, repository.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_Delete(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM scrape_sources WHERE id").
		WithArgs("tc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_Toggle(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE scrape_sources\\s+SET enabled = NOT enabled").
		WithArgs("tc").
		WillReturnRows(
			sqlmock.NewRows(sourceColumns).
				AddRow("tc", "TechCrunch", "rss", "https://techcrunch.com/feed/", "", false, now, now),
		)

	src, err := repo.Toggle(context.Background(), "tc")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if src.Enabled {
		t.Error("expected source to be disabled after toggle")
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_Seed_SkipsWhenPopulated(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Seed(context.Background(), []domain.SourceConfig{{Name: "x", Kind: domain.SourceKindRSS}})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 seeded rows, got %d", n)
	}

	expectationsMet(t, mock)
}

func TestSourceRepository_Seed_EmptyTable(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newSourceRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO scrape_sources").
		WithArgs("a", "A", "rss", "https://a.example/feed", "", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO scrape_sources").
		WithArgs("b", "B", "google_news", "", "seed", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Seed(context.Background(), []domain.SourceConfig{
		{ID: "a", Name: "A", Kind: domain.SourceKindRSS, FeedURL: "https://a.example/feed", Enabled: true},
		{ID: "b", Name: "B", Kind: domain.SourceKindGoogleNews, Query: "seed"},
	})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 seeded rows, got %d", n)
	}

	expectationsMet(t, mock)
}
