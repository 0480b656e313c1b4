package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/config"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/database"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	got := database.DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", User: "scout", Password: "secret", DBName: "scout", SSLMode: "disable",
	})

	want := "host=db port=5432 user=scout password=secret dbname=scout sslmode=disable"
	if got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS scrape_sources").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if migrateErr := database.Migrate(context.Background(), sqlx.NewDb(mockDB, "postgres")); migrateErr != nil {
		t.Fatalf("Migrate() error = %v", migrateErr)
	}

	if expErr := mock.ExpectationsWereMet(); expErr != nil {
		t.Errorf("unmet expectations: %v", expErr)
	}
}
