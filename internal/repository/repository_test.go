package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &database.DB{DB: db}, mock
}

func TestUserRepoGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT id, email, username, full_name, password_hash").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, hash, err := repo.GetByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error: %v", err)
	}
	if user != nil || hash != "" {
		t.Fatalf("expected nil user for missing email, got %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepoGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "email", "username", "full_name", "password_hash", "role",
		"verified", "is_active", "phone", "wilaya", "created_at",
	}).AddRow("u1", "a@b.dz", "amine", "Amine B", "hash", "user", true, true, "0550", "Boumerdès", now)

	mock.ExpectQuery("SELECT id, email, username, full_name, password_hash").
		WithArgs("a@b.dz").
		WillReturnRows(rows)

	user, hash, err := repo.GetByEmail(context.Background(), "a@b.dz")
	if err != nil {
		t.Fatalf("GetByEmail() error: %v", err)
	}
	if user == nil || user.ID != "u1" || user.Role != models.RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}
	if hash != "hash" {
		t.Errorf("expected password hash to be returned, got %q", hash)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestListingRepoUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepo(db)

	mock.ExpectExec("UPDATE listings SET status").
		WithArgs("l1", models.ListingStatusDeleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), "l1", models.ListingStatusDeleted); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestListingRepoIncrementViews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepo(db)

	mock.ExpectExec("UPDATE listings SET views = views \\+ 1").
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncrementViews(context.Background(), "l1"); err != nil {
		t.Fatalf("IncrementViews() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestSettingsRepoUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepo(db)

	value, _ := json.Marshal(models.CtaSettings{Enabled: true, TextFr: "Vendez ici"})

	mock.ExpectExec("INSERT INTO site_settings").
		WithArgs(models.SettingKeyCta, value, "admin-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.SiteSetting{
		Key:       models.SettingKeyCta,
		Value:     value,
		UpdatedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestSettingsRepoGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepo(db)

	mock.ExpectQuery("SELECT key, value, updated_by, updated_at FROM site_settings").
		WithArgs("footer").
		WillReturnRows(sqlmock.NewRows([]string{"key"}))

	setting, err := repo.Get(context.Background(), "footer")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if setting != nil {
		t.Fatalf("expected nil for unconfigured key, got %+v", setting)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
