package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/model"
)

func testTime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestCreate_InsertedAndConflict(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	s := &model.Store{UserID: "u1", Name: "Black Wax Records", Currency: "usd"}

	// fresh user: one row inserted
	mock.ExpectExec(`INSERT INTO stores`).WillReturnResult(sqlmock.NewResult(0, 1))
	created, err := r.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true for a fresh user")
	}

	// user already has a store: ON CONFLICT DO NOTHING affects zero rows
	mock.ExpectExec(`INSERT INTO stores`).WillReturnResult(sqlmock.NewResult(0, 0))
	created, err = r.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created {
		t.Fatalf("expected created=false when the unique constraint fires")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByUser_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	mock.ExpectQuery(`SELECT \* FROM stores WHERE user_id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s, err := r.FindByUser(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil store for an unknown user, got %+v", s)
	}
}

func TestFindByUser_Found(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewPGRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "description", "image_url", "currency", "created_at", "updated_at"}).
		AddRow("s1", "u1", "Black Wax Records", nil, nil, "usd", testTime(t), testTime(t))
	mock.ExpectQuery(`SELECT \* FROM stores WHERE user_id`).
		WithArgs("u1").
		WillReturnRows(rows)

	s, err := r.FindByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if s == nil || s.ID != "s1" || s.Currency != "usd" {
		t.Fatalf("unexpected store: %+v", s)
	}
}
