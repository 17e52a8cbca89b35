package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campuslink/campuslink/internal/common"
	"github.com/campuslink/campuslink/internal/server/models"
)

var userColumns = []string{"id", "name", "phone_no", "email", "user_name", "password_hash", "gender", "is_admin", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleUser() *models.User {
	return &models.User{
		ID:           "u-1",
		Name:         "Alice",
		PhoneNo:      "5550100",
		Email:        "alice@x.edu",
		UserName:     "alice",
		PasswordHash: "$2a$10$hash",
		Gender:       "female",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*phone_no,\s*email,\s*user_name,\s*password_hash,\s*gender,\s*is_admin\)`

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(created)
	mock.ExpectQuery(q).
		WithArgs("u-1", "Alice", "5550100", "alice@x.edu", "alice", "$2a$10$hash", "female", false).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), sampleUser())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), sampleUser())
	if !errors.Is(err, common.ErrorDuplicateEmail) {
		t.Fatalf("want common.ErrorDuplicateEmail, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), sampleUser())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "Alice", "5550100", "alice@x.edu", "alice", "$2a$10$hash", "female", false, time.Now())
	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("alice@x.edu").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@x.edu")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "alice@x.edu" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("ghost@x.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.edu")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("DeleteByID error: %v", err)
	}
	if !deleted {
		t.Fatalf("expected deletion to be reported")
	}

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.DeleteByID(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("DeleteByID error: %v", err)
	}
	if deleted {
		t.Fatalf("no row removed, deletion must not be reported")
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "Alice", "5550100", "alice@x.edu", "alice", "h1", "female", false, time.Now()).
		AddRow("u-2", "Bob", "5550101", "bob@x.edu", "bob", "h2", "male", true, time.Now())
	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+ORDER\s+BY\s+created_at`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Email != "bob@x.edu" || !got[1].IsAdmin {
		t.Fatalf("unexpected list: %+v", got)
	}
}
