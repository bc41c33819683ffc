package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/charting-service/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var accountCols = []string{"id", "email", "password_hash", "role", "first_name", "last_name", "hospital",
	"specialty", "license_number", "active", "created_at", "updated_at"}

func TestAccountRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)
	now := time.Now()

	account := &domain.Account{
		Email:         "a@x.org",
		PasswordHash:  "$2a$hash",
		Role:          domain.RoleNurse,
		FirstName:     "Ann",
		LastName:      "Lee",
		Hospital:      "General",
		Specialty:     "Cardiologist",
		LicenseNumber: "L-1",
		Active:        true,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("a@x.org", "$2a$hash", domain.RoleNurse, "Ann", "Lee", "General", "Cardiologist", "L-1", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	require.NoError(t, repo.Create(context.Background(), account))
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, now, account.CreatedAt)
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=$1")).
		WithArgs("a@x.org").
		WillReturnRows(pgxmock.NewRows(accountCols).AddRow(
			int64(7), "a@x.org", "$2a$hash", domain.RoleDoctor, "Ann", "Lee", "General",
			"Physician", "L-1", true, now, now,
		))

	account, err := repo.GetByEmail(context.Background(), "a@x.org")
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, domain.RoleDoctor, account.Role)
	assert.Equal(t, "Ann Lee", account.FullName())
}

func TestAccountRepository_GetByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=$1")).
		WithArgs("missing@x.org").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@x.org")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAccountRepository_ExistsByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("a@x.org").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "a@x.org")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountRepository_Update_NoRows(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), false, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.Account{ID: 99, Role: domain.RoleNurse})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(errors.Join(errors.New("insert"), &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
