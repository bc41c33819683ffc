package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, email, password_hash, role, first_name, last_name, hospital,
               specialty, license_number, active, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (email, password_hash, role, first_name, last_name, hospital, specialty, license_number, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.FirstName,
		account.LastName,
		account.Hospital,
		account.Specialty,
		account.LicenseNumber,
		account.Active,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET password_hash=$1, role=$2, first_name=$3, last_name=$4, hospital=$5,
            specialty=$6, license_number=$7, active=$8, updated_at=NOW()
        WHERE id=$9`

	return execAffecting(ctx, r.db, query,
		account.PasswordHash,
		account.Role,
		account.FirstName,
		account.LastName,
		account.Hospital,
		account.Specialty,
		account.LicenseNumber,
		account.Active,
		account.ID,
	)
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.fetchSingle(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
}

// GetByEmail matches the email exactly as stored.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.fetchSingle(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email=$1`, email)
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, query, arg))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.FirstName,
		&account.LastName,
		&account.Hospital,
		&account.Specialty,
		&account.LicenseNumber,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
