package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, email_verified, verification_code, verification_code_expires, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`,
		a.ID, a.Email, a.PasswordHash, a.EmailVerified, a.VerificationCode, a.VerificationCodeExpires, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET email_verified = TRUE, verification_code = NULL, verification_code_expires = NULL,
		        updated_at = NOW()
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}
	return expectOneRow(result)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	var (
		a       domain.Account
		code    sql.NullString
		expires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, email_verified, verification_code, verification_code_expires, created_at, updated_at
		 FROM accounts `+where,
		arg,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.EmailVerified, &code, &expires, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	a.VerificationCode = code.String
	if expires.Valid {
		t := expires.Time
		a.VerificationCodeExpires = &t
	}
	return &a, nil
}

var _ domain.AccountRepository = (*AccountRepository)(nil)
