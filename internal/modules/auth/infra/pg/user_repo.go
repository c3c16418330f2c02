package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"auth/internal/modules/auth/domain"
)

const userColumns = `id, login, email, password_hash, password_salt, created_at,
	is_confirmed, confirmation_code, confirmation_expiry, recovery_code, recovery_expiry`

type UserStore struct{ db *pgxpool.Pool }

func NewUserStore(db *pgxpool.Pool) *UserStore { return &UserStore{db: db} }

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var confCode, recCode *string
	var confExp, recExp *time.Time
	if err := row.Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.PasswordSalt,
		&u.CreatedAt, &u.IsConfirmed, &confCode, &confExp, &recCode, &recExp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if confCode != nil {
		u.ConfirmationCode = *confCode
	}
	if confExp != nil {
		u.ConfirmationExpiry = *confExp
	}
	if recCode != nil {
		u.RecoveryCode = *recCode
	}
	if recExp != nil {
		u.RecoveryExpiry = *recExp
	}
	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO users (id, login, email, password_hash, password_salt, created_at,
                   is_confirmed, confirmation_code, confirmation_expiry)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Login, u.Email, u.PasswordHash, u.PasswordSalt, u.CreatedAt,
		u.IsConfirmed, nullable(u.ConfirmationCode), nullableTime(u.ConfirmationExpiry))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}

func (r *UserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *UserStore) GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE login=$1 OR email=$1`, loginOrEmail))
}

func (r *UserStore) GetUserByConfirmationCode(ctx context.Context, code string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE confirmation_code=$1`, code))
}

func (r *UserStore) GetUserByRecoveryCode(ctx context.Context, code string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE recovery_code=$1`, code))
}

func (r *UserStore) UpdateConfirmation(ctx context.Context, userID string) error {
	ct, err := r.db.Exec(ctx, `
UPDATE users SET is_confirmed=true, confirmation_code=NULL, confirmation_expiry=NULL
WHERE id=$1`, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserStore) RefreshConfirmationCode(ctx context.Context, email, code string, expiry time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
UPDATE users SET confirmation_code=$2, confirmation_expiry=$3 WHERE email=$1`,
		email, code, expiry)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *UserStore) SetRecoveryCode(ctx context.Context, email, code string, expiry time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
UPDATE users SET recovery_code=$2, recovery_expiry=$3 WHERE email=$1`,
		email, code, expiry)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *UserStore) UpdatePassword(ctx context.Context, userID string, hash, salt []byte) error {
	ct, err := r.db.Exec(ctx, `
UPDATE users SET password_hash=$2, password_salt=$3, recovery_code=NULL, recovery_expiry=NULL
WHERE id=$1`, userID, hash, salt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserStore) DeleteUser(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
