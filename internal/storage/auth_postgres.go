package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUsersRepository is the pgx-backed implementation of UsersRepository.
type pgUsersRepository struct {
	pool *pgxpool.Pool
}

// NewUsersRepository creates a UsersRepository backed by the given connection pool.
func NewUsersRepository(pool *pgxpool.Pool) UsersRepository {
	return &pgUsersRepository{pool: pool}
}

func (r *pgUsersRepository) CreateUser(ctx context.Context, u *User) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var createdAt pgtype.Timestamp
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, full_name, phone, role)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, active, created_at`,
		u.Username, u.PasswordHash, u.FullName, pgtext(u.Phone), u.Role,
	).Scan(&u.ID, &u.Active, &createdAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("storage: CreateUser: username %q: %w", u.Username, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: CreateUser: %w", err)
	}

	u.CreatedAt = createdAt.Time
	return u, nil
}

func (r *pgUsersRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, full_name, phone, role, active, created_at
         FROM users WHERE username = $1 AND active = TRUE`,
		username))
}

func (r *pgUsersRepository) GetUserByID(ctx context.Context, id int32) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, full_name, phone, role, active, created_at
         FROM users WHERE id = $1`,
		id))
}

func (r *pgUsersRepository) scanUser(row pgx.Row) (*User, error) {
	var (
		u         User
		phone     pgtype.Text
		createdAt pgtype.Timestamp
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName,
		&phone, &u.Role, &u.Active, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: scan user: %w", err)
	}

	u.Phone = phone.String
	u.CreatedAt = createdAt.Time
	return &u, nil
}

func (r *pgUsersRepository) DeactivateUser(ctx context.Context, id int32) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE users SET active = FALSE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("storage: DeactivateUser: %w", err)
	}
	return nil
}

// pgRefreshTokensRepository is the pgx-backed implementation of RefreshTokensRepository.
type pgRefreshTokensRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokensRepository creates a RefreshTokensRepository backed by the given pool.
func NewRefreshTokensRepository(pool *pgxpool.Pool) RefreshTokensRepository {
	return &pgRefreshTokensRepository{pool: pool}
}

func (r *pgRefreshTokensRepository) StoreRefreshToken(ctx context.Context, tokenHash string, userID int32, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		tokenHash, userID, pgtype.Timestamp{Time: expiresAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("storage: StoreRefreshToken: %w", err)
	}
	return nil
}

func (r *pgRefreshTokensRepository) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		t         RefreshToken
		expiresAt pgtype.Timestamp
		createdAt pgtype.Timestamp
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, token_hash, user_id, expires_at, revoked, created_at
         FROM refresh_tokens WHERE token_hash = $1`,
		tokenHash,
	).Scan(&t.ID, &t.TokenHash, &t.UserID, &expiresAt, &t.Revoked, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: GetRefreshToken: %w", err)
	}

	t.ExpiresAt = expiresAt.Time
	t.CreatedAt = createdAt.Time
	return &t, nil
}

func (r *pgRefreshTokensRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("storage: RevokeRefreshToken: %w", err)
	}
	return nil
}

func (r *pgRefreshTokensRepository) RevokeAllUserTokens(ctx context.Context, userID int32) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("storage: RevokeAllUserTokens: %w", err)
	}
	return nil
}

// pgtext builds a pgtype.Text from a Go string.
// Empty strings are stored as NULL (Valid=false).
func pgtext(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
