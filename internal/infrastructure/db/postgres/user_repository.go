package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// failures, used to detect duplicate email registrations.
const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, language_preference, theme, timezone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	created := *user
	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		nullable(user.Name),
		nullable(user.Language),
		nullable(user.Theme),
		nullable(user.Timezone),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, name, language_preference, theme, timezone,
		       avatar_url, avatar_key, created_at, updated_at
		FROM users
		WHERE ` + where

	var (
		u                                       domain.User
		name, lang, theme, tz, avatarURL, avKey sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash,
		&name, &lang, &theme, &tz, &avatarURL, &avKey,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u.Name = name.String
	u.Language = lang.String
	u.Theme = theme.String
	u.Timezone = tz.String
	u.AvatarURL = avatarURL.String
	u.AvatarKey = avKey.String
	return &u, nil
}

func (r *UserRepository) UpdateSettings(ctx context.Context, id int64, settings domain.Settings) error {
	query := `
		UPDATE users
		SET language_preference = $1, theme = $2, timezone = $3, updated_at = now()
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, settings.Language, settings.Theme, settings.Timezone, id)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, url, key string) error {
	query := `
		UPDATE users
		SET avatar_url = $1, avatar_key = $2, updated_at = now()
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, url, key, id)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// nullable maps an empty string onto SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
