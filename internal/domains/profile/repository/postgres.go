package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"newsletter-italiane-backend/internal/domains/profile/model"
)

type postgresProfileRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

// ========================================
// AUTH DIRECTORY
// ========================================

func (r *postgresProfileRepository) CreateUser(ctx context.Context, user *model.AuthUser) error {
	query := `
		INSERT INTO auth_users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresProfileRepository) GetUserByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM auth_users
		WHERE email = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *postgresProfileRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.AuthUser, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM auth_users
		WHERE id = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *postgresProfileRepository) scanUser(row pgx.Row) (*model.AuthUser, error) {
	var u model.AuthUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// ========================================
// PROFILES
// ========================================

const profileColumns = `id, user_id, first_name, last_name, email, bio, avatar_url, created_at, updated_at`

func (r *postgresProfileRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, first_name, last_name, email, bio, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.UserID, profile.FirstName, profile.LastName,
		profile.Email, profile.Bio, profile.AvatarURL, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *postgresProfileRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1`

	var p model.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName,
		&p.Email, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresProfileRepository) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $2, last_name = $3, email = $4, bio = $5,
		    avatar_url = $6, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		profile.ID, profile.FirstName, profile.LastName,
		profile.Email, profile.Bio, profile.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}
