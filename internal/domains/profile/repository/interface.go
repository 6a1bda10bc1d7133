package repository

import (
	"context"

	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/profile/model"
)

// ProfileRepository copre sia la directory auth_users sia i profili
// creator. I due insiemi vivono insieme perché il provisioning pigro
// li attraversa entrambi.
type ProfileRepository interface {
	// Auth directory
	CreateUser(ctx context.Context, user *model.AuthUser) error
	GetUserByEmail(ctx context.Context, email string) (*model.AuthUser, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.AuthUser, error)

	// Profiles
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error
}
