package service

import (
	"context"

	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/profile/model"
)

type ServiceInterface interface {
	// Auth
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.AuthResponse, error)

	// Profile
	GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*model.Profile, error)
}
