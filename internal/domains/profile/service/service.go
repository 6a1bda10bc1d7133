package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"newsletter-italiane-backend/internal/domains/profile/model"
	"newsletter-italiane-backend/internal/domains/profile/repository"
	"newsletter-italiane-backend/internal/infrastructure/storage"
	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/pkg/jwt"
	"newsletter-italiane-backend/pkg/logger"
)

// AvatarStorage è il sottoinsieme dello storage a oggetti usato dal
// profilo. Interfaccia locale per poter testare il servizio senza MinIO.
type AvatarStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type profileService struct {
	repo      repository.ProfileRepository
	jwt       *jwt.Manager
	storage   AvatarStorage
	processor *storage.ImageProcessor
}

func NewProfileService(repo repository.ProfileRepository, jwtManager *jwt.Manager, avatarStorage AvatarStorage, processor *storage.ImageProcessor) ServiceInterface {
	return &profileService{
		repo:      repo,
		jwt:       jwtManager,
		storage:   avatarStorage,
		processor: processor,
	}
}

// ========================================
// AUTH
// ========================================

func (s *profileService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.AuthUser{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         shared.RoleCreator,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.NewEmailTakenError()
		}
		return nil, err
	}

	// Il profilo nasce subito con i dati della registrazione; per gli
	// utenti provisionati altrove interviene GetOrCreateProfile.
	profile := &model.Profile{
		ID:        uuid.New(),
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		logger.Error("failed to create profile at registration", err)
	}

	return s.issueTokens(user)
}

func (s *profileService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Stessa risposta di una password sbagliata: il login non
			// rivela quali email esistono.
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	return s.issueTokens(user)
}

func (s *profileService) RefreshToken(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *profileService) issueTokens(user *model.AuthUser) (*model.AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ========================================
// PROFILE
// ========================================

// GetOrCreateProfile è il provisioning pigro: la prima lettura di un
// utente senza profilo ne crea uno vuoto invece di rispondere 404.
func (s *profileService) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	profile = &model.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	logger.Info("Provisioned empty profile", map[string]interface{}{
		"user_id": userID.String(),
	})
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return profile, nil
	}

	req.ApplyTo(profile)
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*model.Profile, error) {
	profile, err := s.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return nil, model.NewInvalidImageError(err)
	}

	// Tutte le varianti escono in JPEG, a prescindere dal formato caricato.
	variants, err := s.processor.ProcessAvatar(data)
	if err != nil {
		return nil, model.NewInvalidImageError(err)
	}

	var avatarURL string
	for name, payload := range variants {
		key := path.Join("avatars", userID.String()+"_"+name+".jpg")
		url, err := s.storage.Upload(ctx, key, payload, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("failed to upload avatar variant %s: %w", name, err)
		}
		if name == "full" {
			avatarURL = url
		}
	}

	profile.AvatarURL = &avatarURL
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
