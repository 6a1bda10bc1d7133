package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-italiane-backend/internal/domains/profile/model"
	"newsletter-italiane-backend/internal/infrastructure/storage"
	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/pkg/jwt"
)

// =====================================================
// FAKES
// =====================================================

type fakeProfileRepo struct {
	usersByEmail map[string]*model.AuthUser
	usersByID    map[uuid.UUID]*model.AuthUser
	profiles     map[uuid.UUID]*model.Profile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		usersByEmail: make(map[string]*model.AuthUser),
		usersByID:    make(map[uuid.UUID]*model.AuthUser),
		profiles:     make(map[uuid.UUID]*model.Profile),
	}
}

func (r *fakeProfileRepo) CreateUser(_ context.Context, user *model.AuthUser) error {
	if _, ok := r.usersByEmail[user.Email]; ok {
		return model.ErrEmailTaken
	}
	cp := *user
	r.usersByEmail[user.Email] = &cp
	r.usersByID[user.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetUserByEmail(_ context.Context, email string) (*model.AuthUser, error) {
	u, ok := r.usersByEmail[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeProfileRepo) GetUserByID(_ context.Context, id uuid.UUID) (*model.AuthUser, error) {
	u, ok := r.usersByID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeProfileRepo) CreateProfile(_ context.Context, profile *model.Profile) error {
	cp := *profile
	r.profiles[profile.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) UpdateProfile(_ context.Context, profile *model.Profile) error {
	for userID, p := range r.profiles {
		if p.ID == profile.ID {
			cp := *profile
			r.profiles[userID] = &cp
			return nil
		}
	}
	return model.ErrProfileNotFound
}

type fakeStorage struct {
	uploads map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.uploads[key] = data
	return "https://cdn.example.it/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func newTestService() (ServiceInterface, *fakeProfileRepo, *fakeStorage) {
	repo := newFakeProfileRepo()
	fakeStore := newFakeStorage()
	manager := jwt.NewManager("test-secret", 15, 168)
	return NewProfileService(repo, manager, fakeStore, storage.NewImageProcessor()), repo, fakeStore
}

// pngBytes genera un PNG minimale valido per i test di upload.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validRegister() model.RegisterRequest {
	return model.RegisterRequest{
		Email:     "maria@example.it",
		Password:  "password-sicura",
		FirstName: "Maria",
		LastName:  "Rossi",
	}
}

// =====================================================
// AUTH
// =====================================================

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestService()

	auth, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, shared.RoleCreator, auth.User.Role, "new accounts default to creator")
	assert.NotEqual(t, "password-sicura", auth.User.PasswordHash, "password stored hashed")

	profile, ok := repo.profiles[auth.User.ID]
	require.True(t, ok, "profile created at registration")
	assert.Equal(t, "Maria", profile.FirstName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRegister()
	req.Password = "corta"
	_, err := svc.Register(context.Background(), req)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		auth, err := svc.Login(context.Background(), model.LoginRequest{
			Email:    "maria@example.it",
			Password: "password-sicura",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, auth.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginRequest{
			Email:    "maria@example.it",
			Password: "sbagliata-del-tutto",
		})
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error as a wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginRequest{
			Email:    "nessuno@example.it",
			Password: "password-sicura",
		})
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	svc, _, _ := newTestService()

	auth, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), auth.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, auth.User.ID, refreshed.User.ID)

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(context.Background(), auth.AccessToken)
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(context.Background(), "non-un-token")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

// =====================================================
// LAZY PROVISIONING
// =====================================================

func TestGetOrCreateProfileProvisionsLazily(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := uuid.New()

	profile, err := svc.GetOrCreateProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Empty(t, profile.FirstName)

	// La seconda lettura ritorna lo stesso profilo, non ne crea un altro.
	again, err := svc.GetOrCreateProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
	assert.Len(t, repo.profiles, 1)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()
	name := "Giulia"
	email := "giulia@example.it"

	updated, err := svc.UpdateProfile(context.Background(), userID, model.UpdateProfileRequest{
		FirstName: &name,
		Email:     &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Giulia", updated.FirstName)
	assert.Equal(t, "giulia@example.it", updated.ContactEmail())
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	svc, _, _ := newTestService()
	bad := "non-una-email"

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), model.UpdateProfileRequest{Email: &bad})
	assert.Error(t, err)
}

func TestUploadAvatar(t *testing.T) {
	svc, _, store := newTestService()
	userID := uuid.New()

	profile, err := svc.UploadAvatar(context.Background(), userID, pngBytes(t), "image/png")
	require.NoError(t, err)

	require.NotNil(t, profile.AvatarURL)
	assert.Contains(t, *profile.AvatarURL, userID.String())
	assert.Contains(t, *profile.AvatarURL, "_full.jpg", "the profile points at the full-size variant")
	assert.Len(t, store.uploads, 2, "full + thumb variants")
}

func TestUploadAvatarRejectsNonImages(t *testing.T) {
	svc, _, store := newTestService()

	_, err := svc.UploadAvatar(context.Background(), uuid.New(), []byte("non-una-immagine"), "image/png")
	assert.ErrorIs(t, err, model.ErrInvalidImage)
	assert.Empty(t, store.uploads, "nothing uploaded on validation failure")
}
