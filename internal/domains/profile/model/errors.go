package model

import "errors"

// ========================================
// ERROR CODES
// ========================================

const (
	ErrCodeUserNotFound       = "PRF001"
	ErrCodeEmailTaken         = "PRF002"
	ErrCodeInvalidCredentials = "PRF003"
	ErrCodeProfileNotFound    = "PRF004"
	ErrCodeAvatarUpload       = "PRF005"
)

// ========================================
// SENTINEL ERRORS
// ========================================

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidImage       = errors.New("invalid image")
)

// ProfileError porta un codice stabile accanto al messaggio,
// stesso contratto degli errori del dominio newsletter.
type ProfileError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProfileError) Error() string {
	return e.Message
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// ========================================
// CONSTRUCTORS
// ========================================

func NewEmailTakenError() *ProfileError {
	return &ProfileError{
		Code:    ErrCodeEmailTaken,
		Message: "Email già registrata",
		Err:     ErrEmailTaken,
	}
}

func NewInvalidCredentialsError() *ProfileError {
	return &ProfileError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Credenziali non valide",
		Err:     ErrInvalidCredentials,
	}
}

func NewUserNotFoundError() *ProfileError {
	return &ProfileError{
		Code:    ErrCodeUserNotFound,
		Message: "Utente non trovato",
		Err:     ErrUserNotFound,
	}
}

func NewInvalidImageError(reason error) *ProfileError {
	return &ProfileError{
		Code:    ErrCodeAvatarUpload,
		Message: "Immagine non valida",
		Err:     errors.Join(ErrInvalidImage, reason),
	}
}
