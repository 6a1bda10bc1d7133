package model

import (
	"time"

	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/shared"
)

// AuthUser è la riga della directory di autenticazione. La password
// viaggia solo come hash bcrypt, mai in chiaro oltre il login.
type AuthUser struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         shared.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Profile è il profilo pubblico del creator. Viene creato pigramente
// alla prima lettura: un utente autenticato ha sempre un profilo,
// anche se non ne ha mai compilato uno.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     *string    `json:"email,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FullName concatena nome e cognome, tollerando i profili appena
// provisionati che non hanno ancora nessuno dei due.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return ""
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// ContactEmail restituisce l'email di contatto preferita del profilo,
// vuota se il creator non ne ha impostata una.
func (p *Profile) ContactEmail() string {
	if p.Email != nil {
		return *p.Email
	}
	return ""
}

// AuthResponse è il payload restituito da register e login.
type AuthResponse struct {
	User         *AuthUser `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}
