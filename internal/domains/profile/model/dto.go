package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("L'email è obbligatoria"),
			is.EmailFormat.Error("L'email non è valida"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("La password è obbligatoria"),
			validation.RuneLength(8, 0).Error("La password deve essere di almeno 8 caratteri"),
			validation.RuneLength(0, 72).Error("La password può contenere al massimo 72 caratteri"),
		),
		validation.Field(&r.FirstName,
			validation.RuneLength(0, 60).Error("Il nome può contenere al massimo 60 caratteri"),
		),
		validation.Field(&r.LastName,
			validation.RuneLength(0, 60).Error("Il cognome può contenere al massimo 60 caratteri"),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("L'email è obbligatoria"),
			is.EmailFormat.Error("L'email non è valida"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("La password è obbligatoria"),
		),
	)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken,
			validation.Required.Error("Il refresh token è obbligatorio"),
		),
	)
}

// ========================================
// PROFILE DTOs
// ========================================

// UpdateProfileRequest è una patch parziale: i campi nil restano invariati.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.RuneLength(0, 60).Error("Il nome può contenere al massimo 60 caratteri"),
		),
		validation.Field(&r.LastName,
			validation.RuneLength(0, 60).Error("Il cognome può contenere al massimo 60 caratteri"),
		),
		validation.Field(&r.Email,
			is.EmailFormat.Error("L'email non è valida"),
		),
		validation.Field(&r.Bio,
			validation.RuneLength(0, 500).Error("La bio può contenere al massimo 500 caratteri"),
		),
	)
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil && r.Bio == nil
}

// ApplyTo copia i campi presenti sul profilo esistente.
func (r UpdateProfileRequest) ApplyTo(p *Profile) {
	if r.FirstName != nil {
		p.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		p.LastName = *r.LastName
	}
	if r.Email != nil {
		p.Email = r.Email
	}
	if r.Bio != nil {
		p.Bio = r.Bio
	}
}
