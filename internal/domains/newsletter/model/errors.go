package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNewsletterNotFound = "NWS001"
	ErrCodeValidation         = "NWS002"
	ErrCodeForbidden          = "NWS003"
	ErrCodeInvalidStatus      = "NWS004"
	ErrCodeAlreadyModerated   = "NWS005"
)

// Sentinel errors
var (
	ErrNewsletterNotFound = errors.New("newsletter not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidStatus      = errors.New("invalid review status")
	ErrAlreadyModerated   = errors.New("newsletter already moderated")
)

// NewsletterError custom error type
type NewsletterError struct {
	Code    string
	Message string
	Err     error
}

func (e *NewsletterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NewsletterError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewNotFoundError() *NewsletterError {
	return &NewsletterError{
		Code:    ErrCodeNewsletterNotFound,
		Message: "Newsletter non trovata",
		Err:     ErrNewsletterNotFound,
	}
}

func NewForbiddenError() *NewsletterError {
	return &NewsletterError{
		Code:    ErrCodeForbidden,
		Message: "Operazione non consentita",
		Err:     ErrForbidden,
	}
}

func NewInvalidStatusError(status string) *NewsletterError {
	return &NewsletterError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf("Stato di revisione non valido: %s", status),
		Err:     ErrInvalidStatus,
	}
}

func NewAlreadyModeratedError(status ReviewStatus) *NewsletterError {
	return &NewsletterError{
		Code:    ErrCodeAlreadyModerated,
		Message: fmt.Sprintf("La newsletter è già in stato %s", status),
		Err:     ErrAlreadyModerated,
	}
}
