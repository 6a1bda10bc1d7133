package model

import "errors"

const (
	ErrCodeProposalNotFound = "PRP001"
	ErrCodeForbidden        = "PRP002"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrForbidden        = errors.New("operation not allowed")
)

type ProposalError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProposalError) Error() string {
	return e.Message
}

func (e *ProposalError) Unwrap() error {
	return e.Err
}

func NewNotFoundError() *ProposalError {
	return &ProposalError{
		Code:    ErrCodeProposalNotFound,
		Message: "Proposta non trovata",
		Err:     ErrProposalNotFound,
	}
}

func NewForbiddenError() *ProposalError {
	return &ProposalError{
		Code:    ErrCodeForbidden,
		Message: "Operazione non consentita",
		Err:     ErrForbidden,
	}
}
