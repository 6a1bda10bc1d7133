package repository

import (
	"context"

	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/proposal/model"
)

type ProposalRepository interface {
	// GetByIDWithNewsletters carica la proposta e le newsletter
	// collegate in un colpo solo: la risoluzione contatti le vuole tutte.
	GetByIDWithNewsletters(ctx context.Context, id uuid.UUID) (*model.Proposal, error)

	// ListByOwner restituisce le proposte che toccano almeno una
	// newsletter dell'owner indicato.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Proposal, error)
}
