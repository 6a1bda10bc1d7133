package service

import (
	"context"

	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/proposal/model"
	"newsletter-italiane-backend/internal/shared"
)

type ServiceInterface interface {
	// ListForActor restituisce le proposte che toccano le newsletter
	// dell'attore autenticato.
	ListForActor(ctx context.Context, actor shared.Actor) ([]*model.Proposal, error)

	// ResolveContactEmails risolve i contatti dei creator di una
	// proposta. Solo admin.
	ResolveContactEmails(ctx context.Context, actor shared.Actor, proposalID uuid.UUID) ([]model.ContactEntry, error)

	// Notify risolve i contatti e accoda un'email per ciascuno.
	// Restituisce il numero di email accodate. Solo admin.
	Notify(ctx context.Context, actor shared.Actor, proposalID uuid.UUID) (int, error)
}
