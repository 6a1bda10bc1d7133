package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	profilemodel "newsletter-italiane-backend/internal/domains/profile/model"
	"newsletter-italiane-backend/internal/domains/proposal/model"
	"newsletter-italiane-backend/internal/domains/proposal/repository"
	"newsletter-italiane-backend/internal/infrastructure/email"
	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/pkg/logger"
)

// ContactDirectory è il sottoinsieme del dominio profile che serve
// alla risoluzione contatti: profilo creator e directory di login.
type ContactDirectory interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*profilemodel.Profile, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*profilemodel.AuthUser, error)
}

// TaskEnqueuer copre la sola Enqueue di *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type proposalService struct {
	repo      repository.ProposalRepository
	directory ContactDirectory
	tasks     TaskEnqueuer
}

func NewProposalService(repo repository.ProposalRepository, directory ContactDirectory, tasks TaskEnqueuer) ServiceInterface {
	return &proposalService{
		repo:      repo,
		directory: directory,
		tasks:     tasks,
	}
}

func (s *proposalService) ListForActor(ctx context.Context, actor shared.Actor) ([]*model.Proposal, error) {
	proposals, err := s.repo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if proposals == nil {
		proposals = []*model.Proposal{}
	}
	return proposals, nil
}

// ========================================
// CONTACT RESOLUTION
// ========================================

// contactResolver prova a ricavare un indirizzo per la newsletter data.
// Restituisce ("", false) quando il tier non ha nulla da offrire.
type contactResolver func(ctx context.Context, n *model.LinkedNewsletter) (string, bool)

func (s *proposalService) resolverChain() []contactResolver {
	return []contactResolver{
		// Tier 1: email di contatto del profilo creator.
		func(ctx context.Context, n *model.LinkedNewsletter) (string, bool) {
			profile, err := s.directory.GetProfileByUserID(ctx, n.OwnerID)
			if err != nil {
				if !errors.Is(err, profilemodel.ErrProfileNotFound) {
					logger.Warn("Contact resolution: profile lookup failed", map[string]interface{}{
						"owner_id": n.OwnerID.String(),
						"error":    err.Error(),
					})
				}
				return "", false
			}
			if addr := profile.ContactEmail(); addr != "" {
				return addr, true
			}
			return "", false
		},
		// Tier 2: author_email dichiarata sulla newsletter stessa.
		func(ctx context.Context, n *model.LinkedNewsletter) (string, bool) {
			if n.AuthorEmail != "" {
				return n.AuthorEmail, true
			}
			return "", false
		},
		// Tier 3: email di login dalla directory auth.
		func(ctx context.Context, n *model.LinkedNewsletter) (string, bool) {
			user, err := s.directory.GetUserByID(ctx, n.OwnerID)
			if err != nil {
				if !errors.Is(err, profilemodel.ErrUserNotFound) {
					logger.Warn("Contact resolution: directory lookup failed", map[string]interface{}{
						"owner_id": n.OwnerID.String(),
						"error":    err.Error(),
					})
				}
				return "", false
			}
			if user.Email != "" {
				return user.Email, true
			}
			return "", false
		},
	}
}

// ResolveContactEmails attraversa la catena di resolver per ogni
// newsletter collegata. Best effort: le newsletter senza alcun
// indirizzo utilizzabile vengono saltate, mai segnalate come errore.
func (s *proposalService) ResolveContactEmails(ctx context.Context, actor shared.Actor, proposalID uuid.UUID) ([]model.ContactEntry, error) {
	if !actor.IsAdmin() {
		return nil, model.NewForbiddenError()
	}

	proposal, err := s.repo.GetByIDWithNewsletters(ctx, proposalID)
	if err != nil {
		if errors.Is(err, model.ErrProposalNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, err
	}

	chain := s.resolverChain()
	entries := []model.ContactEntry{}
	seenOwners := make(map[uuid.UUID]bool)
	seenEmails := make(map[string]bool)

	for _, n := range proposal.Newsletters {
		if seenOwners[n.OwnerID] {
			continue
		}
		seenOwners[n.OwnerID] = true

		var addr string
		for _, resolve := range chain {
			if found, ok := resolve(ctx, n); ok {
				addr = found
				break
			}
		}
		if addr == "" || email.ValidateAddress(addr) != nil {
			continue
		}
		if seenEmails[addr] {
			continue
		}
		seenEmails[addr] = true

		entries = append(entries, model.ContactEntry{
			Email:           addr,
			Name:            n.AuthorFullName(),
			NewsletterTitle: n.Title,
		})
	}

	return entries, nil
}

// ========================================
// NOTIFY
// ========================================

func (s *proposalService) Notify(ctx context.Context, actor shared.Actor, proposalID uuid.UUID) (int, error) {
	contacts, err := s.ResolveContactEmails(ctx, actor, proposalID)
	if err != nil {
		return 0, err
	}

	proposal, err := s.repo.GetByIDWithNewsletters(ctx, proposalID)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, contact := range contacts {
		payload, err := json.Marshal(shared.ProposalContactEmailPayload{
			To:              contact.Email,
			Name:            contact.Name,
			NewsletterTitle: contact.NewsletterTitle,
			BrandName:       proposal.BrandName,
			Subject:         proposal.Subject,
			Message:         proposal.Message,
		})
		if err != nil {
			return enqueued, fmt.Errorf("failed to marshal contact email payload: %w", err)
		}

		task := asynq.NewTask(shared.TypeSendProposalContactEmail, payload)
		if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueEmail), asynq.MaxRetry(3)); err != nil {
			// Un contatto fallito non blocca gli altri.
			logger.Error(fmt.Sprintf("failed to enqueue contact email for %s", contact.Email), err)
			continue
		}
		enqueued++
	}

	logger.Info("Enqueued proposal contact emails", map[string]interface{}{
		"proposal_id": proposalID.String(),
		"count":       enqueued,
	})
	return enqueued, nil
}
