package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/newsletter/model"
)

// NewsletterRepository è l'accesso dati del dominio newsletter.
type NewsletterRepository interface {
	// ========================================
	// CRUD
	// ========================================

	// Create persists a new newsletter.
	Create(ctx context.Context, n *model.Newsletter) error

	// GetByID fetches a newsletter regardless of owner; visibility is the
	// service's concern.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Newsletter, error)

	// ListByOwner returns the owner's newsletters in insertion order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Newsletter, error)

	// Update riscrive i campi mutabili e review_status in un'unica write.
	Update(ctx context.Context, n *model.Newsletter) error

	// Delete hard-deletes; ErrNewsletterNotFound when nothing was removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// MODERATION
	// ========================================

	// UpdateReviewStatus è la transizione admin approve/reject.
	UpdateReviewStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus) error

	// ListByStatus lists all newsletters (admin), optionally filtered.
	ListByStatus(ctx context.Context, status *model.ReviewStatus, page, limit int) ([]*model.Newsletter, int, error)

	// ListPendingOlderThan returns newsletters sitting in_review since
	// before the cutoff (reminder job).
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*model.Newsletter, error)

	// ========================================
	// MARKETPLACE
	// ========================================

	// ListApproved lists approved newsletters, optionally by category.
	ListApproved(ctx context.Context, category *string, page, limit int) ([]*model.Newsletter, int, error)

	// Stats aggregates the marketplace numbers for the admin dashboard.
	Stats(ctx context.Context) (*model.MarketplaceStats, error)
}
