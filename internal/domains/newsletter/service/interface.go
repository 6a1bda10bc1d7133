package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"newsletter-italiane-backend/internal/domains/newsletter/model"
	"newsletter-italiane-backend/internal/shared"
)

// ServiceInterface è il lifecycle manager delle newsletter: validazione,
// accesso scoped sull'owner e transizioni dello stato di revisione.
type ServiceInterface interface {
	// Create valida ogni campo e persiste con review_status = in_review.
	Create(ctx context.Context, actor shared.Actor, req model.CreateNewsletterRequest) (*model.Newsletter, error)

	// List ritorna le newsletter dell'actor (solo le proprie).
	List(ctx context.Context, actor shared.Actor) ([]*model.Newsletter, error)

	// Get ritorna una newsletter visibile all'actor.
	Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Newsletter, error)

	// Update applica la patch ai soli campi presenti. Se la newsletter è
	// approvata e la patch tocca metriche o prezzo, torna in revisione
	// nella stessa write.
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateNewsletterRequest) (*model.UpdateResult, error)

	// Delete esegue una hard delete.
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error

	// ========================================
	// ADMIN
	// ========================================

	AdminList(ctx context.Context, actor shared.Actor, req *model.AdminListNewslettersRequest) ([]*model.Newsletter, int, error)
	ExportToExcel(ctx context.Context, actor shared.Actor, req *model.AdminListNewslettersRequest) (*excelize.File, error)
	Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Newsletter, error)
	Reject(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*model.Newsletter, error)
	Stats(ctx context.Context, actor shared.Actor) (*model.MarketplaceStats, error)

	// ========================================
	// MARKETPLACE (public)
	// ========================================

	Marketplace(ctx context.Context, req *model.MarketplaceListRequest) ([]*model.Newsletter, int, error)
}
