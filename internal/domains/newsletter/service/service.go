package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"

	"newsletter-italiane-backend/internal/domains/newsletter/model"
	"newsletter-italiane-backend/internal/domains/newsletter/repository"
	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/pkg/cache"
	"newsletter-italiane-backend/pkg/logger"
)

// TaskEnqueuer è il sottoinsieme di asynq.Client usato dal service
// (interfaccia locale per poterlo sostituire nei test).
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

const (
	marketplaceCachePrefix = "marketplace:newsletters"
	marketplaceCacheTTL    = 5 * time.Minute
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type newsletterService struct {
	repo  repository.NewsletterRepository
	cache cache.Cache
	tasks TaskEnqueuer
}

func NewNewsletterService(
	repo repository.NewsletterRepository,
	cacheHandle cache.Cache,
	tasks TaskEnqueuer,
) ServiceInterface {
	return &newsletterService{
		repo:  repo,
		cache: cacheHandle,
		tasks: tasks,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *newsletterService) Create(ctx context.Context, actor shared.Actor, req model.CreateNewsletterRequest) (*model.Newsletter, error) {
	// Nessuna scrittura parziale: la validazione fallisce prima di toccare il repo.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = model.DefaultLanguage
	}

	now := time.Now()
	n := &model.Newsletter{
		ID:               uuid.New(),
		OwnerID:          actor.ID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Language:         language,
		SignupURL:        req.SignupURL,
		Cadence:          req.Cadence,
		AudienceSize:     req.AudienceSize,
		OpenRate:         req.OpenRate,
		CtrRate:          req.CtrRate,
		SponsorshipPrice: req.SponsorshipPrice,
		ContactEmail:     req.ContactEmail,
		LinkedinProfile:  req.LinkedinProfile,
		AuthorFirstName:  req.AuthorFirstName,
		AuthorLastName:   req.AuthorLastName,
		AuthorEmail:      req.AuthorEmail,
		ReviewStatus:     model.StatusInReview,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create newsletter: %w", err)
	}

	s.invalidateMarketplace(ctx)

	return n, nil
}

// =====================================================
// READ
// =====================================================

func (s *newsletterService) List(ctx context.Context, actor shared.Actor) ([]*model.Newsletter, error) {
	newsletters, err := s.repo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", err)
	}
	return newsletters, nil
}

func (s *newsletterService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Newsletter, error) {
	return s.getVisible(ctx, actor, id)
}

// getVisible applica la regola di visibilità: un record che esiste ma non
// è dell'actor risponde NotFound, identico a un record inesistente.
func (s *newsletterService) getVisible(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Newsletter, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == model.ErrNewsletterNotFound {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get newsletter: %w", err)
	}

	if !n.IsVisibleTo(actor.ID, actor.IsAdmin()) {
		return nil, model.NewNotFoundError()
	}

	return n, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *newsletterService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateNewsletterRequest) (*model.UpdateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n, err := s.getVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return &model.UpdateResult{Newsletter: n, ReturnedToReview: false}, nil
	}

	previousStatus := n.ReviewStatus

	req.ApplyTo(n)
	n.ReviewStatus = model.NextStatusOnEdit(previousStatus, req.TouchesReviewedFields())
	n.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, n); err != nil {
		if err == model.ErrNewsletterNotFound {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to update newsletter: %w", err)
	}

	s.invalidateMarketplace(ctx)

	returned := previousStatus != model.StatusInReview && n.ReviewStatus == model.StatusInReview
	if returned {
		logger.Info("Newsletter returned to review after edit", map[string]interface{}{
			"newsletter_id":   n.ID.String(),
			"previous_status": previousStatus.String(),
		})
	}

	return &model.UpdateResult{Newsletter: n, ReturnedToReview: returned}, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *newsletterService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if _, err := s.getVisible(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == model.ErrNewsletterNotFound {
			return model.NewNotFoundError()
		}
		return fmt.Errorf("failed to delete newsletter: %w", err)
	}

	s.invalidateMarketplace(ctx)

	return nil
}

// =====================================================
// ADMIN
// =====================================================

func (s *newsletterService) AdminList(ctx context.Context, actor shared.Actor, req *model.AdminListNewslettersRequest) ([]*model.Newsletter, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, model.NewForbiddenError()
	}

	if err := req.Normalize(); err != nil {
		return nil, 0, err
	}

	var status *model.ReviewStatus
	if req.Status != nil {
		st := model.ReviewStatus(*req.Status)
		status = &st
	}

	newsletters, total, err := s.repo.ListByStatus(ctx, status, req.Page, req.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list newsletters: %w", err)
	}

	return newsletters, total, nil
}

// ExportToExcel produce il file xlsx con la stessa selezione di AdminList.
// Il limit è forzato a massimo 100 righe per export.
func (s *newsletterService) ExportToExcel(ctx context.Context, actor shared.Actor, req *model.AdminListNewslettersRequest) (*excelize.File, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 100
	}

	newsletters, _, err := s.AdminList(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	return buildNewslettersExcelFile(newsletters)
}

func buildNewslettersExcelFile(newsletters []*model.Newsletter) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Newsletter"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"ID",
		"Titolo",
		"Categoria",
		"Lingua",
		"Autore",
		"Email autore",
		"Email contatto",
		"Iscritti",
		"Open rate %",
		"CTR %",
		"Frequenza",
		"Prezzo sponsorizzazione (EUR)",
		"Stato revisione",
		"Creata il",
	}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "N1", headerStyle)
	}

	for i, n := range newsletters {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), n.ID.String())
		f.SetCellValue(sheetName, cell(2), n.Title)
		f.SetCellValue(sheetName, cell(3), n.Category)
		f.SetCellValue(sheetName, cell(4), n.Language)
		f.SetCellValue(sheetName, cell(5), n.AuthorFullName())
		f.SetCellValue(sheetName, cell(6), n.AuthorEmail)
		f.SetCellValue(sheetName, cell(7), n.ContactEmail)
		f.SetCellValue(sheetName, cell(8), n.AudienceSize)
		f.SetCellValue(sheetName, cell(9), n.OpenRate)
		f.SetCellValue(sheetName, cell(10), n.CtrRate)
		if n.Cadence != nil {
			f.SetCellValue(sheetName, cell(11), *n.Cadence)
		}
		f.SetCellValue(sheetName, cell(12), n.SponsorshipPrice)
		f.SetCellValue(sheetName, cell(13), string(n.ReviewStatus))
		f.SetCellValue(sheetName, cell(14), n.CreatedAt.Format("2006-01-02 15:04"))
	}

	return f, nil
}

func (s *newsletterService) Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Newsletter, error) {
	return s.moderate(ctx, actor, id, model.StatusApproved, "")
}

func (s *newsletterService) Reject(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*model.Newsletter, error) {
	return s.moderate(ctx, actor, id, model.StatusRejected, reason)
}

// moderate esegue la transizione admin in_review -> approved/rejected.
func (s *newsletterService) moderate(ctx context.Context, actor shared.Actor, id uuid.UUID, target model.ReviewStatus, reason string) (*model.Newsletter, error) {
	if !actor.IsAdmin() {
		return nil, model.NewForbiddenError()
	}

	n, err := s.getVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if n.ReviewStatus != model.StatusInReview {
		return nil, model.NewAlreadyModeratedError(n.ReviewStatus)
	}

	if err := s.repo.UpdateReviewStatus(ctx, id, target); err != nil {
		if err == model.ErrNewsletterNotFound {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to update review status: %w", err)
	}

	n.ReviewStatus = target
	n.UpdatedAt = time.Now()

	s.invalidateMarketplace(ctx)
	s.enqueueReviewOutcome(n, target, reason)

	return n, nil
}

// enqueueReviewOutcome notifica il creator via email. Best-effort:
// un fallimento di enqueue non annulla la moderazione già persistita.
func (s *newsletterService) enqueueReviewOutcome(n *model.Newsletter, outcome model.ReviewStatus, reason string) {
	if s.tasks == nil {
		return
	}

	payload, err := json.Marshal(shared.ReviewOutcomeEmailPayload{
		To:              n.ContactEmail,
		Name:            n.AuthorFirstName,
		NewsletterTitle: n.Title,
		Outcome:         outcome.String(),
		Reason:          reason,
	})
	if err != nil {
		logger.Error("Failed to marshal review outcome payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeSendReviewOutcomeEmail, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueEmail), asynq.MaxRetry(3)); err != nil {
		logger.Error("Failed to enqueue review outcome email", err)
	}
}

func (s *newsletterService) Stats(ctx context.Context, actor shared.Actor) (*model.MarketplaceStats, error) {
	if !actor.IsAdmin() {
		return nil, model.NewForbiddenError()
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	return stats, nil
}

// =====================================================
// MARKETPLACE
// =====================================================

type marketplacePage struct {
	Items []*model.Newsletter `json:"items"`
	Total int                 `json:"total"`
}

func (s *newsletterService) Marketplace(ctx context.Context, req *model.MarketplaceListRequest) ([]*model.Newsletter, int, error) {
	req.Normalize()

	category := "all"
	if req.Category != nil {
		category = *req.Category
	}
	cacheKey := fmt.Sprintf("%s:%s:%d:%d", marketplaceCachePrefix, category, req.Page, req.Limit)

	if s.cache != nil {
		var cached marketplacePage
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return cached.Items, cached.Total, nil
		}
	}

	newsletters, total, err := s.repo.ListApproved(ctx, req.Category, req.Page, req.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list marketplace newsletters: %w", err)
	}

	if s.cache != nil {
		page := marketplacePage{Items: newsletters, Total: total}
		if err := s.cache.Set(ctx, cacheKey, page, marketplaceCacheTTL); err != nil {
			logger.Error("Failed to cache marketplace page", err)
		}
	}

	return newsletters, total, nil
}

// invalidateMarketplace: ogni write path invalida i listing cachati,
// così una lettura successiva non serve dati oltre il TTL dopo una modifica.
func (s *newsletterService) invalidateMarketplace(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.DeletePattern(ctx, marketplaceCachePrefix+":*"); err != nil {
		logger.Error("Failed to invalidate marketplace cache", err)
	}
}
