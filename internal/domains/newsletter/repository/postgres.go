package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"newsletter-italiane-backend/internal/domains/newsletter/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresNewsletterRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNewsletterRepository(pool *pgxpool.Pool) NewsletterRepository {
	return &postgresNewsletterRepository{pool: pool}
}

const newsletterColumns = `
	id, owner_id, title, description, category, language,
	signup_url, cadence, audience_size, open_rate, ctr_rate,
	sponsorship_price, contact_email, linkedin_profile,
	author_first_name, author_last_name, author_email,
	review_status, created_at, updated_at`

func scanNewsletter(row pgx.Row) (*model.Newsletter, error) {
	n := &model.Newsletter{}
	err := row.Scan(
		&n.ID,
		&n.OwnerID,
		&n.Title,
		&n.Description,
		&n.Category,
		&n.Language,
		&n.SignupURL,
		&n.Cadence,
		&n.AudienceSize,
		&n.OpenRate,
		&n.CtrRate,
		&n.SponsorshipPrice,
		&n.ContactEmail,
		&n.LinkedinProfile,
		&n.AuthorFirstName,
		&n.AuthorLastName,
		&n.AuthorEmail,
		&n.ReviewStatus,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresNewsletterRepository) Create(ctx context.Context, n *model.Newsletter) error {
	query := `
		INSERT INTO newsletters (
			id, owner_id, title, description, category, language,
			signup_url, cadence, audience_size, open_rate, ctr_rate,
			sponsorship_price, contact_email, linkedin_profile,
			author_first_name, author_last_name, author_email,
			review_status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`

	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.OwnerID,
		n.Title,
		n.Description,
		n.Category,
		n.Language,
		n.SignupURL,
		n.Cadence,
		n.AudienceSize,
		n.OpenRate,
		n.CtrRate,
		n.SponsorshipPrice,
		n.ContactEmail,
		n.LinkedinProfile,
		n.AuthorFirstName,
		n.AuthorLastName,
		n.AuthorEmail,
		n.ReviewStatus,
		n.CreatedAt,
		n.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create newsletter: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresNewsletterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + ` FROM newsletters WHERE id = $1`

	n, err := scanNewsletter(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNewsletterNotFound
		}
		return nil, fmt.Errorf("failed to get newsletter: %w", err)
	}

	return n, nil
}

// =====================================================
// LIST BY OWNER
// =====================================================

func (r *postgresNewsletterRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + `
		FROM newsletters
		WHERE owner_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", err)
	}
	defer rows.Close()

	newsletters := make([]*model.Newsletter, 0)
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan newsletter: %w", err)
		}
		newsletters = append(newsletters, n)
	}

	return newsletters, rows.Err()
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresNewsletterRepository) Update(ctx context.Context, n *model.Newsletter) error {
	query := `
		UPDATE newsletters SET
			title = $2,
			description = $3,
			category = $4,
			language = $5,
			signup_url = $6,
			cadence = $7,
			audience_size = $8,
			open_rate = $9,
			ctr_rate = $10,
			sponsorship_price = $11,
			contact_email = $12,
			linkedin_profile = $13,
			author_first_name = $14,
			author_last_name = $15,
			author_email = $16,
			review_status = $17,
			updated_at = $18
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		n.ID,
		n.Title,
		n.Description,
		n.Category,
		n.Language,
		n.SignupURL,
		n.Cadence,
		n.AudienceSize,
		n.OpenRate,
		n.CtrRate,
		n.SponsorshipPrice,
		n.ContactEmail,
		n.LinkedinProfile,
		n.AuthorFirstName,
		n.AuthorLastName,
		n.AuthorEmail,
		n.ReviewStatus,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update newsletter: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNewsletterNotFound
	}

	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresNewsletterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM newsletters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete newsletter: %w", err)
	}

	// La delete è idempotente nel fallimento: ripeterla riporta NotFound,
	// mai un successo silenzioso.
	if tag.RowsAffected() == 0 {
		return model.ErrNewsletterNotFound
	}

	return nil
}

// =====================================================
// MODERATION
// =====================================================

func (r *postgresNewsletterRepository) UpdateReviewStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE newsletters SET review_status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNewsletterNotFound
	}

	return nil
}

func (r *postgresNewsletterRepository) ListByStatus(ctx context.Context, status *model.ReviewStatus, page, limit int) ([]*model.Newsletter, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM newsletters WHERE ($1::text IS NULL OR review_status = $1)`
	if err := r.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count newsletters: %w", err)
	}

	query := `SELECT ` + newsletterColumns + `
		FROM newsletters
		WHERE ($1::text IS NULL OR review_status = $1)
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list newsletters: %w", err)
	}
	defer rows.Close()

	newsletters := make([]*model.Newsletter, 0)
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan newsletter: %w", err)
		}
		newsletters = append(newsletters, n)
	}

	return newsletters, total, rows.Err()
}

func (r *postgresNewsletterRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*model.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + `
		FROM newsletters
		WHERE review_status = $1 AND updated_at < $2
		ORDER BY updated_at ASC`

	rows, err := r.pool.Query(ctx, query, model.StatusInReview, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending newsletters: %w", err)
	}
	defer rows.Close()

	newsletters := make([]*model.Newsletter, 0)
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan newsletter: %w", err)
		}
		newsletters = append(newsletters, n)
	}

	return newsletters, rows.Err()
}

// =====================================================
// MARKETPLACE
// =====================================================

func (r *postgresNewsletterRepository) ListApproved(ctx context.Context, category *string, page, limit int) ([]*model.Newsletter, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM newsletters
		WHERE review_status = $1 AND ($2::text IS NULL OR category = $2)`
	if err := r.pool.QueryRow(ctx, countQuery, model.StatusApproved, category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count approved newsletters: %w", err)
	}

	query := `SELECT ` + newsletterColumns + `
		FROM newsletters
		WHERE review_status = $1 AND ($2::text IS NULL OR category = $2)
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, model.StatusApproved, category, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list approved newsletters: %w", err)
	}
	defer rows.Close()

	newsletters := make([]*model.Newsletter, 0)
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan newsletter: %w", err)
		}
		newsletters = append(newsletters, n)
	}

	return newsletters, total, rows.Err()
}

func (r *postgresNewsletterRepository) Stats(ctx context.Context) (*model.MarketplaceStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE review_status = 'approved'),
			COUNT(*) FILTER (WHERE review_status = 'in_review'),
			COUNT(*) FILTER (WHERE review_status = 'rejected'),
			COALESCE(SUM(audience_size), 0),
			COALESCE(AVG(open_rate) FILTER (WHERE review_status = 'approved'), 0),
			COALESCE(SUM(sponsorship_price) FILTER (WHERE review_status = 'approved'), 0)
		FROM newsletters
	`

	stats := &model.MarketplaceStats{}
	var avgOpenRate float64
	var totalSponsorship int64

	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalNewsletters,
		&stats.TotalApproved,
		&stats.TotalInReview,
		&stats.TotalRejected,
		&stats.TotalAudience,
		&avgOpenRate,
		&totalSponsorship,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	stats.AvgOpenRate = decimal.NewFromFloat(avgOpenRate).Round(2)
	stats.TotalSponsorship = decimal.NewFromInt(totalSponsorship)

	return stats, nil
}
