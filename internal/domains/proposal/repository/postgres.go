package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"newsletter-italiane-backend/internal/domains/proposal/model"
)

type postgresProposalRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProposalRepository(db *pgxpool.Pool) ProposalRepository {
	return &postgresProposalRepository{db: db}
}

const proposalColumns = `id, brand_name, brand_email, subject, message, budget, target_categories, status, created_at, updated_at`

func (r *postgresProposalRepository) GetByIDWithNewsletters(ctx context.Context, id uuid.UUID) (*model.Proposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM proposals
		WHERE id = $1`

	p, err := r.scanProposal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	linked, err := r.linkedNewsletters(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Newsletters = linked
	return p, nil
}

func (r *postgresProposalRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Proposal, error) {
	query := `
		SELECT DISTINCT p.id, p.brand_name, p.brand_email, p.subject, p.message,
		       p.budget, p.target_categories, p.status, p.created_at, p.updated_at
		FROM proposals p
		JOIN proposal_newsletters pn ON pn.proposal_id = p.id
		JOIN newsletters n ON n.id = pn.newsletter_id
		WHERE n.owner_id = $1
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*model.Proposal
	for rows.Next() {
		p, err := r.scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

func (r *postgresProposalRepository) linkedNewsletters(ctx context.Context, proposalID uuid.UUID) ([]*model.LinkedNewsletter, error) {
	query := `
		SELECT n.id, n.owner_id, n.title, n.author_first_name, n.author_last_name, n.author_email
		FROM newsletters n
		JOIN proposal_newsletters pn ON pn.newsletter_id = n.id
		WHERE pn.proposal_id = $1
		ORDER BY n.title`

	rows, err := r.db.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked newsletters: %w", err)
	}
	defer rows.Close()

	var linked []*model.LinkedNewsletter
	for rows.Next() {
		var n model.LinkedNewsletter
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.AuthorFirstName, &n.AuthorLastName, &n.AuthorEmail); err != nil {
			return nil, fmt.Errorf("failed to scan linked newsletter: %w", err)
		}
		linked = append(linked, &n)
	}
	return linked, rows.Err()
}

func (r *postgresProposalRepository) scanProposal(row pgx.Row) (*model.Proposal, error) {
	var p model.Proposal
	err := row.Scan(
		&p.ID, &p.BrandName, &p.BrandEmail, &p.Subject, &p.Message,
		&p.Budget, pq.Array(&p.TargetCategories), &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to scan proposal: %w", err)
	}
	return &p, nil
}
