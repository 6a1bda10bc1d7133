package model

import (
	"time"

	"github.com/google/uuid"
)

// ========================================
// STATUS
// ========================================

type ProposalStatus string

const (
	StatusOpen   ProposalStatus = "open"
	StatusClosed ProposalStatus = "closed"
)

func (s ProposalStatus) IsValid() bool {
	return s == StatusOpen || s == StatusClosed
}

// ========================================
// ENTITIES
// ========================================

// Proposal è una proposta di sponsorizzazione di un brand verso una o
// più newsletter del marketplace.
type Proposal struct {
	ID        uuid.UUID `json:"id"`
	BrandName string    `json:"brand_name"`
	// Email del referente lato brand, non dei creator.
	BrandEmail string `json:"brand_email"`

	Subject string `json:"subject"`
	Message string `json:"message"`
	// Budget in euro per l'intera campagna.
	Budget           int            `json:"budget"`
	TargetCategories []string       `json:"target_categories"`
	Status           ProposalStatus `json:"status"`

	// Newsletter collegate, caricate dalla join table.
	Newsletters []*LinkedNewsletter `json:"newsletters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkedNewsletter è la proiezione minima di una newsletter collegata
// a una proposta: quanto serve per la risoluzione dei contatti e per
// la vista creator, niente di più.
type LinkedNewsletter struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Title           string    `json:"title"`
	AuthorFirstName string    `json:"author_first_name"`
	AuthorLastName  string    `json:"author_last_name"`
	AuthorEmail     string    `json:"author_email"`
}

// AuthorFullName per il campo name delle entry di contatto.
func (n *LinkedNewsletter) AuthorFullName() string {
	if n.AuthorFirstName == "" {
		return n.AuthorLastName
	}
	if n.AuthorLastName == "" {
		return n.AuthorFirstName
	}
	return n.AuthorFirstName + " " + n.AuthorLastName
}

// ContactEntry è il risultato della risoluzione contatti: una tripla
// per ogni destinatario raggiungibile.
type ContactEntry struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	NewsletterTitle string `json:"newsletter_title"`
}
