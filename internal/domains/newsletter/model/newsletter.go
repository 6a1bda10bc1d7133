package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus è lo stato di moderazione di una newsletter.
type ReviewStatus string

const (
	StatusInReview ReviewStatus = "in_review"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) IsValid() bool {
	switch s {
	case StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s ReviewStatus) String() string {
	return string(s)
}

// Newsletter rappresenta una newsletter registrata da un creator
// per potenziali sponsorizzazioni.
type Newsletter struct {
	// Identity
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	// Listing
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Language    string  `json:"language"`
	SignupURL   string  `json:"signup_url"`
	Cadence     *string `json:"cadence"`

	// Metrics & pricing
	AudienceSize     int     `json:"audience_size"`
	OpenRate         float64 `json:"open_rate"`
	CtrRate          float64 `json:"ctr_rate"`
	SponsorshipPrice int     `json:"sponsorship_price"` // euro per uscita

	// Contacts
	ContactEmail    string  `json:"contact_email"`
	LinkedinProfile *string `json:"linkedin_profile"`
	AuthorFirstName string  `json:"author_first_name"`
	AuthorLastName  string  `json:"author_last_name"`
	AuthorEmail     string  `json:"author_email"`

	// Moderazione: mai impostato direttamente dal creator.
	ReviewStatus ReviewStatus `json:"review_status"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsVisibleTo: il creator vede solo le proprie newsletter, l'admin tutte.
// "Esiste ma non è tua" e "non esiste" devono restare indistinguibili
// per chi non è owner.
func (n *Newsletter) IsVisibleTo(actorID uuid.UUID, isAdmin bool) bool {
	return isAdmin || n.OwnerID == actorID
}

// AuthorFullName per le email di contatto.
func (n *Newsletter) AuthorFullName() string {
	if n.AuthorFirstName == "" {
		return n.AuthorLastName
	}
	if n.AuthorLastName == "" {
		return n.AuthorFirstName
	}
	return n.AuthorFirstName + " " + n.AuthorLastName
}

// NextStatusOnEdit calcola lo stato dopo una modifica del creator.
//
//	in_review --(resta)--> in_review
//	approved  --(modifica campo metrico/prezzo)--> in_review
//	approved  --(modifica solo campi descrittivi)--> approved
//	rejected  --(qualsiasi modifica)--> in_review
//
// Le transizioni verso approved/rejected passano solo dall'admin.
func NextStatusOnEdit(current ReviewStatus, touchesReviewedFields bool) ReviewStatus {
	switch current {
	case StatusApproved:
		if touchesReviewedFields {
			return StatusInReview
		}
		return StatusApproved
	case StatusRejected:
		return StatusInReview
	default:
		return StatusInReview
	}
}
