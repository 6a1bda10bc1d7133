package shared

import "github.com/google/uuid"

// Role dell'utente applicativo.
type Role string

const (
	RoleCreator Role = "creator" // registra e gestisce le proprie newsletter
	RoleAdmin   Role = "admin"   // approva/rifiuta e accede ai dati cross-owner
)

func (r Role) IsValid() bool {
	return r == RoleCreator || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// Actor è l'identità autenticata passata esplicitamente a ogni operazione
// dei service: niente contesto implicito o stato globale.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Asynq task types
const (
	TypeSendProposalContactEmail = "email:proposal_contact"
	TypeSendReviewOutcomeEmail   = "email:review_outcome"
	TypeReviewReminder           = "review:pending_reminder"
)

// Asynq queues
const (
	QueueEmail   = "email"
	QueueDefault = "default"
)

// ProposalContactEmailPayload is carried by TypeSendProposalContactEmail tasks.
type ProposalContactEmailPayload struct {
	To              string `json:"to"`
	Name            string `json:"name"`
	NewsletterTitle string `json:"newsletter_title"`
	BrandName       string `json:"brand_name"`
	Subject         string `json:"subject"`
	Message         string `json:"message"`
}

// ReviewOutcomeEmailPayload notifies a creator of an approve/reject decision.
type ReviewOutcomeEmailPayload struct {
	To              string `json:"to"`
	Name            string `json:"name"`
	NewsletterTitle string `json:"newsletter_title"`
	Outcome         string `json:"outcome"` // approved | rejected
	Reason          string `json:"reason,omitempty"`
}

// ReviewReminderPayload is enqueued by the scheduler.
type ReviewReminderPayload struct {
	OlderThanDays int `json:"older_than_days"`
}
