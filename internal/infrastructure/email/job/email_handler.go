package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"newsletter-italiane-backend/internal/infrastructure/email"
	"newsletter-italiane-backend/internal/shared"
)

// ============================================
// Proposal Contact Email Handler
// ============================================

type ProposalContactEmailHandler struct {
	emailService email.EmailService
}

func NewProposalContactEmailHandler(emailService email.EmailService) *ProposalContactEmailHandler {
	return &ProposalContactEmailHandler{emailService: emailService}
}

func (h *ProposalContactEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProposalContactEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProposalContactEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.To).
		Str("newsletter", payload.NewsletterTitle).
		Msg("Processing proposal contact email")

	body := fmt.Sprintf(`Ciao %s,

il brand %s è interessato a sponsorizzare la tua newsletter "%s".

%s

Rispondi a questa email per entrare in contatto con il brand.

Il team di Newsletter Italiane`,
		payload.Name, payload.BrandName, payload.NewsletterTitle, payload.Message)

	msg := email.Message{
		To:      payload.To,
		Subject: payload.Subject,
		Text:    body,
	}

	if err := h.emailService.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("email", payload.To).Msg("Failed to send proposal contact email")
		return fmt.Errorf("send proposal contact email: %w", err)
	}

	return nil
}

// ============================================
// Review Outcome Email Handler
// ============================================

type ReviewOutcomeEmailHandler struct {
	emailService email.EmailService
}

func NewReviewOutcomeEmailHandler(emailService email.EmailService) *ReviewOutcomeEmailHandler {
	return &ReviewOutcomeEmailHandler{emailService: emailService}
}

func (h *ReviewOutcomeEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReviewOutcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ReviewOutcomeEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var subject, body string
	switch payload.Outcome {
	case "approved":
		subject = fmt.Sprintf(`La tua newsletter "%s" è stata approvata`, payload.NewsletterTitle)
		body = fmt.Sprintf(`Ciao %s,

ottime notizie: "%s" è stata approvata ed è ora visibile ai brand nel marketplace.

Il team di Newsletter Italiane`, payload.Name, payload.NewsletterTitle)
	case "rejected":
		subject = fmt.Sprintf(`La tua newsletter "%s" non è stata approvata`, payload.NewsletterTitle)
		body = fmt.Sprintf(`Ciao %s,

purtroppo "%s" non ha superato la revisione.

Motivo: %s

Puoi modificare la newsletter: dopo la modifica tornerà in revisione.

Il team di Newsletter Italiane`, payload.Name, payload.NewsletterTitle, payload.Reason)
	default:
		return fmt.Errorf("unknown review outcome: %q", payload.Outcome)
	}

	msg := email.Message{
		To:      payload.To,
		Subject: subject,
		Text:    body,
	}

	if err := h.emailService.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("email", payload.To).Msg("Failed to send review outcome email")
		return fmt.Errorf("send review outcome email: %w", err)
	}

	log.Info().
		Str("email", payload.To).
		Str("outcome", payload.Outcome).
		Msg("Review outcome email sent successfully")

	return nil
}
