package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"newsletter-italiane-backend/internal/domains/newsletter/repository"
	"newsletter-italiane-backend/internal/infrastructure/email"
	"newsletter-italiane-backend/internal/shared"
)

// ReviewReminderHandler consuma il job schedulato che ricorda agli
// admin le newsletter ferme in revisione da troppi giorni.
type ReviewReminderHandler struct {
	repo         repository.NewsletterRepository
	emailService email.EmailService
	adminEmail   string
}

func NewReviewReminderHandler(repo repository.NewsletterRepository, emailService email.EmailService, adminEmail string) *ReviewReminderHandler {
	return &ReviewReminderHandler{
		repo:         repo,
		emailService: emailService,
		adminEmail:   adminEmail,
	}
}

func (h *ReviewReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReviewReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ReviewReminder payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.OlderThanDays <= 0 {
		payload.OlderThanDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -payload.OlderThanDays)

	pending, err := h.repo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list pending newsletters: %w", err)
	}

	if len(pending) == 0 {
		log.Info().Msg("Review reminder: no stale newsletters in review")
		return nil
	}

	var lines []string
	for _, n := range pending {
		lines = append(lines, fmt.Sprintf("- %q di %s (in revisione dal %s)",
			n.Title, n.AuthorFullName(), n.CreatedAt.Format("02/01/2006")))
	}

	body := fmt.Sprintf(`Ci sono %d newsletter in revisione da più di %d giorni:

%s

Il team di Newsletter Italiane`,
		len(pending), payload.OlderThanDays, strings.Join(lines, "\n"))

	msg := email.Message{
		To:      h.adminEmail,
		Subject: fmt.Sprintf("[Newsletter Italiane] %d newsletter in attesa di revisione", len(pending)),
		Text:    body,
	}

	if err := h.emailService.Send(ctx, msg); err != nil {
		return fmt.Errorf("send review reminder email: %w", err)
	}

	log.Info().
		Int("pending", len(pending)).
		Msg("Review reminder email sent")

	return nil
}
