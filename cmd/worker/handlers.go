package main

import (
	"github.com/hibiken/asynq"

	newsletterJob "newsletter-italiane-backend/internal/domains/newsletter/job"
	emailjob "newsletter-italiane-backend/internal/infrastructure/email/job"
	"newsletter-italiane-backend/internal/shared"
	"newsletter-italiane-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	proposalContact *emailjob.ProposalContactEmailHandler
	reviewOutcome   *emailjob.ReviewOutcomeEmailHandler

	// Scheduled jobs
	reviewReminder *newsletterJob.ReviewReminderHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		proposalContact: emailjob.NewProposalContactEmailHandler(c.Email),
		reviewOutcome:   emailjob.NewReviewOutcomeEmailHandler(c.Email),

		reviewReminder: newsletterJob.NewReviewReminderHandler(
			c.NewsletterRepo,
			c.Email,
			c.Config.Job.AdminEmail,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendProposalContactEmail, h.proposalContact.ProcessTask)
	mux.HandleFunc(shared.TypeSendReviewOutcomeEmail, h.reviewOutcome.ProcessTask)

	// Scheduled tasks
	mux.HandleFunc(shared.TypeReviewReminder, h.reviewReminder.ProcessTask)
}
