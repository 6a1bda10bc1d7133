package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/proposal/model"
	"newsletter-italiane-backend/internal/domains/proposal/service"
	"newsletter-italiane-backend/internal/shared/middleware"
	"newsletter-italiane-backend/internal/shared/response"
	"newsletter-italiane-backend/pkg/logger"
)

type ProposalHandler struct {
	service service.ServiceInterface
}

func NewProposalHandler(service service.ServiceInterface) *ProposalHandler {
	return &ProposalHandler{service: service}
}

// List gestisce GET /proposals
func (h *ProposalHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	proposals, err := h.service.ListForActor(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, proposals)
}

// ContactEmails gestisce GET /admin/proposals/:id/contact-emails
func (h *ProposalHandler) ContactEmails(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid proposal id")
		return
	}

	contacts, err := h.service.ResolveContactEmails(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, contacts)
}

// Notify gestisce POST /admin/proposals/:id/notify
func (h *ProposalHandler) Notify(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid proposal id")
		return
	}

	enqueued, err := h.service.Notify(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"enqueued": enqueued})
}

func (h *ProposalHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProposalNotFound):
		response.NotFound(c, "Proposta non trovata")

	case errors.Is(err, model.ErrForbidden):
		response.Forbidden(c, "Operazione non consentita")

	default:
		logger.Error("proposal handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
