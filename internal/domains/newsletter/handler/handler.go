package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"newsletter-italiane-backend/internal/domains/newsletter/model"
	"newsletter-italiane-backend/internal/domains/newsletter/service"
	"newsletter-italiane-backend/internal/shared/middleware"
	"newsletter-italiane-backend/internal/shared/response"
	"newsletter-italiane-backend/pkg/logger"
)

// NewsletterHandler traduce HTTP in chiamate al lifecycle manager.
// Stateless: contiene solo dipendenze.
type NewsletterHandler struct {
	service service.ServiceInterface
}

func NewNewsletterHandler(service service.ServiceInterface) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// ========================================
// CREATOR ENDPOINTS
// ========================================

// Create gestisce POST /newsletters
func (h *NewsletterHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	n, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/newsletters/"+n.ID.String())
	response.Success(c, http.StatusCreated, n)
}

// List gestisce GET /newsletters
func (h *NewsletterHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	newsletters, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, newsletters)
}

// Get gestisce GET /newsletters/:id
func (h *NewsletterHandler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid newsletter id")
		return
	}

	n, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, n)
}

// Update gestisce PUT /newsletters/:id
func (h *NewsletterHandler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid newsletter id")
		return
	}

	var req model.UpdateNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Delete gestisce DELETE /newsletters/:id
func (h *NewsletterHandler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid newsletter id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// AdminList gestisce GET /admin/newsletters
func (h *NewsletterHandler) AdminList(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.AdminListNewslettersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	newsletters, total, err := h.service.AdminList(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, newsletters, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// Export gestisce GET /admin/newsletters/export: stessa selezione di
// AdminList, ma scarica un file xlsx.
func (h *NewsletterHandler) Export(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.AdminListNewslettersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	f, err := h.service.ExportToExcel(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := "newsletters_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to stream excel export", err)
	}
}

// Approve gestisce POST /admin/newsletters/:id/approve
func (h *NewsletterHandler) Approve(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid newsletter id")
		return
	}

	n, err := h.service.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, n)
}

// Reject gestisce POST /admin/newsletters/:id/reject
func (h *NewsletterHandler) Reject(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid newsletter id")
		return
	}

	var req model.RejectNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	n, err := h.service.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, n)
}

// Stats gestisce GET /admin/newsletters/stats
func (h *NewsletterHandler) Stats(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ========================================
// MARKETPLACE (public)
// ========================================

// Marketplace gestisce GET /marketplace/newsletters
func (h *NewsletterHandler) Marketplace(c *gin.Context) {
	var req model.MarketplaceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	newsletters, total, err := h.service.Marketplace(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, newsletters, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// ========================================
// ERROR MAPPING
// ========================================

func (h *NewsletterHandler) handleError(c *gin.Context, err error) {
	// Gli errori di validazione portano la mappa campo → messaggio.
	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		response.ValidationFailed(c, fieldErrors)
		return
	}

	switch {
	case errors.Is(err, model.ErrNewsletterNotFound):
		response.NotFound(c, "Newsletter non trovata")

	case errors.Is(err, model.ErrForbidden):
		response.Forbidden(c, "Operazione non consentita")

	case errors.Is(err, model.ErrInvalidStatus):
		response.BadRequest(c, err.Error())

	case errors.Is(err, model.ErrAlreadyModerated):
		response.Conflict(c, err.Error())

	default:
		logger.Error("newsletter handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
