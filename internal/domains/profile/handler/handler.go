package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"newsletter-italiane-backend/internal/domains/profile/model"
	"newsletter-italiane-backend/internal/domains/profile/service"
	"newsletter-italiane-backend/internal/shared/middleware"
	"newsletter-italiane-backend/internal/shared/response"
	"newsletter-italiane-backend/pkg/logger"
)

// Limite upload avatar: 2MB bastano per un'immagine profilo.
const maxAvatarSize = 2 << 20

type ProfileHandler struct {
	service service.ServiceInterface
}

func NewProfileHandler(service service.ServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// ========================================
// AUTH ENDPOINTS
// ========================================

// Register gestisce POST /auth/register
func (h *ProfileHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	auth, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, auth)
}

// Login gestisce POST /auth/login
func (h *ProfileHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	auth, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// Refresh gestisce POST /auth/refresh
func (h *ProfileHandler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	auth, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetMe gestisce GET /users/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.GetOrCreateProfile(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateMe gestisce PUT /users/me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UploadAvatar gestisce POST /users/me/avatar (multipart, campo "avatar")
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "Avatar file is required")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		response.BadRequest(c, "L'avatar può pesare al massimo 2MB")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		response.BadRequest(c, "Formato non supportato: usa JPEG o PNG")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Avatar file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		response.InternalServerError(c, "Internal server error")
		return
	}

	profile, err := h.service.UploadAvatar(c.Request.Context(), actor.ID, data, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// ========================================
// ERROR MAPPING
// ========================================

func (h *ProfileHandler) handleError(c *gin.Context, err error) {
	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		response.ValidationFailed(c, fieldErrors)
		return
	}

	switch {
	case errors.Is(err, model.ErrEmailTaken):
		response.Conflict(c, "Email già registrata")

	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, "Credenziali non valide")

	case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrProfileNotFound):
		response.NotFound(c, "Utente non trovato")

	case errors.Is(err, model.ErrInvalidImage):
		response.BadRequest(c, "Immagine non valida")

	default:
		logger.Error("profile handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
