package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/auth"
	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
	"github.com/beatbook/dj-agency-backend/internal/user"
)

type Handler struct {
	service    user.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service user.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register creates a new staff account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewUserResponse(u))
}

// Login authenticates a user and returns a JWT access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Do not reveal which condition failed.
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInactiveUser) {
			err = user.ErrInvalidCredentials
		}
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsSystemAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

// Me returns the profile of the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, response.Envelope{Success: false, Error: "unauthorized"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewUserResponse(u))
}
