package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
)

// Envelope is the standard JSON shape for all endpoints:
// {success, data?, message?, error?}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PageEnvelope is the envelope used by paginated list endpoints.
type PageEnvelope struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// OK sends a success envelope with the given status code.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// OKMessage sends a success envelope with data and a human-readable message.
func OKMessage(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// Page sends a paginated success envelope.
func Page(c *gin.Context, data any, page, limit, total int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	c.JSON(http.StatusOK, PageEnvelope{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Error sends an error envelope. It checks if the error is an AppError to
// determine the status code; anything else becomes a generic 500 so internals
// are never leaked to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, Envelope{Success: false, Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
}
