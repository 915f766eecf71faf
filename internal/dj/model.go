package dj

import (
	"net/http"
	"time"

	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "dj not found")
	ErrNameRequired = apperror.New(http.StatusBadRequest, "dj name is required")
	ErrBadAgency    = apperror.New(http.StatusBadRequest, "agency does not exist")
	ErrBadRating    = apperror.New(http.StatusBadRequest, "rating must be between 0 and 5")
	ErrBadRate      = apperror.New(http.StatusBadRequest, "hourly rate must be positive")
	ErrEmptyPhoto   = apperror.New(http.StatusBadRequest, "photo file is empty")
)

// DJ is an artist on an agency's roster. Rating and hourly rate are optional;
// the suggestion ranker treats missing values as unknown rather than zero.
type DJ struct {
	ID            string
	AgencyID      string
	Name          string
	Specialty     *string
	Rating        *float64
	HourlyRate    *float64
	Bio           *string
	IsActive      bool
	PhotoPath     *string
	ThumbnailPath *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter defines filter options for listing DJs.
type Filter struct {
	AgencyID   *string
	Specialty  *string
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}
