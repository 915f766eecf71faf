package agency

import (
	"net/http"
	"time"

	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "agency not found")
	ErrNameRequired      = apperror.New(http.StatusBadRequest, "agency name is required")
	ErrMemberNotFound    = apperror.New(http.StatusNotFound, "member not found")
	ErrUserAlreadyMember = apperror.New(http.StatusConflict, "user is already a member of this agency")
	ErrInvalidRole       = apperror.New(http.StatusBadRequest, "invalid member role")
	ErrLastOwner         = apperror.New(http.StatusBadRequest, "cannot remove the last owner of an agency")
)

// Agency is a DJ booking agency. Reservations, DJs and events are scoped to
// one agency.
type Agency struct {
	ID           string
	Name         string
	ContactEmail *string
	Phone        *string
	IsActive     bool
	CreatedAt    time.Time
}

// Filter defines filter options for listing agencies.
type Filter struct {
	Page     int
	PageSize int
}

// Roles matching the database enum.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole reports whether r is a known member role.
func ValidRole(r string) bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleStaff
}

// Member is a user with a role within an agency. It joins data from
// agency_members and users.
type Member struct {
	UserID      string
	Email       string
	DisplayName *string
	Role        string
	AddedAt     time.Time
}
