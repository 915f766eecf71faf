package agency

import (
	"context"
	"errors"
	"strings"
)

type CreateRequest struct {
	Name         string
	ContactEmail *string
	Phone        *string
	OwnerUserID  string
}

type UpdateRequest struct {
	Name         *string
	ContactEmail *string
	Phone        *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Agency, error)
	GetByID(ctx context.Context, id string) (*Agency, error)
	List(ctx context.Context, filter Filter) ([]*Agency, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Agency, error)
	Deactivate(ctx context.Context, id string) error

	AddMember(ctx context.Context, agencyID, userID, role string) error
	GetMember(ctx context.Context, agencyID, userID string) (*Member, error)
	ListMembers(ctx context.Context, agencyID string) ([]*Member, error)
	RemoveMember(ctx context.Context, agencyID, userID string) error

	// IsManagerOrAbove reports whether the user is an owner or admin of the
	// agency. Used by other modules for permission checks.
	IsManagerOrAbove(ctx context.Context, agencyID, userID string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Agency, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	a := &Agency{
		Name:         strings.TrimSpace(req.Name),
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	// The creator becomes the first owner.
	if req.OwnerUserID != "" {
		if err := s.repo.AddMember(ctx, a.ID, req.OwnerUserID, RoleOwner); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Agency, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Agency, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Agency, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.ContactEmail != nil {
		a.ContactEmail = req.ContactEmail
	}
	if req.Phone != nil {
		a.Phone = req.Phone
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Deactivate soft-disables an agency. Agencies are never physically deleted
// because reservations reference them.
func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *service) AddMember(ctx context.Context, agencyID, userID, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	if _, err := s.repo.GetByID(ctx, agencyID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, agencyID, userID, role)
}

func (s *service) GetMember(ctx context.Context, agencyID, userID string) (*Member, error) {
	return s.repo.GetMember(ctx, agencyID, userID)
}

func (s *service) ListMembers(ctx context.Context, agencyID string) ([]*Member, error) {
	if _, err := s.repo.GetByID(ctx, agencyID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, agencyID)
}

func (s *service) RemoveMember(ctx context.Context, agencyID, userID string) error {
	m, err := s.repo.GetMember(ctx, agencyID, userID)
	if err != nil {
		return err
	}

	if m.Role == RoleOwner {
		owners, err := s.repo.CountOwners(ctx, agencyID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	return s.repo.RemoveMember(ctx, agencyID, userID)
}

func (s *service) IsManagerOrAbove(ctx context.Context, agencyID, userID string) (bool, error) {
	m, err := s.repo.GetMember(ctx, agencyID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.Role == RoleOwner || m.Role == RoleAdmin, nil
}
