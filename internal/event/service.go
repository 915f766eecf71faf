package event

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	AgencyID  string
	Name      string
	Location  *string
	EventDate time.Time
	StartTime string
	EndTime   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Event, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.EventDate.IsZero() {
		return nil, ErrDateRequired
	}

	e := &Event{
		AgencyID:  req.AgencyID,
		Name:      strings.TrimSpace(req.Name),
		Location:  req.Location,
		EventDate: req.EventDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if e.StartTime == "" {
		e.StartTime = "00:00"
	}
	if e.EndTime == "" {
		e.EndTime = "23:59"
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Event, int, error) {
	return s.repo.List(ctx, filter)
}
