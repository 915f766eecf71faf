package dj

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/beatbook/dj-agency-backend/internal/pkg/storage"
)

const (
	thumbnailMaxWidth  = 320
	thumbnailMaxHeight = 320
)

type CreateRequest struct {
	AgencyID   string
	Name       string
	Specialty  *string
	Rating     *float64
	HourlyRate *float64
	Bio        *string
}

type UpdateRequest struct {
	Name       *string
	Specialty  *string
	Rating     *float64
	HourlyRate *float64
	Bio        *string
	IsActive   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*DJ, error)
	GetByID(ctx context.Context, id string) (*DJ, error)
	List(ctx context.Context, filter Filter) ([]*DJ, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*DJ, error)
	Deactivate(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, filename string, content io.Reader) (*DJ, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	images  *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage, images *storage.ImageProcessor) Service {
	return &service{repo: repo, storage: store, images: images}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*DJ, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := validateRatingAndRate(req.Rating, req.HourlyRate); err != nil {
		return nil, err
	}

	d := &DJ{
		AgencyID:   req.AgencyID,
		Name:       strings.TrimSpace(req.Name),
		Specialty:  req.Specialty,
		Rating:     req.Rating,
		HourlyRate: req.HourlyRate,
		Bio:        req.Bio,
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*DJ, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*DJ, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*DJ, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.Specialty != nil {
		d.Specialty = req.Specialty
	}
	if req.Rating != nil {
		d.Rating = req.Rating
	}
	if req.HourlyRate != nil {
		d.HourlyRate = req.HourlyRate
	}
	if req.Bio != nil {
		d.Bio = req.Bio
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	if err := validateRatingAndRate(d.Rating, d.HourlyRate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

// UploadPhoto stores the original press photo and a resized thumbnail, then
// records both paths on the DJ row.
func (s *service) UploadPhoto(ctx context.Context, id string, filename string, content io.Reader) (*DJ, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read photo failed: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyPhoto
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	base := uuid.NewString()
	photoPath := filepath.Join("djs", id, base+ext)
	thumbPath := filepath.Join("djs", id, base+"_thumb.jpg")

	thumb, err := s.images.GenerateThumbnail(bytes.NewReader(buf), thumbnailMaxWidth, thumbnailMaxHeight)
	if err != nil {
		return nil, fmt.Errorf("generate thumbnail failed: %w", err)
	}

	if err := s.storage.Save(ctx, photoPath, bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("save photo failed: %w", err)
	}
	if err := s.storage.Save(ctx, thumbPath, thumb); err != nil {
		return nil, fmt.Errorf("save thumbnail failed: %w", err)
	}

	if err := s.repo.SetPhoto(ctx, id, photoPath, thumbPath); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func validateRatingAndRate(rating, rate *float64) error {
	if rating != nil && (*rating < 0 || *rating > 5) {
		return ErrBadRating
	}
	if rate != nil && *rate <= 0 {
		return ErrBadRate
	}
	return nil
}
