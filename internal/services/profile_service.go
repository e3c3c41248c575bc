package services

import (
	"context"
	"strings"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/errors"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/repository"
)

// ProfileService manages study profiles.
type ProfileService interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, name string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, id int64) (*models.Profile, error) {
	profile, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", id)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return profiles, nil
}

func (s *profileService) Create(ctx context.Context, name string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	profile, err := s.profiles.Upsert(ctx, name)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return profile, nil
}

func (s *profileService) Delete(ctx context.Context, id int64) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
