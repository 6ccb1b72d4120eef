package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/repository"
)

type profileService struct {
	profiles repository.UserProfileRepo
	observer UseCaseObserver
}

func NewProfileService(profiles repository.UserProfileRepo, observers ...UseCaseObserver) app.ProfileUseCase {
	return &profileService{profiles: profiles, observer: useCaseObserverOrNoop(observers)}
}

// GetProfile returns the default profile for users without one.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if err := app.ValidateUserID(userID); err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultUserProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

func (s *profileService) SetProfile(ctx context.Context, p *domain.UserProfile) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "profile.set", start, err, nil) }()

	if err := app.ValidateUserID(p.UserID); err != nil {
		return err
	}
	if p.WellnessScore < 0 || p.WellnessScore > 100 {
		return invalidInput(fmt.Sprintf("wellness score %.1f must be between 0 and 100", p.WellnessScore))
	}
	p.Approach = domain.ParseApproach(string(p.Approach))
	p.UpdatedAt = time.Now().UTC()
	return s.profiles.Upsert(ctx, p)
}
