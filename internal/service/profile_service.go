package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finsight/internal/dto"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	profileRepo *repository.ProfileRepository
	logger      *zap.Logger
}

func NewProfileService(profileRepo *repository.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	return &dto.ProfileResponse{
		BaseCurrency:  profile.BaseCurrency,
		CurrentCash:   profile.CurrentCash,
		AnnualBudget:  profile.AnnualBudget,
		MonthlyIncome: profile.MonthlyIncome,
	}, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	if req.BaseCurrency != nil {
		profile.BaseCurrency = *req.BaseCurrency
	}
	if req.CurrentCash != nil {
		profile.CurrentCash = *req.CurrentCash
	}
	if req.AnnualBudget != nil {
		profile.AnnualBudget = *req.AnnualBudget
	}
	if req.MonthlyIncome != nil {
		profile.MonthlyIncome = *req.MonthlyIncome
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &dto.ProfileResponse{
		BaseCurrency:  profile.BaseCurrency,
		CurrentCash:   profile.CurrentCash,
		AnnualBudget:  profile.AnnualBudget,
		MonthlyIncome: profile.MonthlyIncome,
	}, nil
}

// GoalSeek pins a target runway and back-computes the annual budget ceiling
// that preserves it. When the request carries a new cash figure the runway
// target is held and the budget recomputed from the edited cash.
func (s *ProfileService) GoalSeek(ctx context.Context, userID uuid.UUID, req *dto.GoalSeekRequest) (*dto.GoalSeekResponse, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	if req.CurrentCash != nil {
		profile.CurrentCash = *req.CurrentCash
	}

	monthlySpend, annualBudget := GoalSeek(profile.CurrentCash, req.TargetRunway)
	profile.AnnualBudget = annualBudget
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &dto.GoalSeekResponse{
		TargetRunway:  req.TargetRunway,
		MonthlySpend:  monthlySpend,
		AnnualBudget:  annualBudget,
		CurrentCash:   profile.CurrentCash,
		BaseCurrency:  profile.BaseCurrency,
		MonthlyIncome: profile.MonthlyIncome,
	}, nil
}
