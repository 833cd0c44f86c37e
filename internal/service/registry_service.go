package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/repository"
)

// RegistryService manages the validator device directory.
type RegistryService interface {
	Register(ctx context.Context, validator *model.Validator) error
	Get(ctx context.Context, id string) (*model.Validator, error)
	List(ctx context.Context) ([]model.Validator, error)
	SetState(ctx context.Context, id string, state model.ValidatorState) (*model.Validator, error)
}

type registryService struct {
	validatorRepo repository.ValidatorRepository
}

// NewRegistryService creates a new registry service.
func NewRegistryService(validatorRepo repository.ValidatorRepository) RegistryService {
	return &registryService{validatorRepo: validatorRepo}
}

// Register adds a validator device to the directory.
func (s *registryService) Register(ctx context.Context, validator *model.Validator) error {
	if validator.State == "" {
		validator.State = model.ValidatorStateInactive
	}
	return s.validatorRepo.Create(ctx, validator)
}

// Get returns a validator by device id.
func (s *registryService) Get(ctx context.Context, id string) (*model.Validator, error) {
	validator, err := s.validatorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrValidatorUnavailable
		}
		return nil, fmt.Errorf("get validator: %w", err)
	}
	return validator, nil
}

// List returns every registered validator.
func (s *registryService) List(ctx context.Context) ([]model.Validator, error) {
	validators, err := s.validatorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list validators: %w", err)
	}
	return validators, nil
}

// SetState transitions a validator between active, inactive and maintenance.
func (s *registryService) SetState(ctx context.Context, id string, state model.ValidatorState) (*model.Validator, error) {
	validator, err := s.validatorRepo.UpdateState(ctx, id, state)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrValidatorUnavailable
		}
		return nil, fmt.Errorf("set validator state: %w", err)
	}
	return validator, nil
}
