package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
)

// ValidatorRepository defines validator registry persistence operations.
type ValidatorRepository interface {
	Create(ctx context.Context, validator *model.Validator) error
	FindByID(ctx context.Context, id string) (*model.Validator, error)
	List(ctx context.Context) ([]model.Validator, error)
	UpdateState(ctx context.Context, id string, state model.ValidatorState) (*model.Validator, error)
}

type validatorRepository struct {
	db *gorm.DB
}

// NewValidatorRepository creates a new validator repository.
func NewValidatorRepository(db *gorm.DB) ValidatorRepository {
	return &validatorRepository{db: db}
}

// Create registers a new validator device.
func (r *validatorRepository) Create(ctx context.Context, validator *model.Validator) error {
	if err := r.db.WithContext(ctx).Create(validator).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.ErrValidatorExists
		}
		return err
	}
	return nil
}

// FindByID finds a validator by device id.
func (r *validatorRepository) FindByID(ctx context.Context, id string) (*model.Validator, error) {
	var validator model.Validator
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&validator).Error; err != nil {
		return nil, err
	}
	return &validator, nil
}

// List returns all registered validators.
func (r *validatorRepository) List(ctx context.Context) ([]model.Validator, error) {
	var validators []model.Validator
	if err := r.db.WithContext(ctx).Order("id").Find(&validators).Error; err != nil {
		return nil, err
	}
	return validators, nil
}

// UpdateState transitions a validator's activation state.
func (r *validatorRepository) UpdateState(ctx context.Context, id string, state model.ValidatorState) (*model.Validator, error) {
	var validator model.Validator
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&validator).Error; err != nil {
		return nil, err
	}
	if validator.State != state {
		validator.State = state
		if err := r.db.WithContext(ctx).Model(&validator).Update("state", state).Error; err != nil {
			return nil, err
		}
	}
	return &validator, nil
}
