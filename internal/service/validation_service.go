package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"farecard/internal/cache"
	apperrors "farecard/internal/errors"
	"farecard/internal/fare"
	"farecard/internal/identity"
	"farecard/internal/model"
	"farecard/internal/repository"
	"farecard/internal/uow"
)

// ValidationResult is the outcome of a ride tap. On insufficient funds only
// PriorBalance, Fare and Entry are populated.
type ValidationResult struct {
	PriorBalance decimal.Decimal
	NewBalance   decimal.Decimal
	Fare         decimal.Decimal
	Rider        *identity.Rider
	Entry        *model.Transaction
}

// ValidationService handles ride taps at validators.
type ValidationService interface {
	ValidateRide(ctx context.Context, cardUID, validatorID string) (*ValidationResult, error)
}

type validationService struct {
	cardRepo      repository.CardRepository
	validatorRepo repository.ValidatorRepository
	ledgerRepo    repository.LedgerRepository
	directory     identity.Directory
	coordinator   uow.Coordinator
	cache         *cache.Client
}

// NewValidationService creates a new validation service.
func NewValidationService(
	cardRepo repository.CardRepository,
	validatorRepo repository.ValidatorRepository,
	ledgerRepo repository.LedgerRepository,
	directory identity.Directory,
	coordinator uow.Coordinator,
	cache *cache.Client,
) ValidationService {
	return &validationService{
		cardRepo:      cardRepo,
		validatorRepo: validatorRepo,
		ledgerRepo:    ledgerRepo,
		directory:     directory,
		coordinator:   coordinator,
		cache:         cache,
	}
}

// ValidateRide charges one fare to a card tapped at a validator. The
// validator is checked before any card read; a fare the balance cannot cover
// leaves the balance untouched but still writes one audit entry.
func (s *validationService) ValidateRide(ctx context.Context, cardUID, validatorID string) (*ValidationResult, error) {
	validator, err := s.validatorRepo.FindByID(ctx, validatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrValidatorUnavailable
		}
		return nil, fmt.Errorf("find validator: %w", err)
	}
	if !validator.CanAuthorize() {
		return nil, apperrors.ErrValidatorUnavailable
	}

	card, err := s.cardRepo.FindActiveByUID(ctx, cardUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}

	rider, err := s.directory.Lookup(ctx, card.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("lookup rider: %w", err)
	}
	rideFare := fare.Compute(rider.Category)

	// Equality passes: a card holding exactly the fare may ride.
	if card.Balance.LessThan(rideFare) {
		return s.rejectInsufficient(ctx, card, validator, rider, rideFare)
	}

	result := &ValidationResult{Rider: rider, Fare: rideFare}
	err = s.coordinator.Run(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		locked, err := u.Cards().FindByUIDForUpdate(ctx, cardUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCardNotFound
			}
			return err
		}
		if locked.Balance.LessThan(rideFare) {
			return apperrors.ErrInsufficientFunds
		}
		if err := u.Cards().DebitBalance(ctx, cardUID, rideFare); err != nil {
			return err
		}

		prior := locked.Balance.Round(2)
		newBalance := prior.Sub(rideFare).Round(2)
		entry := &model.Transaction{
			CardUID:     cardUID,
			Amount:      rideFare.Neg(),
			Kind:        model.TransactionKindRide,
			Outcome:     model.TransactionOutcomeSuccess,
			ValidatorID: &validator.ID,
			Location:    validator.Location,
			Metadata: model.TransactionMetadata{
				PriorBalance: &prior,
				NewBalance:   &newBalance,
			},
		}
		if err := u.Ledger().Append(ctx, entry); err != nil {
			return err
		}

		result.PriorBalance = prior
		result.NewBalance = newBalance
		result.Entry = entry
		return nil
	})
	if err != nil {
		// A concurrent tap drained the balance between the pre-check and
		// the locked debit; audited like any other rejection.
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return s.rejectInsufficient(ctx, card, validator, rider, rideFare)
		}
		if errors.Is(err, apperrors.ErrDuplicateEntry) || errors.Is(err, apperrors.ErrCardNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("validate ride: %w", err)
	}

	s.invalidateCard(ctx, cardUID)
	return result, nil
}

// rejectInsufficient audits a rejected tap without touching the balance.
func (s *validationService) rejectInsufficient(
	ctx context.Context,
	card *model.Card,
	validator *model.Validator,
	rider *identity.Rider,
	rideFare decimal.Decimal,
) (*ValidationResult, error) {
	prior := card.Balance.Round(2)
	entry := &model.Transaction{
		CardUID:     card.UID,
		Amount:      rideFare.Neg(),
		Kind:        model.TransactionKindRide,
		Outcome:     model.TransactionOutcomeInsufficientFunds,
		ValidatorID: &validator.ID,
		Location:    validator.Location,
		Metadata: model.TransactionMetadata{
			PriorBalance: &prior,
			NewBalance:   &prior,
		},
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return nil, err
		}
		return nil, fmt.Errorf("audit rejected tap: %w", err)
	}

	return &ValidationResult{
		PriorBalance: prior,
		Fare:         rideFare,
		Rider:        rider,
		Entry:        entry,
	}, apperrors.ErrInsufficientFunds
}

func (s *validationService) invalidateCard(ctx context.Context, uid string) {
	_ = s.cache.Delete(ctx, fmt.Sprintf("card:%s", uid))
}
