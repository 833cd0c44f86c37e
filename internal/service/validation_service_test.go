package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "farecard/internal/errors"
	"farecard/internal/fare"
	"farecard/internal/identity"
	"farecard/internal/model"
)

const (
	testCardUID     = "04A1B2C3D4E5F6"
	testValidatorID = "VAL-001"
)

func activeValidator() *model.Validator {
	return &model.Validator{
		ID:       testValidatorID,
		BusID:    "BUS-12",
		Location: "Av. Central y 5a",
		State:    model.ValidatorStateActive,
	}
}

func testCard(balance string) *model.Card {
	return &model.Card{
		UID:     testCardUID,
		OwnerID: "rider-001",
		Balance: decimal.RequireFromString(balance),
		Active:  true,
	}
}

func adultDirectory() identity.Directory {
	return identity.NewStaticDirectory(map[string]identity.Rider{
		"rider-001": {Name: "Ana Torres", Category: fare.CategoryAdult},
	})
}

func TestValidateRide_Success(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("25.50"), nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(testCard("25.50"), nil)
	txCards.On("DebitBalance", mock.Anything, testCardUID, decimalEq("2.50")).Return(nil)

	var appended *model.Transaction
	txLedger.On("Append", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*model.Transaction)
		}).Return(nil)

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil)

	result, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	require.NoError(t, err)

	assert.Equal(t, "25.50", result.PriorBalance.StringFixed(2))
	assert.Equal(t, "23.00", result.NewBalance.StringFixed(2))
	assert.Equal(t, "2.50", result.Fare.StringFixed(2))
	assert.Equal(t, "Ana Torres", result.Rider.Name)

	require.NotNil(t, appended)
	assert.Equal(t, model.TransactionKindRide, appended.Kind)
	assert.Equal(t, model.TransactionOutcomeSuccess, appended.Outcome)
	assert.True(t, appended.Amount.Equal(decimal.RequireFromString("-2.50")))
	require.NotNil(t, appended.ValidatorID)
	assert.Equal(t, testValidatorID, *appended.ValidatorID)
	assert.Equal(t, "Av. Central y 5a", appended.Location)
	assert.Equal(t, "25.50", appended.Metadata.PriorBalance.StringFixed(2))
	assert.Equal(t, "23.00", appended.Metadata.NewBalance.StringFixed(2))

	// No audit entry outside the unit of work on the happy path.
	ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestValidateRide_InsufficientFunds(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("1.00"), nil)

	var appended *model.Transaction
	ledgerRepo.On("Append", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*model.Transaction)
		}).Return(nil)

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil)

	result, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	require.NotNil(t, result)
	assert.Equal(t, "1.00", result.PriorBalance.StringFixed(2))
	assert.Equal(t, "2.50", result.Fare.StringFixed(2))

	// Exactly one audit entry; the balance is never touched.
	require.NotNil(t, appended)
	assert.Equal(t, model.TransactionOutcomeInsufficientFunds, appended.Outcome)
	assert.True(t, appended.Amount.Equal(decimal.RequireFromString("-2.50")))
	assert.Equal(t, "1.00", appended.Metadata.PriorBalance.StringFixed(2))
	assert.Equal(t, "1.00", appended.Metadata.NewBalance.StringFixed(2))
	ledgerRepo.AssertNumberOfCalls(t, "Append", 1)
	txCards.AssertNotCalled(t, "DebitBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateRide_BalanceEqualToFarePasses(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("2.50"), nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(testCard("2.50"), nil)
	txCards.On("DebitBalance", mock.Anything, testCardUID, decimalEq("2.50")).Return(nil)
	txLedger.On("Append", mock.Anything, mock.Anything).Return(nil)

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil)

	result, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", result.NewBalance.StringFixed(2))
}

func TestValidateRide_ValidatorUnavailableBeforeAnyCardRead(t *testing.T) {
	tests := []struct {
		name      string
		validator *model.Validator
		err       error
	}{
		{"missing", nil, gorm.ErrRecordNotFound},
		{"maintenance", &model.Validator{ID: testValidatorID, State: model.ValidatorStateMaintenance}, nil},
		{"inactive", &model.Validator{ID: testValidatorID, State: model.ValidatorStateInactive}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cardRepo := new(MockCardRepository)
			validatorRepo := new(MockValidatorRepository)
			ledgerRepo := new(MockLedgerRepository)

			if tt.validator == nil {
				validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(nil, tt.err)
			} else {
				validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(tt.validator, nil)
			}

			svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
				&fakeCoordinator{}, nil)

			_, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
			assert.ErrorIs(t, err, apperrors.ErrValidatorUnavailable)

			cardRepo.AssertNotCalled(t, "FindActiveByUID", mock.Anything, mock.Anything)
			ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestValidateRide_CardNotFound(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
		&fakeCoordinator{}, nil)

	_, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
	ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestValidateRide_StudentFare(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	card := testCard("10.00")
	card.OwnerID = "rider-002"

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(card, nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(card, nil)
	txCards.On("DebitBalance", mock.Anything, testCardUID, decimalEq("1.00")).Return(nil)
	txLedger.On("Append", mock.Anything, mock.Anything).Return(nil)

	directory := identity.NewStaticDirectory(map[string]identity.Rider{
		"rider-002": {Name: "Luis Pérez", Category: fare.CategoryStudent},
	})

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, directory,
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil)

	result, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	require.NoError(t, err)
	assert.Equal(t, "1.00", result.Fare.StringFixed(2))
	assert.Equal(t, "9.00", result.NewBalance.StringFixed(2))
}

func TestValidateRide_DuplicateEntryNotConflatedWithInsufficientFunds(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("25.50"), nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(testCard("25.50"), nil)
	txCards.On("DebitBalance", mock.Anything, testCardUID, decimalEq("2.50")).Return(nil)
	txLedger.On("Append", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicateEntry)

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil)

	_, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	assert.NotErrorIs(t, err, apperrors.ErrInsufficientFunds)
}

func TestValidateRide_RaceDetectedByConditionalDebit(t *testing.T) {
	cardRepo := new(MockCardRepository)
	validatorRepo := new(MockValidatorRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	validatorRepo.On("FindByID", mock.Anything, testValidatorID).Return(activeValidator(), nil)
	// Pre-check sees enough balance, but a concurrent tap drained it before
	// the locked debit.
	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("2.50"), nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(testCard("2.50"), nil)
	txCards.On("DebitBalance", mock.Anything, testCardUID, decimalEq("2.50")).
		Return(apperrors.ErrInsufficientFunds)
	ledgerRepo.On("Append", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)

	svc := NewValidationService(cardRepo, validatorRepo, ledgerRepo, adultDirectory(),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil)

	_, err := svc.ValidateRide(context.Background(), testCardUID, testValidatorID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	// The race is still audited, outside the rolled-back unit of work.
	ledgerRepo.AssertNumberOfCalls(t, "Append", 1)
	txLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
