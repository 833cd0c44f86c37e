package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/payment"
)

// stubGateway is a scriptable payment provider.
type stubGateway struct {
	method payment.Method
	auth   *payment.Authorization
	block  bool
	calls  int
}

func (g *stubGateway) Method() payment.Method { return g.method }

func (g *stubGateway) Authorize(ctx context.Context, amount decimal.Decimal, params payment.Params) (*payment.Authorization, error) {
	g.calls++
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.auth, nil
}

func floor() decimal.Decimal { return decimal.RequireFromString("5.00") }

func cashInput(amount string) RechargeInput {
	return RechargeInput{
		CardUID: testCardUID,
		Amount:  decimal.RequireFromString(amount),
		Method:  payment.MethodCash,
		Params:  payment.Params{ConfirmationCode: "482913"},
	}
}

func TestRecharge_Success(t *testing.T) {
	cardRepo := new(MockCardRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	gateway := &stubGateway{
		method: payment.MethodCash,
		auth:   &payment.Authorization{Approved: true, ProviderTxID: "CASH-abc123"},
	}

	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("10.00"), nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(testCard("10.00"), nil)
	txCards.On("CreditBalance", mock.Anything, testCardUID, decimalEq("20.00")).Return(nil)

	var appended *model.Transaction
	txLedger.On("Append", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*model.Transaction)
		}).Return(nil)

	svc := NewRechargeService(cardRepo, ledgerRepo, payment.NewRegistry(gateway),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil, floor(), time.Second)

	result, err := svc.Recharge(context.Background(), cashInput("20.00"))
	require.NoError(t, err)

	assert.Equal(t, "30.00", result.NewBalance.StringFixed(2))
	assert.Equal(t, 1, gateway.calls)

	require.NotNil(t, appended)
	assert.Equal(t, model.TransactionKindRecharge, appended.Kind)
	assert.Equal(t, model.TransactionOutcomeSuccess, appended.Outcome)
	assert.True(t, appended.Amount.Equal(decimal.RequireFromString("20.00")))
	require.NotNil(t, appended.Metadata.ProviderTxID)
	assert.Equal(t, "CASH-abc123", *appended.Metadata.ProviderTxID)
	assert.Equal(t, "10.00", appended.Metadata.PriorBalance.StringFixed(2))
	assert.Equal(t, "30.00", appended.Metadata.NewBalance.StringFixed(2))
}

func TestRecharge_BelowMinimumNeverReachesProviderOrLedger(t *testing.T) {
	cardRepo := new(MockCardRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := &stubGateway{method: payment.MethodCash, auth: &payment.Authorization{Approved: true}}

	svc := NewRechargeService(cardRepo, ledgerRepo, payment.NewRegistry(gateway),
		&fakeCoordinator{}, nil, floor(), time.Second)

	_, err := svc.Recharge(context.Background(), cashInput("3.00"))
	assert.ErrorIs(t, err, apperrors.ErrBelowMinimum)

	assert.Zero(t, gateway.calls)
	ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	cardRepo.AssertNotCalled(t, "FindActiveByUID", mock.Anything, mock.Anything)
}

func TestRecharge_MissingFields(t *testing.T) {
	svc := NewRechargeService(new(MockCardRepository), new(MockLedgerRepository),
		payment.NewRegistry(), &fakeCoordinator{}, nil, floor(), time.Second)

	_, err := svc.Recharge(context.Background(), RechargeInput{
		CardUID: "",
		Amount:  decimal.RequireFromString("20.00"),
		Method:  payment.MethodCash,
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)

	_, err = svc.Recharge(context.Background(), RechargeInput{
		CardUID: testCardUID,
		Amount:  decimal.Zero,
		Method:  payment.MethodCash,
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}

func TestRecharge_DeclinedIsAuditedWithReason(t *testing.T) {
	cardRepo := new(MockCardRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := &stubGateway{
		method: payment.MethodCash,
		auth:   &payment.Authorization{Approved: false, Reason: "confirmation code missing or malformed"},
	}

	var appended *model.Transaction
	ledgerRepo.On("Append", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*model.Transaction)
		}).Return(nil)

	svc := NewRechargeService(cardRepo, ledgerRepo, payment.NewRegistry(gateway),
		&fakeCoordinator{}, nil, floor(), time.Second)

	result, err := svc.Recharge(context.Background(), cashInput("20.00"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	require.NotNil(t, result)
	assert.Equal(t, "confirmation code missing or malformed", result.DeclineReason)

	// Declined attempts leave a trace, the balance does not move.
	require.NotNil(t, appended)
	assert.Equal(t, model.TransactionOutcomeFailed, appended.Outcome)
	assert.Equal(t, "confirmation code missing or malformed", appended.Metadata.Reason)
	cardRepo.AssertNotCalled(t, "FindActiveByUID", mock.Anything, mock.Anything)
}

func TestRecharge_ProviderTimeoutTreatedAsDecline(t *testing.T) {
	cardRepo := new(MockCardRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := &stubGateway{method: payment.MethodCash, block: true}

	ledgerRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	svc := NewRechargeService(cardRepo, ledgerRepo, payment.NewRegistry(gateway),
		&fakeCoordinator{}, nil, floor(), 20*time.Millisecond)

	result, err := svc.Recharge(context.Background(), cashInput("20.00"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	require.NotNil(t, result)
	assert.Equal(t, "provider timeout", result.DeclineReason)
	cardRepo.AssertNotCalled(t, "FindActiveByUID", mock.Anything, mock.Anything)
}

func TestRecharge_UnsupportedMethod(t *testing.T) {
	svc := NewRechargeService(new(MockCardRepository), new(MockLedgerRepository),
		payment.NewRegistry(), &fakeCoordinator{}, nil, floor(), time.Second)

	result, err := svc.Recharge(context.Background(), cashInput("20.00"))
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	require.NotNil(t, result)
	assert.Equal(t, "unsupported payment method", result.DeclineReason)
}

func TestRecharge_CardNotFoundAfterApprovalIsAudited(t *testing.T) {
	cardRepo := new(MockCardRepository)
	ledgerRepo := new(MockLedgerRepository)
	gateway := &stubGateway{
		method: payment.MethodCash,
		auth:   &payment.Authorization{Approved: true, ProviderTxID: "CASH-orphan"},
	}

	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(nil, gorm.ErrRecordNotFound)

	var appended *model.Transaction
	ledgerRepo.On("Append", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*model.Transaction)
		}).Return(nil)

	svc := NewRechargeService(cardRepo, ledgerRepo, payment.NewRegistry(gateway),
		&fakeCoordinator{}, nil, floor(), time.Second)

	_, err := svc.Recharge(context.Background(), cashInput("20.00"))
	assert.ErrorIs(t, err, apperrors.ErrCardNotFound)

	// The captured payment is traceable for reconciliation.
	require.NotNil(t, appended)
	assert.Equal(t, model.TransactionOutcomeFailed, appended.Outcome)
	require.NotNil(t, appended.Metadata.ProviderTxID)
	assert.Equal(t, "CASH-orphan", *appended.Metadata.ProviderTxID)
}

func TestRecharge_AmountRoundedAtWrite(t *testing.T) {
	cardRepo := new(MockCardRepository)
	ledgerRepo := new(MockLedgerRepository)
	txCards := new(MockCardRepository)
	txLedger := new(MockLedgerRepository)

	gateway := &stubGateway{
		method: payment.MethodCash,
		auth:   &payment.Authorization{Approved: true, ProviderTxID: "CASH-round"},
	}

	cardRepo.On("FindActiveByUID", mock.Anything, testCardUID).Return(testCard("0.00"), nil)
	txCards.On("FindByUIDForUpdate", mock.Anything, testCardUID).Return(testCard("0.00"), nil)
	txCards.On("CreditBalance", mock.Anything, testCardUID, decimalEq("20.01")).Return(nil)
	txLedger.On("Append", mock.Anything, mock.Anything).Return(nil)

	svc := NewRechargeService(cardRepo, ledgerRepo, payment.NewRegistry(gateway),
		&fakeCoordinator{cards: txCards, ledger: txLedger}, nil, floor(), time.Second)

	in := cashInput("20.005")
	result, err := svc.Recharge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "20.01", result.NewBalance.StringFixed(2))
}
