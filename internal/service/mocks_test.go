package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"farecard/internal/model"
	"farecard/internal/repository"
	"farecard/internal/uow"
)

// MockCardRepository is a mock implementation of CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) FindActiveByUID(ctx context.Context, uid string) (*model.Card, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByUID(ctx context.Context, uid string) (*model.Card, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByUIDForUpdate(ctx context.Context, uid string) (*model.Card, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) DebitBalance(ctx context.Context, uid string, amount decimal.Decimal) error {
	args := m.Called(ctx, uid, amount)
	return args.Error(0)
}

func (m *MockCardRepository) CreditBalance(ctx context.Context, uid string, amount decimal.Decimal) error {
	args := m.Called(ctx, uid, amount)
	return args.Error(0)
}

func (m *MockCardRepository) SetBalance(ctx context.Context, uid string, newBalance decimal.Decimal) error {
	args := m.Called(ctx, uid, newBalance)
	return args.Error(0)
}

func (m *MockCardRepository) Deactivate(ctx context.Context, uid string) (*model.Card, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

// MockValidatorRepository is a mock implementation of ValidatorRepository.
type MockValidatorRepository struct {
	mock.Mock
}

func (m *MockValidatorRepository) Create(ctx context.Context, validator *model.Validator) error {
	args := m.Called(ctx, validator)
	return args.Error(0)
}

func (m *MockValidatorRepository) FindByID(ctx context.Context, id string) (*model.Validator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Validator), args.Error(1)
}

func (m *MockValidatorRepository) List(ctx context.Context) ([]model.Validator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Validator), args.Error(1)
}

func (m *MockValidatorRepository) UpdateState(ctx context.Context, id string, state model.ValidatorState) (*model.Validator, error) {
	args := m.Called(ctx, id, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Validator), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *model.Transaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByCardUID(ctx context.Context, uid string, limit, offset int) ([]model.Transaction, error) {
	args := m.Called(ctx, uid, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) RecentWindow(ctx context.Context, hours int) ([]model.Transaction, error) {
	args := m.Called(ctx, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) DailyAggregate(ctx context.Context, date time.Time) (*repository.DailyAggregate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DailyAggregate), args.Error(1)
}

// testUnit bundles repositories into a UnitOfWork for tests.
type testUnit struct {
	cards  repository.CardRepository
	ledger repository.LedgerRepository
}

func (u testUnit) Cards() repository.CardRepository    { return u.cards }
func (u testUnit) Ledger() repository.LedgerRepository { return u.ledger }

// fakeCoordinator runs the unit of work directly against the given
// repositories, with no transaction semantics.
type fakeCoordinator struct {
	cards  repository.CardRepository
	ledger repository.LedgerRepository
}

func (c *fakeCoordinator) Run(ctx context.Context, fn func(ctx context.Context, u uow.UnitOfWork) error) error {
	return fn(ctx, testUnit{cards: c.cards, ledger: c.ledger})
}

func (c *fakeCoordinator) Transactional() bool { return true }

// decimalEq matches a decimal argument by value.
func decimalEq(want string) interface{} {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(expected)
	})
}
