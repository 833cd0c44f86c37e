package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
)

// CardRepository defines card persistence operations. Balance mutations go
// through DebitBalance/CreditBalance, which update conditionally in a single
// statement so the read-then-write lost-update race cannot occur.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	FindActiveByUID(ctx context.Context, uid string) (*model.Card, error)
	FindByUID(ctx context.Context, uid string) (*model.Card, error)
	FindByUIDForUpdate(ctx context.Context, uid string) (*model.Card, error)
	DebitBalance(ctx context.Context, uid string, amount decimal.Decimal) error
	CreditBalance(ctx context.Context, uid string, amount decimal.Decimal) error
	SetBalance(ctx context.Context, uid string, newBalance decimal.Decimal) error
	Deactivate(ctx context.Context, uid string) (*model.Card, error)
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

// Create creates a new card.
func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	card.Balance = card.Balance.Round(2)
	if card.Balance.IsNegative() {
		return apperrors.ErrInvalidBalance
	}
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.ErrCardExists
		}
		return err
	}
	return nil
}

// FindActiveByUID finds an active card by its NFC uid.
func (r *cardRepository) FindActiveByUID(ctx context.Context, uid string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).
		Where("uid = ? AND active = ?", uid, true).
		First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByUID finds a card by uid regardless of activation state.
func (r *cardRepository) FindByUID(ctx context.Context, uid string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByUIDForUpdate finds an active card by uid with a row-level lock.
// Only meaningful inside a transaction.
func (r *cardRepository) FindByUIDForUpdate(ctx context.Context, uid string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("uid = ? AND active = ?", uid, true).
		First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// DebitBalance decrements the balance in one conditional statement. The
// WHERE clause guards the non-negative invariant: zero rows affected means
// the balance could not cover the amount (or the card vanished), reported
// as ErrInsufficientFunds.
func (r *cardRepository) DebitBalance(ctx context.Context, uid string, amount decimal.Decimal) error {
	amount = amount.Round(2)
	res := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("uid = ? AND active = ? AND balance >= ?", uid, true, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInsufficientFunds
	}
	return nil
}

// CreditBalance increments the balance in one conditional statement.
func (r *cardRepository) CreditBalance(ctx context.Context, uid string, amount decimal.Decimal) error {
	amount = amount.Round(2)
	res := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("uid = ? AND active = ?", uid, true).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBalance writes an absolute balance. Negative balances are rejected
// unconditionally, regardless of caller.
func (r *cardRepository) SetBalance(ctx context.Context, uid string, newBalance decimal.Decimal) error {
	newBalance = newBalance.Round(2)
	if newBalance.IsNegative() {
		return apperrors.ErrInvalidBalance
	}
	res := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("uid = ?", uid).
		Update("balance", newBalance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate clears the active flag. Soft only: the row and its uid
// uniqueness survive so the uid can never be reissued.
func (r *cardRepository) Deactivate(ctx context.Context, uid string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&card).Error; err != nil {
		return nil, err
	}
	if card.Active {
		card.Active = false
		if err := r.db.WithContext(ctx).Model(&card).Update("active", false).Error; err != nil {
			return nil, err
		}
	}
	return &card, nil
}
