package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	TransactionKindRide     TransactionKind = "ride"
	TransactionKindRecharge TransactionKind = "recharge"
)

// TransactionOutcome is the result recorded for a balance-affecting attempt.
type TransactionOutcome string

const (
	TransactionOutcomeSuccess           TransactionOutcome = "success"
	TransactionOutcomeInsufficientFunds TransactionOutcome = "insufficient_funds"
	TransactionOutcomeFailed            TransactionOutcome = "failed"
	TransactionOutcomePending           TransactionOutcome = "pending"
)

// TransactionMetadata carries the balance snapshot and provider reference
// captured at write time.
type TransactionMetadata struct {
	PriorBalance *decimal.Decimal `json:"priorBalance,omitempty" gorm:"type:decimal(12,2)"`
	NewBalance   *decimal.Decimal `json:"newBalance,omitempty" gorm:"type:decimal(12,2)"`
	ProviderTxID *string          `json:"providerTransactionId,omitempty" gorm:"size:64;uniqueIndex"`
	Reason       string           `json:"reason,omitempty" gorm:"size:255"`
}

// Transaction is one immutable ledger entry for a card. Entries are
// append-only: never updated, never deleted, every attempt recorded.
type Transaction struct {
	ID          uuid.UUID           `json:"id" gorm:"type:char(36);primaryKey"`
	CardUID     string              `json:"cardUid" gorm:"size:32;not null;index:idx_ledger_card_created,priority:1"`
	Amount      decimal.Decimal     `json:"amount" gorm:"type:decimal(12,2);not null"` // negative for rides, positive for recharges
	Kind        TransactionKind     `json:"kind" gorm:"type:varchar(16);not null;index"`
	Outcome     TransactionOutcome  `json:"outcome" gorm:"type:varchar(24);not null;index"`
	ValidatorID *string             `json:"validatorId,omitempty" gorm:"size:36;index"`
	Location    string              `json:"location,omitempty" gorm:"size:128"`
	Metadata    TransactionMetadata `json:"metadata" gorm:"embedded;embeddedPrefix:meta_"`
	CreatedAt   time.Time           `json:"createdAt" gorm:"index:idx_ledger_card_created,priority:2"`
}

// BeforeCreate sets UUID before creating the record. Caller-supplied IDs are
// kept so device-side retries collide instead of double-charging.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
