// Package uow wraps balance writes and ledger appends into a single unit of
// work: both become visible together or not at all.
package uow

import (
	"context"

	"gorm.io/gorm"

	"farecard/internal/repository"
)

// UnitOfWork exposes transaction-scoped repositories to a coordinated
// function. All writes issued through it share one commit.
type UnitOfWork interface {
	Cards() repository.CardRepository
	Ledger() repository.LedgerRepository
}

// Coordinator executes a function atomically against the card store and the
// ledger. Any returned error discards every write of the invocation.
type Coordinator interface {
	Run(ctx context.Context, fn func(ctx context.Context, u UnitOfWork) error) error
	// Transactional reports whether Run provides real atomicity. A false
	// return means the degraded best-effort mode is in use.
	Transactional() bool
}

type gormUnit struct {
	cards  repository.CardRepository
	ledger repository.LedgerRepository
}

func (u gormUnit) Cards() repository.CardRepository    { return u.cards }
func (u gormUnit) Ledger() repository.LedgerRepository { return u.ledger }

type gormCoordinator struct {
	db *gorm.DB
}

// NewCoordinator creates a transactional coordinator over the database.
func NewCoordinator(db *gorm.DB) Coordinator {
	return &gormCoordinator{db: db}
}

// Run executes fn inside a database transaction; both repositories are bound
// to the same tx handle.
func (c *gormCoordinator) Run(ctx context.Context, fn func(ctx context.Context, u UnitOfWork) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, gormUnit{
			cards:  repository.NewCardRepository(tx),
			ledger: repository.NewLedgerRepository(tx),
		})
	})
}

func (c *gormCoordinator) Transactional() bool { return true }

type bestEffortCoordinator struct {
	db *gorm.DB
}

// NewBestEffortCoordinator creates a coordinator that runs the unit of work
// without a transaction, for backends that cannot commit multiple statements
// atomically. Weaker guarantee: a crash between the balance write and the
// ledger append leaves them inconsistent. Callers must opt in explicitly.
func NewBestEffortCoordinator(db *gorm.DB) Coordinator {
	return &bestEffortCoordinator{db: db}
}

func (c *bestEffortCoordinator) Run(ctx context.Context, fn func(ctx context.Context, u UnitOfWork) error) error {
	return fn(ctx, gormUnit{
		cards:  repository.NewCardRepository(c.db),
		ledger: repository.NewLedgerRepository(c.db),
	})
}

func (c *bestEffortCoordinator) Transactional() bool { return false }
