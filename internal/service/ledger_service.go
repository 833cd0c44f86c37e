package service

import (
	"context"
	"fmt"
	"time"

	"farecard/internal/model"
	"farecard/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	defaultWindowHours  = 24
	maxWindowHours      = 7 * 24
)

// LedgerService exposes read access to the audit trail.
type LedgerService interface {
	History(ctx context.Context, cardUID string, limit, offset int) ([]model.Transaction, error)
	RecentWindow(ctx context.Context, hours int) ([]model.Transaction, error)
	DailyAggregate(ctx context.Context, date string) (*repository.DailyAggregate, error)
}

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo repository.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

// History returns a card's ledger entries, newest first. Limits are clamped
// so a single request cannot drag the whole trail.
func (s *ledgerService) History(ctx context.Context, cardUID string, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.ledgerRepo.FindByCardUID(ctx, cardUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("card history: %w", err)
	}
	return entries, nil
}

// RecentWindow returns all entries of the last N hours.
func (s *ledgerService) RecentWindow(ctx context.Context, hours int) ([]model.Transaction, error) {
	if hours <= 0 {
		hours = defaultWindowHours
	}
	if hours > maxWindowHours {
		hours = maxWindowHours
	}
	entries, err := s.ledgerRepo.RecentWindow(ctx, hours)
	if err != nil {
		return nil, fmt.Errorf("recent window: %w", err)
	}
	return entries, nil
}

// DailyAggregate summarizes successful entries of one calendar day. An empty
// date means today.
func (s *ledgerService) DailyAggregate(ctx context.Context, date string) (*repository.DailyAggregate, error) {
	day := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		day = parsed
	}
	aggregate, err := s.ledgerRepo.DailyAggregate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("daily aggregate: %w", err)
	}
	return aggregate, nil
}
