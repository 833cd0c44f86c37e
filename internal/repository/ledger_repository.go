package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
)

// DailyAggregate summarizes one calendar day of successful ledger entries.
type DailyAggregate struct {
	Date          string          `json:"date"`
	Count         int64           `json:"count"`
	RideCount     int64           `json:"rideCount"`
	RechargeCount int64           `json:"rechargeCount"`
	RideRevenue   decimal.Decimal `json:"rideRevenue"`
	RechargeTotal decimal.Decimal `json:"rechargeTotal"`
}

// LedgerRepository defines append-only persistence for ledger entries.
// There is deliberately no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry *model.Transaction) error
	FindByCardUID(ctx context.Context, uid string, limit, offset int) ([]model.Transaction, error)
	RecentWindow(ctx context.Context, hours int) ([]model.Transaction, error)
	DailyAggregate(ctx context.Context, date time.Time) (*DailyAggregate, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append writes one immutable entry. The amount sign is normalized by kind
// before the insert: rides are always negative, recharges always positive,
// whatever the caller passed. Key collisions surface as ErrDuplicateEntry.
func (r *ledgerRepository) Append(ctx context.Context, entry *model.Transaction) error {
	entry.Amount = normalizeAmount(entry.Kind, entry.Amount)
	if entry.Metadata.PriorBalance != nil {
		rounded := entry.Metadata.PriorBalance.Round(2)
		entry.Metadata.PriorBalance = &rounded
	}
	if entry.Metadata.NewBalance != nil {
		rounded := entry.Metadata.NewBalance.Round(2)
		entry.Metadata.NewBalance = &rounded
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// FindByCardUID returns entries for a card, newest first.
func (r *ledgerRepository) FindByCardUID(ctx context.Context, uid string, limit, offset int) ([]model.Transaction, error) {
	var entries []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("card_uid = ?", uid).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// RecentWindow returns all entries written in the last N hours, newest first.
func (r *ledgerRepository) RecentWindow(ctx context.Context, hours int) ([]model.Transaction, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	var entries []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DailyAggregate computes counts and totals over successful entries of one
// calendar day. Ride revenue is reported positive.
func (r *ledgerRepository) DailyAggregate(ctx context.Context, date time.Time) (*DailyAggregate, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var row struct {
		Count         int64
		RideCount     int64
		RechargeCount int64
		RideRevenue   decimal.Decimal
		RechargeTotal decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0) AS ride_count,
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0) AS recharge_count,
			COALESCE(SUM(CASE WHEN kind = ? THEN -amount ELSE 0 END), 0) AS ride_revenue,
			COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0) AS recharge_total`,
			model.TransactionKindRide, model.TransactionKindRecharge,
			model.TransactionKindRide, model.TransactionKindRecharge).
		Where("outcome = ? AND created_at >= ? AND created_at < ?",
			model.TransactionOutcomeSuccess, dayStart, dayEnd).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &DailyAggregate{
		Date:          dayStart.Format("2006-01-02"),
		Count:         row.Count,
		RideCount:     row.RideCount,
		RechargeCount: row.RechargeCount,
		RideRevenue:   row.RideRevenue.Round(2),
		RechargeTotal: row.RechargeTotal.Round(2),
	}, nil
}

// normalizeAmount forces the sign convention: rides debit, recharges credit.
func normalizeAmount(kind model.TransactionKind, amount decimal.Decimal) decimal.Decimal {
	abs := amount.Abs().Round(2)
	if kind == model.TransactionKindRide {
		return abs.Neg()
	}
	return abs
}

// isDuplicateKey reports whether err is a MySQL unique key violation.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
