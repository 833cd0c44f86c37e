package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"farecard/internal/cache"
	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/payment"
	"farecard/internal/repository"
	"farecard/internal/uow"
)

// RechargeInput is a top-up request after transport-level validation.
type RechargeInput struct {
	CardUID string
	Amount  decimal.Decimal
	Method  payment.Method
	Params  payment.Params
}

// RechargeResult is the outcome of a top-up. DeclineReason is set when the
// provider rejected the payment.
type RechargeResult struct {
	NewBalance    decimal.Decimal
	Entry         *model.Transaction
	DeclineReason string
}

// RechargeService handles balance top-ups through payment providers.
type RechargeService interface {
	Recharge(ctx context.Context, in RechargeInput) (*RechargeResult, error)
}

type rechargeService struct {
	cardRepo    repository.CardRepository
	ledgerRepo  repository.LedgerRepository
	gateways    *payment.Registry
	coordinator uow.Coordinator
	cache       *cache.Client
	floor       decimal.Decimal
	timeout     time.Duration
}

// NewRechargeService creates a new recharge service.
func NewRechargeService(
	cardRepo repository.CardRepository,
	ledgerRepo repository.LedgerRepository,
	gateways *payment.Registry,
	coordinator uow.Coordinator,
	cache *cache.Client,
	floor decimal.Decimal,
	timeout time.Duration,
) RechargeService {
	return &rechargeService{
		cardRepo:    cardRepo,
		ledgerRepo:  ledgerRepo,
		gateways:    gateways,
		coordinator: coordinator,
		cache:       cache,
		floor:       floor,
		timeout:     timeout,
	}
}

// Recharge credits a card after the payment provider approves. Rejections
// before the provider call (missing fields, below the floor) write no ledger
// entry; a provider decline is audited with outcome failed so every attempt
// that reached the engine leaves a trace.
func (s *rechargeService) Recharge(ctx context.Context, in RechargeInput) (*RechargeResult, error) {
	if in.CardUID == "" || !in.Amount.IsPositive() {
		return nil, apperrors.ErrMissingFields
	}
	amount := in.Amount.Round(2)
	if amount.LessThan(s.floor) {
		return nil, apperrors.ErrBelowMinimum
	}

	gateway, ok := s.gateways.Lookup(in.Method)
	if !ok {
		return &RechargeResult{DeclineReason: "unsupported payment method"}, apperrors.ErrPaymentFailed
	}

	authCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	auth, err := gateway.Authorize(authCtx, amount, in.Params)
	if err != nil {
		// Provider never answered; treated exactly like a decline.
		return s.rejectDeclined(ctx, in.CardUID, amount, "provider timeout")
	}
	if !auth.Approved {
		return s.rejectDeclined(ctx, in.CardUID, amount, auth.Reason)
	}

	card, err := s.cardRepo.FindActiveByUID(ctx, in.CardUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Payment captured with no card to credit. No refund path
			// exists; reconciliation works off this log line and the
			// failed ledger entry.
			log.Printf("RECONCILIATION: payment %s captured for unknown card %s, amount %s",
				auth.ProviderTxID, in.CardUID, amount)
			s.auditOrphanedPayment(ctx, in.CardUID, amount, auth.ProviderTxID)
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}

	result := &RechargeResult{}
	err = s.coordinator.Run(ctx, func(ctx context.Context, u uow.UnitOfWork) error {
		locked, err := u.Cards().FindByUIDForUpdate(ctx, card.UID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCardNotFound
			}
			return err
		}
		if err := u.Cards().CreditBalance(ctx, card.UID, amount); err != nil {
			return err
		}

		prior := locked.Balance.Round(2)
		newBalance := prior.Add(amount).Round(2)
		entry := &model.Transaction{
			CardUID: card.UID,
			Amount:  amount,
			Kind:    model.TransactionKindRecharge,
			Outcome: model.TransactionOutcomeSuccess,
			Metadata: model.TransactionMetadata{
				PriorBalance: &prior,
				NewBalance:   &newBalance,
				ProviderTxID: &auth.ProviderTxID,
			},
		}
		if err := u.Ledger().Append(ctx, entry); err != nil {
			return err
		}

		result.NewBalance = newBalance
		result.Entry = entry
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) || errors.Is(err, apperrors.ErrCardNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("recharge: %w", err)
	}

	s.invalidateCard(ctx, card.UID)
	return result, nil
}

// rejectDeclined audits a provider decline and reports payment_failed.
// No balance change happened, so the entry commits on its own.
func (s *rechargeService) rejectDeclined(ctx context.Context, cardUID string, amount decimal.Decimal, reason string) (*RechargeResult, error) {
	entry := &model.Transaction{
		CardUID: cardUID,
		Amount:  amount,
		Kind:    model.TransactionKindRecharge,
		Outcome: model.TransactionOutcomeFailed,
		Metadata: model.TransactionMetadata{
			Reason: reason,
		},
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		log.Printf("audit declined recharge for card %s: %v", cardUID, err)
	}
	return &RechargeResult{DeclineReason: reason}, apperrors.ErrPaymentFailed
}

// auditOrphanedPayment records a captured payment that found no card.
func (s *rechargeService) auditOrphanedPayment(ctx context.Context, cardUID string, amount decimal.Decimal, providerTxID string) {
	entry := &model.Transaction{
		CardUID: cardUID,
		Amount:  amount,
		Kind:    model.TransactionKindRecharge,
		Outcome: model.TransactionOutcomeFailed,
		Metadata: model.TransactionMetadata{
			ProviderTxID: &providerTxID,
			Reason:       "card not found after payment capture",
		},
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		log.Printf("audit orphaned payment %s: %v", providerTxID, err)
	}
}

func (s *rechargeService) invalidateCard(ctx context.Context, uid string) {
	_ = s.cache.Delete(ctx, fmt.Sprintf("card:%s", uid))
}
