package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"farecard/internal/cache"
	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/repository"
)

const cardCacheTTL = 1 * time.Minute

// CardService handles card lifecycle and balance reads.
type CardService interface {
	Register(ctx context.Context, uid, ownerID string, initialBalance decimal.Decimal) (*model.Card, error)
	GetByUID(ctx context.Context, uid string) (*model.Card, error)
	Deactivate(ctx context.Context, uid string) (*model.Card, error)
}

type cardService struct {
	cardRepo repository.CardRepository
	cache    *cache.Client
}

// NewCardService creates a new card service.
func NewCardService(cardRepo repository.CardRepository, cache *cache.Client) CardService {
	return &cardService{
		cardRepo: cardRepo,
		cache:    cache,
	}
}

func (s *cardService) cacheKey(uid string) string {
	return fmt.Sprintf("card:%s", uid)
}

// Register creates a card for an NFC uid. The uid stays unique forever, even
// against deactivated cards.
func (s *cardService) Register(ctx context.Context, uid, ownerID string, initialBalance decimal.Decimal) (*model.Card, error) {
	if initialBalance.IsNegative() {
		return nil, apperrors.ErrInvalidBalance
	}
	card := &model.Card{
		UID:     uid,
		OwnerID: ownerID,
		Balance: initialBalance.Round(2),
		Active:  true,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetByUID retrieves a card with caching. Flows never use this read; they
// always go to the database.
func (s *cardService) GetByUID(ctx context.Context, uid string) (*model.Card, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(uid)); data != nil {
		var cached model.Card
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	card, err := s.cardRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("get card: %w", err)
	}

	if payload, err := json.Marshal(card); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(uid), payload, cardCacheTTL)
	}
	return card, nil
}

// Deactivate soft-disables a card. The row is never deleted.
func (s *cardService) Deactivate(ctx context.Context, uid string) (*model.Card, error) {
	card, err := s.cardRepo.Deactivate(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("deactivate card: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(uid))
	return card, nil
}
