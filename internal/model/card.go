package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Card represents a prepaid fare card bound to a physical NFC tag.
type Card struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UID       string          `json:"uid" gorm:"size:32;not null;uniqueIndex"` // NFC tag identifier
	OwnerID   string          `json:"ownerId" gorm:"size:64;not null;index"`   // rider reference; profiles live outside this service
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
	Active    bool            `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
