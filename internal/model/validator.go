package model

import (
	"time"

	"gorm.io/gorm"
)

// ValidatorState is the activation state of a tap device.
type ValidatorState string

const (
	ValidatorStateActive      ValidatorState = "active"
	ValidatorStateInactive    ValidatorState = "inactive"
	ValidatorStateMaintenance ValidatorState = "maintenance"
)

// Validator is a physical tap device mounted on a bus or platform. Only
// active validators may authorize a ride.
type Validator struct {
	ID        string         `json:"id" gorm:"size:36;primaryKey"`
	BusID     string         `json:"busId" gorm:"size:32;index"`
	Location  string         `json:"location" gorm:"size:128"`
	Operator  string         `json:"operator" gorm:"size:64"`
	State     ValidatorState `json:"state" gorm:"type:varchar(16);not null;default:'inactive';index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// CanAuthorize reports whether the validator may authorize a ride tap.
func (v *Validator) CanAuthorize() bool {
	return v.State == ValidatorStateActive
}
