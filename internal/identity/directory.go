package identity

import (
	"context"
	"sync"

	"farecard/internal/fare"
)

// Rider is the subset of a rider profile this service needs: a display name
// and the category selecting the fare tier. Profiles, credentials and
// sessions are owned by the identity service, never persisted here.
type Rider struct {
	Name     string        `json:"name"`
	Category fare.Category `json:"type"`
}

// Directory resolves a card owner to rider information.
type Directory interface {
	Lookup(ctx context.Context, ownerID string) (*Rider, error)
}

// StaticDirectory is an in-memory Directory for the demo binary and tests.
// Unknown owners resolve to the adult category; the fallback is deliberate
// and mirrors the fare policy default.
type StaticDirectory struct {
	mu     sync.RWMutex
	riders map[string]Rider
}

// NewStaticDirectory creates a directory seeded with the given riders.
func NewStaticDirectory(riders map[string]Rider) *StaticDirectory {
	if riders == nil {
		riders = make(map[string]Rider)
	}
	return &StaticDirectory{riders: riders}
}

// Lookup returns the rider for an owner id, or an adult placeholder when the
// owner is unknown.
func (d *StaticDirectory) Lookup(ctx context.Context, ownerID string) (*Rider, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if rider, ok := d.riders[ownerID]; ok {
		return &rider, nil
	}
	return &Rider{Name: "", Category: fare.CategoryAdult}, nil
}

// Put adds or replaces a rider entry.
func (d *StaticDirectory) Put(ownerID string, rider Rider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.riders[ownerID] = rider
}
