// Package payment defines the adapter boundary to external payment
// providers. Real provider integrations substitute behind Gateway without
// touching the recharge flow.
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Method identifies a supported payment channel.
type Method string

const (
	MethodCash   Method = "cash"
	MethodQR     Method = "qr"
	MethodWallet Method = "wallet"
)

// Params carries method-specific fields from the recharge request. Which
// fields matter depends on the method.
type Params struct {
	ConfirmationCode string // cash: on-site confirmation code
	BankReference    string // qr: bank transfer reference
	Phone            string // wallet: account phone number
	Reference        string // wallet: operation reference
}

// Authorization is the provider's answer to a validation request.
type Authorization struct {
	Approved     bool
	ProviderTxID string
	Reason       string
}

// Gateway validates an external payment before a recharge is credited.
type Gateway interface {
	Method() Method
	Authorize(ctx context.Context, amount decimal.Decimal, params Params) (*Authorization, error)
}

// Registry dispatches a payment method to its gateway.
type Registry struct {
	gateways map[Method]Gateway
}

// NewRegistry creates a registry from the given gateways.
func NewRegistry(gateways ...Gateway) *Registry {
	m := make(map[Method]Gateway, len(gateways))
	for _, g := range gateways {
		m[g.Method()] = g
	}
	return &Registry{gateways: m}
}

// Lookup returns the gateway for a method, or false when unsupported.
func (r *Registry) Lookup(method Method) (Gateway, bool) {
	g, ok := r.gateways[method]
	return g, ok
}

// DefaultRegistry wires the three simulated providers with the given
// simulated latency.
func DefaultRegistry(latency time.Duration) *Registry {
	return NewRegistry(
		NewCashGateway(latency),
		NewQRGateway(latency),
		NewWalletGateway(latency),
	)
}

// simulateLatency blocks for the provider round-trip or until the context
// expires. A context error means the provider never answered; callers treat
// it as a decline.
func simulateLatency(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func declined(reason string) *Authorization {
	return &Authorization{Approved: false, Reason: reason}
}
