package payment

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	confirmationCodeRegex = regexp.MustCompile(`^\d{6}$`)
	bankReferenceRegex    = regexp.MustCompile(`^[A-Za-z0-9]{8,32}$`)
	phoneRegex            = regexp.MustCompile(`^\d{10}$`)
)

// cashGateway simulates an on-site cash confirmation terminal. The attendant
// keys a 6-digit confirmation code after receiving the money.
type cashGateway struct {
	latency time.Duration
}

// NewCashGateway creates the cash provider simulator.
func NewCashGateway(latency time.Duration) Gateway {
	return &cashGateway{latency: latency}
}

func (g *cashGateway) Method() Method { return MethodCash }

func (g *cashGateway) Authorize(ctx context.Context, amount decimal.Decimal, params Params) (*Authorization, error) {
	if err := simulateLatency(ctx, g.latency); err != nil {
		return nil, err
	}
	if !confirmationCodeRegex.MatchString(params.ConfirmationCode) {
		return declined("confirmation code missing or malformed"), nil
	}
	return &Authorization{
		Approved:     true,
		ProviderTxID: providerTxID("CASH"),
	}, nil
}

// qrGateway simulates a QR bank-transfer provider keyed by the bank's
// operation reference.
type qrGateway struct {
	latency time.Duration
}

// NewQRGateway creates the QR provider simulator.
func NewQRGateway(latency time.Duration) Gateway {
	return &qrGateway{latency: latency}
}

func (g *qrGateway) Method() Method { return MethodQR }

func (g *qrGateway) Authorize(ctx context.Context, amount decimal.Decimal, params Params) (*Authorization, error) {
	if err := simulateLatency(ctx, g.latency); err != nil {
		return nil, err
	}
	if !bankReferenceRegex.MatchString(params.BankReference) {
		return declined("bank reference missing or malformed"), nil
	}
	return &Authorization{
		Approved:     true,
		ProviderTxID: providerTxID("QR"),
	}, nil
}

// walletGateway simulates a mobile-wallet provider that matches a phone
// number with the wallet operation reference.
type walletGateway struct {
	latency time.Duration
}

// NewWalletGateway creates the mobile-wallet provider simulator.
func NewWalletGateway(latency time.Duration) Gateway {
	return &walletGateway{latency: latency}
}

func (g *walletGateway) Method() Method { return MethodWallet }

func (g *walletGateway) Authorize(ctx context.Context, amount decimal.Decimal, params Params) (*Authorization, error) {
	if err := simulateLatency(ctx, g.latency); err != nil {
		return nil, err
	}
	if !phoneRegex.MatchString(params.Phone) {
		return declined("phone number missing or malformed"), nil
	}
	if params.Reference == "" {
		return declined("wallet reference missing"), nil
	}
	return &Authorization{
		Approved:     true,
		ProviderTxID: providerTxID("WALLET"),
	}, nil
}

func providerTxID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}
