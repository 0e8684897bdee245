// Package noop_gateway accepts every order without touching any ledger.
// It exists for development setups and tests that exercise governance flow
// without an executor service.
package noop_gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hoepeyemi/fusee-sub001/gateway"
)

type NoopGateway struct{}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{}
}

// Submit stamps a deterministic pseudo transaction hash derived from the
// idempotency pair, so repeated submissions of one order are visible as the
// same hash.
func (g *NoopGateway) Submit(_ context.Context, order gateway.ExecutionOrder) (*gateway.Receipt, error) {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s/%d", order.MultisigID, order.TransactionIndex)))

	return &gateway.Receipt{
		TxHash:      hex.EncodeToString(digest[:]),
		SubmittedAt: time.Now().UTC(),
	}, nil
}
