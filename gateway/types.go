// Package gateway defines the boundary to the component that actually moves
// funds on the ledger. The engine owns governance; the gateway owns
// submission.
package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExecutionOrder carries everything the executor needs to build and submit
// the ledger transaction. MultisigID plus TransactionIndex double as the
// idempotency key: the executor must treat a repeated pair as the same order.
type ExecutionOrder struct {
	ProposalID       string          `json:"proposal_id"`
	MultisigID       string          `json:"multisig_id"`
	TransactionIndex uint64          `json:"transaction_index"`
	FromVault        string          `json:"from_vault"`
	ToAddress        string          `json:"to_address"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	Currency         string          `json:"currency"`
	Memo             string          `json:"memo,omitempty"`
}

type Receipt struct {
	TxHash      string    `json:"tx_hash"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Gateway submits an order and reports the outcome. Submit must return a
// *gateway.Error so the engine can tell a definitive rejection (funds
// confirmed unmoved) from an ambiguous one (outcome unknown).
type Gateway interface {
	Submit(ctx context.Context, order ExecutionOrder) (*Receipt, error)
}
