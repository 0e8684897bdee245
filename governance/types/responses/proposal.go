package responses

import (
	"github.com/hoepeyemi/fusee-sub001/governance/types"

	"github.com/shopspring/decimal"
)

// Response

// VoteOutcome reports what a recorded vote did to the proposal.
type VoteOutcome struct {
	ProposalID     string               `json:"proposal_id"`
	Status         types.ProposalStatus `json:"status"`
	ApprovalsCount int                  `json:"approvals_count"`
	Threshold      int                  `json:"threshold"`
	ThresholdMet   bool                 `json:"threshold_met"`
}

// ProposalStatusResponse is the full read-side projection of one proposal.
type ProposalStatusResponse struct {
	Proposal  *types.Proposal   `json:"proposal"`
	Approvals []*types.Approval `json:"approvals"`
	Threshold int               `json:"threshold"`
	Terminal  bool              `json:"terminal"`
	// Seconds until the execution time-lock elapses, 0 once executable
	RemainingLockSeconds int64 `json:"remaining_lock_seconds"`
}

type ExecutionOutcome struct {
	ProposalID       string               `json:"proposal_id"`
	Status           types.ProposalStatus `json:"status"`
	TransactionIndex uint64               `json:"transaction_index"`
	TxHash           string               `json:"tx_hash,omitempty"`
	Fee              decimal.Decimal      `json:"fee"`
}

// Statuses: "PENDING"
type PendingProposalsResponse []*types.Proposal
