package requests

import (
	"time"

	"github.com/hoepeyemi/fusee-sub001/governance/types"

	"github.com/shopspring/decimal"
)

// Statuses: "PENDING"
type ProposalCreateRequest struct {
	MultisigID string
	ProposerID string
	FromVault  string
	ToAddress  string
	Amount     decimal.Decimal
	Currency   string
	Memo       string
	CreatedAt  time.Time
}

// Statuses: "PENDING"
// Votes: "APPROVE"
//        "REJECT"
type ProposalVoteRequest struct {
	ProposalID string
	MemberID   string
	Type       types.VoteType
	Comment    string
	CreatedAt  time.Time
}

// Statuses: "APPROVED"
type ProposalExecuteRequest struct {
	ProposalID string
	MemberID   string
	CreatedAt  time.Time
}

// Statuses: "PENDING"
type ProposalCancelRequest struct {
	ProposalID string
	MemberID   string
	Reason     string
	CreatedAt  time.Time
}
