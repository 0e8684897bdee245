package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus is a stage of the proposal lifecycle. Transitions between
// statuses are validated by the governance/proposal package.
type ProposalStatus string

const (
	ProposalPending   = ProposalStatus("PENDING")
	ProposalApproved  = ProposalStatus("APPROVED")
	ProposalExecuted  = ProposalStatus("EXECUTED")
	ProposalRejected  = ProposalStatus("REJECTED")
	ProposalCancelled = ProposalStatus("CANCELLED")
	ProposalFailed    = ProposalStatus("FAILED")
)

func (s ProposalStatus) String() string {
	return string(s)
}

type VoteType string

const (
	VoteApprove = VoteType("APPROVE")
	VoteReject  = VoteType("REJECT")
)

// Multisig is a governance group of signers. The store owns
// NextTransactionIndex: it must only be advanced through the atomic
// increment-and-read store operation, never written directly.
type Multisig struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name                 string    `json:"name" gorm:"uniqueIndex"`
	Threshold            int       `json:"threshold"`
	TimeLockSeconds      int64     `json:"time_lock_seconds"`
	FeeBps               int64     `json:"fee_bps"`
	NextTransactionIndex uint64    `json:"next_transaction_index"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Member is a signer belonging to exactly one multisig.
//
// InactiveFlaggedAt is the soft inactivity mark: a flagged member still counts
// towards quorum until DeactivatedAt is set. Deactivation keeps the row for
// audit; a membership is never deleted and never reactivated.
type Member struct {
	ID                string        `json:"id" gorm:"primaryKey;type:uuid"`
	MultisigID        string        `json:"multisig_id" gorm:"type:uuid;index;uniqueIndex:idx_member_multisig_key"`
	PublicKey         string        `json:"public_key" gorm:"uniqueIndex:idx_member_multisig_key"`
	Name              string        `json:"name"`
	Capabilities      CapabilitySet `json:"capabilities"`
	IsActive          bool          `json:"is_active"`
	LastActivityAt    time.Time     `json:"last_activity_at"`
	InactiveFlaggedAt *time.Time    `json:"inactive_flagged_at,omitempty"`
	DeactivatedAt     *time.Time    `json:"deactivated_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Flagged reports whether the member carries the soft inactivity mark.
func (m *Member) Flagged() bool {
	return m.InactiveFlaggedAt != nil
}

// Proposal is a single requested fund movement. TransactionIndex is strictly
// increasing per multisig and never reused. ApprovedAt holds the timestamp of
// the approval that crossed the threshold; the execution time-lock is counted
// from it. Once a proposal reaches a terminal status it is immutable.
type Proposal struct {
	ID               string          `json:"id" gorm:"primaryKey;type:uuid"`
	MultisigID       string          `json:"multisig_id" gorm:"type:uuid;index;uniqueIndex:idx_proposal_multisig_seq"`
	TransactionIndex uint64          `json:"transaction_index" gorm:"uniqueIndex:idx_proposal_multisig_seq"`
	FromVault        string          `json:"from_vault"`
	ToAddress        string          `json:"to_address"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(38,9)"`
	Fee              decimal.Decimal `json:"fee" gorm:"type:decimal(38,9)"`
	Currency         string          `json:"currency"`
	Memo             string          `json:"memo"`
	ProposerID       string          `json:"proposer_id" gorm:"type:uuid"`
	Status           ProposalStatus  `json:"status" gorm:"index"`
	StatusReason     string          `json:"status_reason,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	ExecutedTxHash   string          `json:"executed_tx_hash,omitempty"`
	ExpiresAt        time.Time       `json:"expires_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Approval is one signer's vote on one proposal. The (ProposalID, MemberID)
// pair is unique: a signer votes once and the vote is never revoked.
type Approval struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProposalID string    `json:"proposal_id" gorm:"type:uuid;index;uniqueIndex:idx_approval_vote_once"`
	MemberID   string    `json:"member_id" gorm:"type:uuid;uniqueIndex:idx_approval_vote_once"`
	Type       VoteType  `json:"type"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
