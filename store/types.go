// Package store defines the persistence contract of the governance engine.
// Implementations live in store/gorm_store (relational) and store/leveldb_store
// (embedded); both honor the same sentinel errors and locking semantics.
package store

import (
	"context"
	"errors"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrDuplicateApproval = errors.New("duplicate approval for proposal and member")
)

// ProposalTxn is the view handed to an UpdateProposal callback. The proposal
// row is locked for the duration of the callback: reads are consistent and
// saves are atomic with the approvals added in the same callback.
type ProposalTxn interface {
	Proposal() *types.Proposal
	Approvals() ([]*types.Approval, error)

	// AddApproval returns ErrDuplicateApproval if the member already voted.
	AddApproval(approval *types.Approval) error
	SaveProposal(proposal *types.Proposal) error
}

// Store is the engine's persistence boundary.
//
// NextTransactionIndex must be an atomic increment-and-read on the multisig
// counter row: two concurrent calls never observe the same value, and values
// only grow. UpdateProposal callbacks for the same proposal id must execute
// serially; the callback returning an error discards every write it made.
type Store interface {
	CreateMultisig(ctx context.Context, multisig *types.Multisig, members []*types.Member) error
	GetMultisig(ctx context.Context, id string) (*types.Multisig, error)
	ListMultisigs(ctx context.Context, onlyActive bool) ([]*types.Multisig, error)
	NextTransactionIndex(ctx context.Context, multisigID string) (uint64, error)

	AddMember(ctx context.Context, member *types.Member) error
	GetMember(ctx context.Context, id string) (*types.Member, error)
	ListMembers(ctx context.Context, multisigID string, onlyActive bool) ([]*types.Member, error)
	SaveMember(ctx context.Context, member *types.Member) error

	CreateProposal(ctx context.Context, proposal *types.Proposal) error
	GetProposal(ctx context.Context, id string) (*types.Proposal, error)
	ListProposalsByStatus(ctx context.Context, multisigID string, status types.ProposalStatus) ([]*types.Proposal, error)
	ListApprovals(ctx context.Context, proposalID string) ([]*types.Approval, error)

	UpdateProposal(ctx context.Context, id string, fn func(txn ProposalTxn) error) error

	Close() error
}
