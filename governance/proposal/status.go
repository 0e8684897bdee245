// Package proposal defines the proposal status lifecycle. Every status write
// in the engine goes through CanTransition, so an illegal hop can never reach
// the store.
package proposal

import (
	"fmt"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
)

// Transition key source + dst
type trKey struct {
	source types.ProposalStatus
	dst    types.ProposalStatus
}

type lifecycleTable struct {
	transitions map[trKey]bool
	allStatuses map[types.ProposalStatus]bool

	// Terminal statuses cannot be a source in this table
	finStatuses map[types.ProposalStatus]bool
}

var lifecycle = mustNewLifecycle([]trKey{
	{types.ProposalPending, types.ProposalApproved},
	{types.ProposalPending, types.ProposalRejected},
	{types.ProposalPending, types.ProposalCancelled},
	{types.ProposalApproved, types.ProposalExecuted},
	{types.ProposalApproved, types.ProposalFailed},
})

func mustNewLifecycle(pairs []trKey) *lifecycleTable {
	t := &lifecycleTable{
		transitions: make(map[trKey]bool),
		allStatuses: make(map[types.ProposalStatus]bool),
		finStatuses: make(map[types.ProposalStatus]bool),
	}

	allSources := make(map[types.ProposalStatus]bool)

	for _, pair := range pairs {
		if pair.source == "" || pair.dst == "" {
			panic("cannot init empty transition")
		}

		if t.transitions[pair] {
			panic(fmt.Sprintf("duplicate transition \"%s\" -> \"%s\"", pair.source, pair.dst))
		}

		t.transitions[pair] = true
		allSources[pair.source] = true
		t.allStatuses[pair.source] = true
		t.allStatuses[pair.dst] = true
	}

	if len(t.allStatuses) < 2 {
		panic("lifecycle must contain at least two statuses")
	}

	for status := range t.allStatuses {
		if !allSources[status] {
			t.finStatuses[status] = true
		}
	}

	if len(t.finStatuses) == 0 {
		panic("cannot initialize lifecycle without terminal statuses")
	}

	return t
}

// CanTransition reports whether a proposal may move from one status to
// another. The error kind depends on what the caller was trying to reach:
// vote-stage targets surface proposal_not_pending, execution-stage targets
// surface not_approved.
func CanTransition(from, to types.ProposalStatus) error {
	if lifecycle.transitions[trKey{from, to}] {
		return nil
	}

	kind := types.ErrKindProposalNotPending
	if to == types.ProposalExecuted || to == types.ProposalFailed {
		kind = types.ErrKindNotApproved
	}

	return types.NewOpErrf(kind, "cannot move proposal from %s to %s", from, to)
}

// Terminal reports whether a status ends the lifecycle. Terminal proposals
// are immutable.
func Terminal(status types.ProposalStatus) bool {
	return lifecycle.finStatuses[status]
}

// Known reports whether the status appears in the lifecycle at all. The store
// uses it to reject rows that were written by a newer or corrupted build.
func Known(status types.ProposalStatus) bool {
	return lifecycle.allStatuses[status]
}
