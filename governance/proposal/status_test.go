package proposal_test

import (
	"testing"

	"github.com/hoepeyemi/fusee-sub001/governance/proposal"
	"github.com/hoepeyemi/fusee-sub001/governance/types"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	req := require.New(t)

	allowed := []struct {
		from types.ProposalStatus
		to   types.ProposalStatus
	}{
		{types.ProposalPending, types.ProposalApproved},
		{types.ProposalPending, types.ProposalRejected},
		{types.ProposalPending, types.ProposalCancelled},
		{types.ProposalApproved, types.ProposalExecuted},
		{types.ProposalApproved, types.ProposalFailed},
	}
	for _, tr := range allowed {
		req.NoError(proposal.CanTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	// Votes only act on PENDING proposals.
	err := proposal.CanTransition(types.ProposalApproved, types.ProposalRejected)
	req.Error(err)
	req.Equal(types.ErrKindProposalNotPending, types.KindOf(err))

	// Execution only acts on APPROVED proposals.
	err = proposal.CanTransition(types.ProposalPending, types.ProposalExecuted)
	req.Error(err)
	req.Equal(types.ErrKindNotApproved, types.KindOf(err))

	// Terminal statuses have no way out.
	for _, terminal := range []types.ProposalStatus{
		types.ProposalExecuted,
		types.ProposalRejected,
		types.ProposalCancelled,
		types.ProposalFailed,
	} {
		for _, to := range []types.ProposalStatus{
			types.ProposalPending,
			types.ProposalApproved,
			types.ProposalExecuted,
			types.ProposalFailed,
		} {
			req.Error(proposal.CanTransition(terminal, to), "%s -> %s must be rejected", terminal, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	req := require.New(t)

	req.False(proposal.Terminal(types.ProposalPending))
	req.False(proposal.Terminal(types.ProposalApproved))
	req.True(proposal.Terminal(types.ProposalExecuted))
	req.True(proposal.Terminal(types.ProposalRejected))
	req.True(proposal.Terminal(types.ProposalCancelled))
	req.True(proposal.Terminal(types.ProposalFailed))
}

func TestKnown(t *testing.T) {
	req := require.New(t)

	req.True(proposal.Known(types.ProposalPending))
	req.True(proposal.Known(types.ProposalFailed))
	req.False(proposal.Known(types.ProposalStatus("DRAFT")))
}
