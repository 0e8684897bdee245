// Package quorum holds the pure decision rules of the approval engine.
// Nothing here touches storage or clocks other than the instants passed in,
// so every function is safe for concurrent use.
package quorum

import (
	"time"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
)

// CanApprove reports whether a member's vote on a proposal is admissible.
// The caller supplies hasVoted from the approvals it already holds; the
// persistence layer still enforces the unique vote constraint underneath.
func CanApprove(proposal *types.Proposal, member *types.Member, hasVoted bool) error {
	if proposal.Status != types.ProposalPending {
		return types.NewOpErrf(types.ErrKindProposalNotPending,
			"proposal %s is %s, votes are only accepted while PENDING", proposal.ID, proposal.Status)
	}

	if !member.IsActive {
		return types.NewOpErrf(types.ErrKindMemberInactive, "member %s is deactivated", member.ID)
	}

	if !member.Capabilities.Has(types.CapabilityVote) {
		return types.NewOpErrf(types.ErrKindCapabilityMissing, "member %s has no vote capability", member.ID)
	}

	if hasVoted {
		return types.NewOpErrf(types.ErrKindAlreadyVoted,
			"member %s already voted on proposal %s", member.ID, proposal.ID)
	}

	return nil
}

// CanExecute reports whether a member may trigger execution of a proposal.
// It checks the actor and the status only; the time-lock is a separate gate.
func CanExecute(proposal *types.Proposal, member *types.Member) error {
	if proposal.Status == types.ProposalExecuted {
		return types.NewOpErrf(types.ErrKindAlreadyExecuted,
			"proposal %s was already executed as %s", proposal.ID, proposal.ExecutedTxHash)
	}

	if proposal.Status != types.ProposalApproved {
		return types.NewOpErrf(types.ErrKindNotApproved,
			"proposal %s is %s, only APPROVED proposals execute", proposal.ID, proposal.Status)
	}

	if !member.IsActive {
		return types.NewOpErrf(types.ErrKindMemberInactive, "member %s is deactivated", member.ID)
	}

	if !member.Capabilities.Has(types.CapabilityExecute) {
		return types.NewOpErrf(types.ErrKindCapabilityMissing, "member %s has no execute capability", member.ID)
	}

	return nil
}

// ThresholdMet reports whether approveCount crosses the multisig threshold.
func ThresholdMet(approveCount, threshold int) bool {
	return approveCount >= threshold
}

// TimeLockElapsed reports whether the execution delay counted from the latest
// approval has passed, and if not, how many whole seconds remain (rounded up).
// A zero latestApproval means the threshold was never crossed, so the lock
// never elapses.
func TimeLockElapsed(latestApproval time.Time, lockSeconds int64, now time.Time) (bool, int64) {
	if latestApproval.IsZero() {
		return false, lockSeconds
	}

	unlockAt := latestApproval.Add(time.Duration(lockSeconds) * time.Second)
	if !now.Before(unlockAt) {
		return true, 0
	}

	left := unlockAt.Sub(now)
	remaining := int64(left / time.Second)
	if left%time.Second != 0 {
		remaining++
	}
	return false, remaining
}

// MaxRemovable is how many signers may be deactivated right now without the
// group losing the ability to outvote a single faulty signer. The extra -1
// keeps one active signer of headroom above the threshold.
func MaxRemovable(activeCount, threshold int) int {
	n := activeCount - threshold - 1
	if n < 0 {
		return 0
	}
	return n
}

// ValidateGroup checks the standing invariant threshold >= 1 and
// threshold <= activeCount. It guards multisig creation and every later
// membership change.
func ValidateGroup(threshold, activeCount int) error {
	if threshold < 1 {
		return types.NewOpErrf(types.ErrKindValidation, "threshold must be at least 1, got %d", threshold)
	}

	if threshold > activeCount {
		return types.NewOpErrf(types.ErrKindThresholdTooHigh,
			"threshold %d exceeds active member count %d", threshold, activeCount)
	}

	return nil
}
