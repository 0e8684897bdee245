package responses

import "time"

// SignerHealthResponse summarizes the lifecycle state of one multisig's
// signer set.
type SignerHealthResponse struct {
	MultisigID      string               `json:"multisig_id"`
	Threshold       int                  `json:"threshold"`
	ActiveCount     int                  `json:"active_count"`
	FlaggedCount    int                  `json:"flagged_count"`
	RemovalEligible int                  `json:"removal_eligible"`
	RemovalHeadroom int                  `json:"removal_headroom"`
	QuorumAtRisk    bool                 `json:"quorum_at_risk"`
	Signers         []*SignerHealthEntry `json:"signers"`
}

type SignerHealthEntry struct {
	MemberID       string     `json:"member_id"`
	Name           string     `json:"name"`
	IsActive       bool       `json:"is_active"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	FlaggedAt      *time.Time `json:"flagged_at,omitempty"`
	DeactivatedAt  *time.Time `json:"deactivated_at,omitempty"`
}

// SweepReport is returned by a scheduler pass, manual or periodic.
// DeferredRemovals counts members that stayed active only because removing
// them would have exhausted the quorum headroom.
type SweepReport struct {
	SweptAt            time.Time         `json:"swept_at"`
	MultisigsSeen      int               `json:"multisigs_seen"`
	FlaggedMembers     int               `json:"flagged_members"`
	DeactivatedMembers int               `json:"deactivated_members"`
	DeferredRemovals   int               `json:"deferred_removals"`
	ExpiredProposals   int               `json:"expired_proposals"`
	AmbiguousExecs     int               `json:"ambiguous_execs"`
	Failures           map[string]string `json:"failures,omitempty"`
}
