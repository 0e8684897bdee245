package signers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/governance/config"
	"github.com/hoepeyemi/fusee-sub001/governance/quorum"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/governance/types/responses"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/store"
)

// SweepOutcome counts what one lifecycle pass did to a multisig. Deferred
// counts removal-eligible members left active because deactivating them
// would have eaten the quorum headroom; they wait for a later pass.
type SweepOutcome struct {
	Flagged     int
	Deactivated int
	Deferred    int
}

type SignersService interface {
	RecordActivity(ctx context.Context, memberID string, at time.Time) error
	Health(ctx context.Context, multisigID string) (*responses.SignerHealthResponse, error)
	SweepMultisig(ctx context.Context, multisigID string, now time.Time) (*SweepOutcome, error)
}

// BaseSignersService watches signer liveness with two thresholds: after
// flagThreshold of silence a member is soft-flagged, after removalThreshold
// it becomes eligible for deactivation. Deactivation never drops the active
// set below threshold+1 members.
type BaseSignersService struct {
	store     store.Store
	publisher events.Publisher
	Logger    logger.Logger

	flagThreshold    time.Duration
	removalThreshold time.Duration
}

// NewSignersService builds the lifecycle watcher. Non-positive thresholds
// fall back to the governance defaults; a zero flag threshold would mark
// every member inactive on the first sweep.
func NewSignersService(
	stg store.Store,
	publisher events.Publisher,
	log logger.Logger,
	flagThreshold time.Duration,
	removalThreshold time.Duration,
) *BaseSignersService {
	if flagThreshold <= 0 {
		flagThreshold = config.InactivityFlagThreshold
	}
	if removalThreshold <= 0 {
		removalThreshold = config.InactivityRemovalThreshold
	}

	return &BaseSignersService{
		store:            stg,
		publisher:        publisher,
		Logger:           log,
		flagThreshold:    flagThreshold,
		removalThreshold: removalThreshold,
	}
}

// RecordActivity refreshes the member's liveness timestamp and clears the
// soft inactivity flag. The engine calls it after every operation a member
// performs; it is not an authorization check.
func (s *BaseSignersService) RecordActivity(ctx context.Context, memberID string, at time.Time) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to load member %s: %w", memberID, err)
	}

	member.LastActivityAt = at
	member.InactiveFlaggedAt = nil
	member.UpdatedAt = at

	if err := s.store.SaveMember(ctx, member); err != nil {
		return fmt.Errorf("failed to record activity for member %s: %w", memberID, err)
	}
	return nil
}

func (s *BaseSignersService) Health(ctx context.Context, multisigID string) (*responses.SignerHealthResponse, error) {
	multisig, err := s.store.GetMultisig(ctx, multisigID)
	if err != nil {
		return nil, fmt.Errorf("failed to load multisig %s: %w", multisigID, err)
	}

	members, err := s.store.ListMembers(ctx, multisigID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of multisig %s: %w", multisigID, err)
	}

	now := time.Now().UTC()
	health := &responses.SignerHealthResponse{
		MultisigID: multisigID,
		Threshold:  multisig.Threshold,
		Signers:    make([]*responses.SignerHealthEntry, 0, len(members)),
	}

	for _, member := range members {
		if member.IsActive {
			health.ActiveCount++
			if member.Flagged() {
				health.FlaggedCount++
			}
			if s.removalEligible(member, now) {
				health.RemovalEligible++
			}
		}

		health.Signers = append(health.Signers, &responses.SignerHealthEntry{
			MemberID:       member.ID,
			Name:           member.Name,
			IsActive:       member.IsActive,
			LastActivityAt: member.LastActivityAt,
			FlaggedAt:      member.InactiveFlaggedAt,
			DeactivatedAt:  member.DeactivatedAt,
		})
	}

	health.RemovalHeadroom = quorum.MaxRemovable(health.ActiveCount, multisig.Threshold)
	health.QuorumAtRisk = health.ActiveCount <= multisig.Threshold

	return health, nil
}

// removalEligible: the criterion is the silence duration itself, not how long
// the flag has been standing.
func (s *BaseSignersService) removalEligible(member *types.Member, now time.Time) bool {
	return member.Flagged() && now.Sub(member.LastActivityAt) >= s.removalThreshold
}

// SweepMultisig runs both lifecycle passes over one multisig: flag newly
// silent members, then deactivate the longest-silent eligible ones while
// keeping one member of headroom above the threshold.
func (s *BaseSignersService) SweepMultisig(ctx context.Context, multisigID string, now time.Time) (*SweepOutcome, error) {
	multisig, err := s.store.GetMultisig(ctx, multisigID)
	if err != nil {
		return nil, fmt.Errorf("failed to load multisig %s: %w", multisigID, err)
	}

	members, err := s.store.ListMembers(ctx, multisigID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of multisig %s: %w", multisigID, err)
	}

	outcome := &SweepOutcome{}

	// Candidates are taken before the flag pass: a member flagged in this
	// very sweep keeps its warning period and is only removable next time.
	candidates := make([]*types.Member, 0)
	for _, member := range members {
		if s.removalEligible(member, now) {
			candidates = append(candidates, member)
		}
	}

	for _, member := range members {
		if member.Flagged() || now.Sub(member.LastActivityAt) < s.flagThreshold {
			continue
		}

		flaggedAt := now
		member.InactiveFlaggedAt = &flaggedAt
		member.UpdatedAt = now
		if err := s.store.SaveMember(ctx, member); err != nil {
			return outcome, fmt.Errorf("failed to flag member %s: %w", member.ID, err)
		}
		outcome.Flagged++

		s.publishLifecycleEvent(ctx, events.KindSignerFlagged, multisig.ID, member, now)
	}

	// Oldest silence goes first; member id breaks ties deterministically.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].LastActivityAt.Equal(candidates[j].LastActivityAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].LastActivityAt.Before(candidates[j].LastActivityAt)
	})

	maxRemovable := quorum.MaxRemovable(len(members), multisig.Threshold)
	if len(candidates) > maxRemovable {
		outcome.Deferred = len(candidates) - maxRemovable
		candidates = candidates[:maxRemovable]
	}

	for _, member := range candidates {
		deactivatedAt := now
		member.IsActive = false
		member.DeactivatedAt = &deactivatedAt
		member.UpdatedAt = now
		if err := s.store.SaveMember(ctx, member); err != nil {
			return outcome, fmt.Errorf("failed to deactivate member %s: %w", member.ID, err)
		}
		outcome.Deactivated++

		s.publishLifecycleEvent(ctx, events.KindSignerDeactivated, multisig.ID, member, now)
	}

	return outcome, nil
}

func (s *BaseSignersService) publishLifecycleEvent(ctx context.Context, kind events.Kind, multisigID string, member *types.Member, now time.Time) {
	event, err := events.New(kind, map[string]interface{}{
		"member_name":      member.Name,
		"last_activity_at": member.LastActivityAt,
		"observed_at":      now,
	})
	if err != nil {
		s.Logger.Log("failed to build %s event: %v", kind, err)
		return
	}
	event.MultisigID = multisigID
	event.MemberID = member.ID

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.Logger.Log("failed to publish %s event: %v", kind, err)
	}
}
