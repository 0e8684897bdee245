package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/governance/proposal"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/governance/types/responses"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/signers"
	"github.com/hoepeyemi/fusee-sub001/store"
)

// errAlreadySettled marks an expiry callback that found the proposal settled
// by someone else between listing and locking.
var errAlreadySettled = errors.New("proposal already settled")

type SchedulerService interface {
	Run(ctx context.Context) error
	Sweep(ctx context.Context, now time.Time) (*responses.SweepReport, error)
}

// BaseSchedulerService runs the periodic housekeeping pass: signer lifecycle,
// proposal expiry and a count of executions waiting on reconciliation. A
// manual sweep through the API goes through the same Sweep method, so both
// paths are idempotent by construction.
type BaseSchedulerService struct {
	store     store.Store
	signers   signers.SignersService
	publisher events.Publisher
	Logger    logger.Logger

	interval time.Duration
	nowFunc  func() time.Time
}

func NewSchedulerService(sp *services.ServiceProvider, interval time.Duration) *BaseSchedulerService {
	return &BaseSchedulerService{
		store:     sp.GetStore(),
		signers:   sp.GetSignersService(),
		publisher: sp.GetPublisher(),
		Logger:    sp.GetLogger(),
		interval:  interval,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *BaseSchedulerService) Run(ctx context.Context) error {
	tk := time.NewTicker(s.interval)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			report, err := s.Sweep(ctx, s.nowFunc())
			if err != nil {
				s.Logger.Log("Sweep failed: %v", err)
				continue
			}
			if report.FlaggedMembers+report.DeactivatedMembers+report.ExpiredProposals+len(report.Failures) > 0 {
				s.Logger.Log("Sweep done: flagged %d, deactivated %d, expired %d, failed multisigs %d",
					report.FlaggedMembers, report.DeactivatedMembers, report.ExpiredProposals, len(report.Failures))
			}
		case <-ctx.Done():
			log.Println("Context closed, stop sweeping...")
			return nil
		}
	}
}

// Sweep walks every active multisig once. A failure in one multisig is
// recorded in the report and never stops the others.
func (s *BaseSchedulerService) Sweep(ctx context.Context, now time.Time) (*responses.SweepReport, error) {
	report := &responses.SweepReport{
		SweptAt:  now,
		Failures: make(map[string]string),
	}

	multisigs, err := s.store.ListMultisigs(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list multisigs: %w", err)
	}

	for _, multisig := range multisigs {
		report.MultisigsSeen++
		if err := s.sweepOne(ctx, multisig, now, report); err != nil {
			report.Failures[multisig.ID] = err.Error()
			s.Logger.Log("Sweep of multisig %s failed: %v", multisig.ID, err)
		}
	}

	return report, nil
}

func (s *BaseSchedulerService) sweepOne(ctx context.Context, multisig *types.Multisig, now time.Time, report *responses.SweepReport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panicked: %v", r)
		}
	}()

	outcome, err := s.signers.SweepMultisig(ctx, multisig.ID, now)
	if outcome != nil {
		report.FlaggedMembers += outcome.Flagged
		report.DeactivatedMembers += outcome.Deactivated
		report.DeferredRemovals += outcome.Deferred
	}
	if err != nil {
		return err
	}

	expired, err := s.expireProposals(ctx, multisig.ID, now)
	report.ExpiredProposals += expired
	if err != nil {
		return err
	}

	ambiguous, err := s.countAmbiguousExecutions(ctx, multisig.ID)
	report.AmbiguousExecs += ambiguous
	return err
}

// expireProposals cancels PENDING proposals whose expiry passed. The status
// is re-checked under the proposal lock, so racing a vote or a manual cancel
// settles cleanly either way.
func (s *BaseSchedulerService) expireProposals(ctx context.Context, multisigID string, now time.Time) (int, error) {
	pending, err := s.store.ListProposalsByStatus(ctx, multisigID, types.ProposalPending)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending proposals: %w", err)
	}

	expired := 0
	for _, stale := range pending {
		if now.Before(stale.ExpiresAt) {
			continue
		}

		err := s.store.UpdateProposal(ctx, stale.ID, func(txn store.ProposalTxn) error {
			current := txn.Proposal()
			if current.Status != types.ProposalPending || now.Before(current.ExpiresAt) {
				return errAlreadySettled
			}
			if err := proposal.CanTransition(current.Status, types.ProposalCancelled); err != nil {
				return err
			}

			current.Status = types.ProposalCancelled
			current.StatusReason = "expired before reaching threshold"
			current.UpdatedAt = now
			return txn.SaveProposal(current)
		})
		if err != nil {
			if errors.Is(err, errAlreadySettled) {
				continue
			}
			return expired, fmt.Errorf("failed to expire proposal %s: %w", stale.ID, err)
		}

		expired++
		s.publishExpiry(ctx, stale, now)
	}

	return expired, nil
}

// countAmbiguousExecutions surfaces APPROVED proposals stuck behind an
// unknown gateway outcome. The scheduler never retries them: reconciliation
// against the ledger is an operator decision.
func (s *BaseSchedulerService) countAmbiguousExecutions(ctx context.Context, multisigID string) (int, error) {
	approved, err := s.store.ListProposalsByStatus(ctx, multisigID, types.ProposalApproved)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved proposals: %w", err)
	}

	ambiguous := 0
	for _, stuck := range approved {
		if stuck.StatusReason == "" {
			continue
		}
		ambiguous++
		s.Logger.Log("Proposal %s awaits reconciliation: %s", stuck.ID, stuck.StatusReason)
	}

	return ambiguous, nil
}

func (s *BaseSchedulerService) publishExpiry(ctx context.Context, stale *types.Proposal, now time.Time) {
	event, err := events.New(events.KindProposalCancelled, map[string]interface{}{
		"reason":     "expired before reaching threshold",
		"expires_at": stale.ExpiresAt,
		"swept_at":   now,
	})
	if err != nil {
		s.Logger.Log("failed to build %s event: %v", events.KindProposalCancelled, err)
		return
	}
	event.MultisigID = stale.MultisigID
	event.ProposalID = stale.ID

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.Logger.Log("failed to publish %s event: %v", events.KindProposalCancelled, err)
	}
}
