package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/gateway"
	gconfig "github.com/hoepeyemi/fusee-sub001/governance/config"
	"github.com/hoepeyemi/fusee-sub001/governance/fees"
	"github.com/hoepeyemi/fusee-sub001/governance/proposal"
	"github.com/hoepeyemi/fusee-sub001/governance/quorum"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/governance/types/requests"
	"github.com/hoepeyemi/fusee-sub001/governance/types/responses"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/signers"
	"github.com/hoepeyemi/fusee-sub001/store"
)

type EngineService interface {
	CreateProposal(ctx context.Context, request *requests.ProposalCreateRequest) (*types.Proposal, error)
	Vote(ctx context.Context, request *requests.ProposalVoteRequest) (*responses.VoteOutcome, error)
	Execute(ctx context.Context, request *requests.ProposalExecuteRequest) (*responses.ExecutionOutcome, error)
	Cancel(ctx context.Context, request *requests.ProposalCancelRequest) (*types.Proposal, error)
	Status(ctx context.Context, proposalID string) (*responses.ProposalStatusResponse, error)
	PendingProposals(ctx context.Context, multisigID string) (responses.PendingProposalsResponse, error)
}

// BaseEngineService runs the proposal workflow. Every status write happens
// inside a store.UpdateProposal critical section, so two concurrent votes or
// a vote racing an execution are serialized by the store, not by the engine.
type BaseEngineService struct {
	store     store.Store
	gateway   gateway.Gateway
	publisher events.Publisher
	signers   signers.SignersService
	Logger    logger.Logger

	expiryPeriod time.Duration
	nowFunc      func() time.Time
}

func NewEngineService(sp *services.ServiceProvider) *BaseEngineService {
	return &BaseEngineService{
		store:        sp.GetStore(),
		gateway:      sp.GetGateway(),
		publisher:    sp.GetPublisher(),
		signers:      sp.GetSignersService(),
		Logger:       sp.GetLogger(),
		expiryPeriod: gconfig.ProposalExpiryPeriod,
		nowFunc:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateProposal registers a transfer request in PENDING status and reserves
// the next transaction index of the multisig. The index is burned even if a
// later step fails: gaps are acceptable, reuse is not.
func (s *BaseEngineService) CreateProposal(ctx context.Context, request *requests.ProposalCreateRequest) (*types.Proposal, error) {
	if err := request.Validate(); err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	multisig, err := s.getMultisig(ctx, request.MultisigID)
	if err != nil {
		return nil, err
	}

	if !multisig.IsActive {
		return nil, types.NewOpErrf(types.ErrKindValidation, "multisig %s is deactivated", multisig.ID)
	}

	proposer, err := s.memberOf(ctx, multisig.ID, request.ProposerID)
	if err != nil {
		return nil, err
	}

	if !proposer.IsActive {
		return nil, types.NewOpErrf(types.ErrKindMemberInactive, "member %s is deactivated", proposer.ID)
	}

	if !proposer.Capabilities.Has(types.CapabilityPropose) {
		return nil, types.NewOpErrf(types.ErrKindCapabilityMissing, "member %s has no propose capability", proposer.ID)
	}

	index, err := s.store.NextTransactionIndex(ctx, multisig.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve transaction index: %w", err)
	}

	now := s.nowFunc()
	prop := &types.Proposal{
		ID:               uuid.New().String(),
		MultisigID:       multisig.ID,
		TransactionIndex: index,
		FromVault:        request.FromVault,
		ToAddress:        request.ToAddress,
		Amount:           request.Amount,
		Fee:              fees.Compute(request.Amount, multisig.FeeBps),
		Currency:         request.Currency,
		Memo:             request.Memo,
		ProposerID:       proposer.ID,
		Status:           types.ProposalPending,
		ExpiresAt:        now.Add(s.expiryPeriod),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.CreateProposal(ctx, prop); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.recordActivity(ctx, proposer.ID, now)
	s.publish(ctx, events.KindProposalCreated, prop, proposer.ID, map[string]interface{}{
		"transaction_index": prop.TransactionIndex,
		"from_vault":        prop.FromVault,
		"to_address":        prop.ToAddress,
		"amount":            prop.Amount,
		"fee":               prop.Fee,
		"currency":          prop.Currency,
	})

	return prop, nil
}

// Vote records one signer's vote. A REJECT vetoes the proposal outright; an
// APPROVE that crosses the threshold moves it to APPROVED and stamps
// ApprovedAt, which starts the execution time-lock.
func (s *BaseEngineService) Vote(ctx context.Context, request *requests.ProposalVoteRequest) (*responses.VoteOutcome, error) {
	if err := request.Validate(); err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	prop, err := s.getProposal(ctx, request.ProposalID)
	if err != nil {
		return nil, err
	}

	multisig, err := s.getMultisig(ctx, prop.MultisigID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberOf(ctx, prop.MultisigID, request.MemberID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	var (
		outcome         *responses.VoteOutcome
		crossed         bool
		rejected        bool
		rejectedComment string
	)

	err = s.store.UpdateProposal(ctx, prop.ID, func(txn store.ProposalTxn) error {
		current := txn.Proposal()

		votes, err := txn.Approvals()
		if err != nil {
			return fmt.Errorf("failed to load approvals: %w", err)
		}

		approveCount := 0
		hasVoted := false
		for _, vote := range votes {
			if vote.MemberID == member.ID {
				hasVoted = true
			}
			if vote.Type == types.VoteApprove {
				approveCount++
			}
		}

		if err := quorum.CanApprove(current, member, hasVoted); err != nil {
			return err
		}

		if err := txn.AddApproval(&types.Approval{
			ID:         uuid.New().String(),
			ProposalID: current.ID,
			MemberID:   member.ID,
			Type:       request.Type,
			Comment:    request.Comment,
			CreatedAt:  now,
		}); err != nil {
			if errors.Is(err, store.ErrDuplicateApproval) {
				return types.NewOpErrf(types.ErrKindAlreadyVoted,
					"member %s already voted on proposal %s", member.ID, current.ID)
			}
			return fmt.Errorf("failed to add approval: %w", err)
		}

		switch request.Type {
		case types.VoteReject:
			if err := proposal.CanTransition(current.Status, types.ProposalRejected); err != nil {
				return err
			}
			current.Status = types.ProposalRejected
			current.StatusReason = fmt.Sprintf("rejected by member %s", member.ID)
			current.UpdatedAt = now
			if err := txn.SaveProposal(current); err != nil {
				return fmt.Errorf("failed to save proposal: %w", err)
			}
			rejected = true
			rejectedComment = request.Comment

		case types.VoteApprove:
			approveCount++
			if quorum.ThresholdMet(approveCount, multisig.Threshold) {
				if err := proposal.CanTransition(current.Status, types.ProposalApproved); err != nil {
					return err
				}
				approvedAt := now
				current.Status = types.ProposalApproved
				current.ApprovedAt = &approvedAt
				current.UpdatedAt = now
				if err := txn.SaveProposal(current); err != nil {
					return fmt.Errorf("failed to save proposal: %w", err)
				}
				crossed = true
			}
		}

		outcome = &responses.VoteOutcome{
			ProposalID:     current.ID,
			Status:         current.Status,
			ApprovalsCount: approveCount,
			Threshold:      multisig.Threshold,
			ThresholdMet:   quorum.ThresholdMet(approveCount, multisig.Threshold),
		}
		return nil
	})
	if err != nil {
		return nil, s.opOrWrap(err, "failed to record vote")
	}

	s.recordActivity(ctx, member.ID, now)
	s.publish(ctx, events.KindApprovalRecorded, prop, member.ID, map[string]interface{}{
		"vote":            request.Type,
		"approvals_count": outcome.ApprovalsCount,
		"threshold":       outcome.Threshold,
	})

	if crossed {
		s.publish(ctx, events.KindThresholdReached, prop, member.ID, map[string]interface{}{
			"approvals_count":   outcome.ApprovalsCount,
			"threshold":         outcome.Threshold,
			"time_lock_seconds": multisig.TimeLockSeconds,
		})
	}
	if rejected {
		s.publish(ctx, events.KindProposalRejected, prop, member.ID, map[string]interface{}{
			"comment": rejectedComment,
		})
	}

	return outcome, nil
}

// Execute submits an APPROVED proposal to the gateway once its time-lock has
// elapsed. The submission happens inside the proposal's critical section, so
// a second executor blocks until the first outcome is committed and then
// sees EXECUTED or FAILED instead of double-submitting.
//
// Outcome handling is deliberately asymmetric. A definitive gateway
// rejection means funds did not move: the proposal goes to FAILED. Anything
// else leaves the outcome unknown, so the proposal stays APPROVED with an
// annotation and the operator reconciles against the ledger before retrying.
func (s *BaseEngineService) Execute(ctx context.Context, request *requests.ProposalExecuteRequest) (*responses.ExecutionOutcome, error) {
	if err := request.Validate(); err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	prop, err := s.getProposal(ctx, request.ProposalID)
	if err != nil {
		return nil, err
	}

	multisig, err := s.getMultisig(ctx, prop.MultisigID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberOf(ctx, prop.MultisigID, request.MemberID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	var (
		outcome *responses.ExecutionOutcome
		keptErr error
	)

	err = s.store.UpdateProposal(ctx, prop.ID, func(txn store.ProposalTxn) error {
		current := txn.Proposal()

		if err := quorum.CanExecute(current, member); err != nil {
			return err
		}

		var approvedAt time.Time
		if current.ApprovedAt != nil {
			approvedAt = *current.ApprovedAt
		}

		elapsed, remaining := quorum.TimeLockElapsed(approvedAt, multisig.TimeLockSeconds, now)
		if !elapsed {
			return types.NewTimeLockErr(remaining)
		}

		receipt, submitErr := s.gateway.Submit(ctx, gateway.ExecutionOrder{
			ProposalID:       current.ID,
			MultisigID:       current.MultisigID,
			TransactionIndex: current.TransactionIndex,
			FromVault:        current.FromVault,
			ToAddress:        current.ToAddress,
			Amount:           current.Amount,
			Fee:              current.Fee,
			Currency:         current.Currency,
			Memo:             current.Memo,
		})

		if submitErr == nil {
			if err := proposal.CanTransition(current.Status, types.ProposalExecuted); err != nil {
				return err
			}
			current.Status = types.ProposalExecuted
			current.ExecutedTxHash = receipt.TxHash
			current.StatusReason = ""
			current.UpdatedAt = now
			if err := txn.SaveProposal(current); err != nil {
				return fmt.Errorf("failed to save proposal: %w", err)
			}

			outcome = &responses.ExecutionOutcome{
				ProposalID:       current.ID,
				Status:           current.Status,
				TransactionIndex: current.TransactionIndex,
				TxHash:           receipt.TxHash,
				Fee:              current.Fee,
			}
			return nil
		}

		if gateway.IsDefinitive(submitErr) {
			if err := proposal.CanTransition(current.Status, types.ProposalFailed); err != nil {
				return err
			}
			current.Status = types.ProposalFailed
			current.StatusReason = submitErr.Error()
			current.UpdatedAt = now
			if err := txn.SaveProposal(current); err != nil {
				return fmt.Errorf("failed to save proposal: %w", err)
			}

			// Commit the FAILED status; the error reaches the caller via keptErr.
			keptErr = types.NewOpErrf(types.ErrKindExecutionFailed, "execution failed: %v", submitErr)
			return nil
		}

		current.StatusReason = fmt.Sprintf("execution outcome unknown: %v", submitErr)
		current.UpdatedAt = now
		if err := txn.SaveProposal(current); err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}

		keptErr = types.NewOpErrf(types.ErrKindExecutionAmbiguous,
			"execution outcome unknown for proposal %s, reconcile before retrying: %v", current.ID, submitErr)
		return nil
	})
	if err != nil {
		return nil, s.opOrWrap(err, "failed to execute proposal")
	}

	if keptErr != nil {
		kind := events.KindExecutionAmbiguous
		if types.KindOf(keptErr) == types.ErrKindExecutionFailed {
			kind = events.KindExecutionFailed
		}
		s.publish(ctx, kind, prop, member.ID, map[string]interface{}{
			"reason": keptErr.Error(),
		})
		return nil, keptErr
	}

	s.recordActivity(ctx, member.ID, now)
	s.publish(ctx, events.KindProposalExecuted, prop, member.ID, map[string]interface{}{
		"tx_hash":           outcome.TxHash,
		"transaction_index": outcome.TransactionIndex,
		"fee":               outcome.Fee,
	})

	return outcome, nil
}

// Cancel withdraws a PENDING proposal. Only the proposer may cancel; votes
// already recorded stay in the audit trail.
func (s *BaseEngineService) Cancel(ctx context.Context, request *requests.ProposalCancelRequest) (*types.Proposal, error) {
	if err := request.Validate(); err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	prop, err := s.getProposal(ctx, request.ProposalID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberOf(ctx, prop.MultisigID, request.MemberID)
	if err != nil {
		return nil, err
	}

	if member.ID != prop.ProposerID {
		return nil, types.NewOpErrf(types.ErrKindCapabilityMissing,
			"only the proposer may cancel proposal %s", prop.ID)
	}

	if !member.IsActive {
		return nil, types.NewOpErrf(types.ErrKindMemberInactive, "member %s is deactivated", member.ID)
	}

	now := s.nowFunc()
	reason := request.Reason
	if reason == "" {
		reason = "cancelled by proposer"
	}

	var cancelled *types.Proposal
	err = s.store.UpdateProposal(ctx, prop.ID, func(txn store.ProposalTxn) error {
		current := txn.Proposal()

		if err := proposal.CanTransition(current.Status, types.ProposalCancelled); err != nil {
			return err
		}

		current.Status = types.ProposalCancelled
		current.StatusReason = reason
		current.UpdatedAt = now
		if err := txn.SaveProposal(current); err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}

		cancelled = current
		return nil
	})
	if err != nil {
		return nil, s.opOrWrap(err, "failed to cancel proposal")
	}

	s.recordActivity(ctx, member.ID, now)
	s.publish(ctx, events.KindProposalCancelled, cancelled, member.ID, map[string]interface{}{
		"reason": reason,
	})

	return cancelled, nil
}

func (s *BaseEngineService) Status(ctx context.Context, proposalID string) (*responses.ProposalStatusResponse, error) {
	prop, err := s.getProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	multisig, err := s.getMultisig(ctx, prop.MultisigID)
	if err != nil {
		return nil, err
	}

	votes, err := s.store.ListApprovals(ctx, prop.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}

	var remaining int64
	if prop.Status == types.ProposalApproved && prop.ApprovedAt != nil {
		_, remaining = quorum.TimeLockElapsed(*prop.ApprovedAt, multisig.TimeLockSeconds, s.nowFunc())
	}

	return &responses.ProposalStatusResponse{
		Proposal:             prop,
		Approvals:            votes,
		Threshold:            multisig.Threshold,
		Terminal:             proposal.Terminal(prop.Status),
		RemainingLockSeconds: remaining,
	}, nil
}

func (s *BaseEngineService) PendingProposals(ctx context.Context, multisigID string) (responses.PendingProposalsResponse, error) {
	if _, err := s.getMultisig(ctx, multisigID); err != nil {
		return nil, err
	}

	pending, err := s.store.ListProposalsByStatus(ctx, multisigID, types.ProposalPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending proposals: %w", err)
	}

	return pending, nil
}

func (s *BaseEngineService) getProposal(ctx context.Context, id string) (*types.Proposal, error) {
	prop, err := s.store.GetProposal(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewOpErrf(types.ErrKindNotFound, "proposal %s not found", id)
		}
		return nil, fmt.Errorf("failed to load proposal %s: %w", id, err)
	}
	return prop, nil
}

func (s *BaseEngineService) getMultisig(ctx context.Context, id string) (*types.Multisig, error) {
	multisig, err := s.store.GetMultisig(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewOpErrf(types.ErrKindNotFound, "multisig %s not found", id)
		}
		return nil, fmt.Errorf("failed to load multisig %s: %w", id, err)
	}
	return multisig, nil
}

// memberOf loads a member and checks it belongs to the multisig. A member of
// another multisig is reported as not found rather than as a permission
// problem, so the response does not leak foreign memberships.
func (s *BaseEngineService) memberOf(ctx context.Context, multisigID, memberID string) (*types.Member, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewOpErrf(types.ErrKindNotFound, "member %s not found", memberID)
		}
		return nil, fmt.Errorf("failed to load member %s: %w", memberID, err)
	}

	if member.MultisigID != multisigID {
		return nil, types.NewOpErrf(types.ErrKindNotFound, "member %s not found", memberID)
	}
	return member, nil
}

// opOrWrap passes operation errors through untouched and wraps the rest.
func (s *BaseEngineService) opOrWrap(err error, msg string) error {
	var opErr *types.OpError
	if errors.As(err, &opErr) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *BaseEngineService) recordActivity(ctx context.Context, memberID string, at time.Time) {
	if err := s.signers.RecordActivity(ctx, memberID, at); err != nil {
		s.Logger.Log("failed to record activity for member %s: %v", memberID, err)
	}
}

func (s *BaseEngineService) publish(ctx context.Context, kind events.Kind, prop *types.Proposal, memberID string, payload interface{}) {
	event, err := events.New(kind, payload)
	if err != nil {
		s.Logger.Log("failed to build %s event: %v", kind, err)
		return
	}
	event.MultisigID = prop.MultisigID
	event.ProposalID = prop.ID
	event.MemberID = memberID

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.Logger.Log("failed to publish %s event: %v", kind, err)
	}
}
