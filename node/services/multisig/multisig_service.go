package multisig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/governance/config"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/governance/types/requests"
	"github.com/hoepeyemi/fusee-sub001/governance/types/responses"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/store"
)

type MultisigService interface {
	Create(ctx context.Context, request *requests.MultisigCreateRequest) (*types.Multisig, error)
	Get(ctx context.Context, multisigID string) (*responses.MultisigInfoResponse, error)
	List(ctx context.Context, onlyActive bool) ([]*types.Multisig, error)
	AddSigner(ctx context.Context, request *requests.SignerAddRequest) (*types.Member, error)
}

// BaseMultisigService manages group membership. Thresholds and fee rates are
// fixed at creation; membership only ever grows here, shrinking is the signer
// lifecycle's job.
type BaseMultisigService struct {
	store     store.Store
	publisher events.Publisher
	Logger    logger.Logger

	nowFunc func() time.Time
}

func NewMultisigService(sp *services.ServiceProvider) *BaseMultisigService {
	return &BaseMultisigService{
		store:     sp.GetStore(),
		publisher: sp.GetPublisher(),
		Logger:    sp.GetLogger(),
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a multisig with its founding members. The transaction
// index counter starts at 1. A group that negotiated no fee rate is charged
// the platform default.
func (s *BaseMultisigService) Create(ctx context.Context, request *requests.MultisigCreateRequest) (*types.Multisig, error) {
	if err := request.Validate(); err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	feeBps := request.FeeBps
	if feeBps == 0 {
		feeBps = config.DefaultFeeBps
	}

	now := s.nowFunc()
	multisig := &types.Multisig{
		ID:                   uuid.New().String(),
		Name:                 request.Name,
		Threshold:            request.Threshold,
		TimeLockSeconds:      request.TimeLockSeconds,
		FeeBps:               feeBps,
		NextTransactionIndex: 1,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	members := make([]*types.Member, 0, len(request.Members))
	for _, entry := range request.Members {
		capabilities, err := types.ParseCapabilities(entry.Capabilities)
		if err != nil {
			return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
		}

		members = append(members, &types.Member{
			ID:             uuid.New().String(),
			MultisigID:     multisig.ID,
			PublicKey:      entry.PublicKey,
			Name:           entry.Name,
			Capabilities:   capabilities,
			IsActive:       true,
			LastActivityAt: now,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := s.store.CreateMultisig(ctx, multisig, members); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, types.NewOpErrf(types.ErrKindValidation, "multisig name %q is taken", request.Name)
		}
		return nil, fmt.Errorf("failed to create multisig: %w", err)
	}

	s.publish(ctx, events.KindMultisigCreated, multisig.ID, "", map[string]interface{}{
		"name":              multisig.Name,
		"threshold":         multisig.Threshold,
		"time_lock_seconds": multisig.TimeLockSeconds,
		"fee_bps":           multisig.FeeBps,
		"members_count":     len(members),
	})

	return multisig, nil
}

func (s *BaseMultisigService) Get(ctx context.Context, multisigID string) (*responses.MultisigInfoResponse, error) {
	multisig, err := s.store.GetMultisig(ctx, multisigID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewOpErrf(types.ErrKindNotFound, "multisig %s not found", multisigID)
		}
		return nil, fmt.Errorf("failed to load multisig %s: %w", multisigID, err)
	}

	members, err := s.store.ListMembers(ctx, multisigID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of multisig %s: %w", multisigID, err)
	}

	return &responses.MultisigInfoResponse{
		Multisig: multisig,
		Members:  members,
	}, nil
}

func (s *BaseMultisigService) List(ctx context.Context, onlyActive bool) ([]*types.Multisig, error) {
	multisigs, err := s.store.ListMultisigs(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list multisigs: %w", err)
	}
	return multisigs, nil
}

// AddSigner registers a new member on an existing multisig. Growing the group
// never violates the threshold invariant, so no quorum check is needed here.
func (s *BaseMultisigService) AddSigner(ctx context.Context, request *requests.SignerAddRequest) (*types.Member, error) {
	if err := request.Validate(); err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	multisig, err := s.store.GetMultisig(ctx, request.MultisigID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewOpErrf(types.ErrKindNotFound, "multisig %s not found", request.MultisigID)
		}
		return nil, fmt.Errorf("failed to load multisig %s: %w", request.MultisigID, err)
	}

	if !multisig.IsActive {
		return nil, types.NewOpErrf(types.ErrKindValidation, "multisig %s is deactivated", multisig.ID)
	}

	capabilities, err := types.ParseCapabilities(request.Capabilities)
	if err != nil {
		return nil, types.NewOpErr(types.ErrKindValidation, err.Error())
	}

	now := s.nowFunc()
	member := &types.Member{
		ID:             uuid.New().String(),
		MultisigID:     multisig.ID,
		PublicKey:      request.PublicKey,
		Name:           request.Name,
		Capabilities:   capabilities,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.AddMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, types.NewOpErrf(types.ErrKindValidation,
				"public key already registered on multisig %s", multisig.ID)
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.publish(ctx, events.KindSignerAdded, multisig.ID, member.ID, map[string]interface{}{
		"public_key":   member.PublicKey,
		"member_name":  member.Name,
		"capabilities": member.Capabilities,
	})

	return member, nil
}

func (s *BaseMultisigService) publish(ctx context.Context, kind events.Kind, multisigID, memberID string, payload interface{}) {
	event, err := events.New(kind, payload)
	if err != nil {
		s.Logger.Log("failed to build %s event: %v", kind, err)
		return
	}
	event.MultisigID = multisigID
	event.MemberID = memberID

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.Logger.Log("failed to publish %s event: %v", kind, err)
	}
}
