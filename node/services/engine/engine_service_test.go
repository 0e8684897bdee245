package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/gateway"
	"github.com/hoepeyemi/fusee-sub001/gateway/noop_gateway"
	gconfig "github.com/hoepeyemi/fusee-sub001/governance/config"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/governance/types/requests"
	"github.com/hoepeyemi/fusee-sub001/governance/types/responses"
	"github.com/hoepeyemi/fusee-sub001/mocks/eventMocks"
	"github.com/hoepeyemi/fusee-sub001/mocks/gatewayMocks"
	"github.com/hoepeyemi/fusee-sub001/mocks/storeMocks"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/signers"
	"github.com/hoepeyemi/fusee-sub001/store"
	"github.com/hoepeyemi/fusee-sub001/store/leveldb_store"
)

const (
	testVault   = "9f8e7d6c5b4a39281706f5e4d3c2b1a0"
	testAddress = "0a1b2c3d4e5f60718293a4b5c6d7e8f9"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, evts ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) countKind(kind events.Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, event := range p.events {
		if event.Kind == kind {
			n++
		}
	}
	return n
}

// stubGateway returns whatever outcome the test primed it with.
type stubGateway struct {
	mu  sync.Mutex
	err error
}

func (g *stubGateway) set(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *stubGateway) Submit(_ context.Context, order gateway.ExecutionOrder) (*gateway.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Receipt{
		TxHash:      fmt.Sprintf("stub-hash-%s-%d", order.MultisigID, order.TransactionIndex),
		SubmittedAt: time.Now().UTC(),
	}, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type engineFixture struct {
	service   *BaseEngineService
	stg       store.Store
	publisher *capturePublisher
	clock     *testClock
	multisig  *types.Multisig
	members   []*types.Member
}

func setUpEngine(t *testing.T, memberCount, threshold int, lockSeconds int64, gw gateway.Gateway) *engineFixture {
	t.Helper()

	stg, err := leveldb_store.NewLevelDBStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stg.Close() })

	clock := &testClock{now: time.Now().UTC()}

	multisig := &types.Multisig{
		ID:                   uuid.New().String(),
		Name:                 "treasury_ops",
		Threshold:            threshold,
		TimeLockSeconds:      lockSeconds,
		FeeBps:               25,
		NextTransactionIndex: 1,
		IsActive:             true,
	}
	members := make([]*types.Member, 0, memberCount)
	for i := 0; i < memberCount; i++ {
		members = append(members, &types.Member{
			ID:             fmt.Sprintf("member-%02d", i),
			MultisigID:     multisig.ID,
			PublicKey:      fmt.Sprintf("pubkey-%02d-%032d", i, i),
			Name:           fmt.Sprintf("signer %d", i),
			Capabilities:   types.AllCapabilities,
			IsActive:       true,
			LastActivityAt: clock.Now(),
		})
	}
	require.NoError(t, stg.CreateMultisig(context.Background(), multisig, members))

	if gw == nil {
		gw = noop_gateway.NewNoopGateway()
	}

	publisher := &capturePublisher{}
	log := logger.NewLogger("test_engine")

	sp := services.ServiceProvider{}
	sp.SetLogger(log)
	sp.SetStore(stg)
	sp.SetGateway(gw)
	sp.SetPublisher(publisher)
	sp.SetSignersService(signers.NewSignersService(stg, publisher, log, time.Hour*24, time.Hour*48))

	service := NewEngineService(&sp)
	service.nowFunc = clock.Now

	return &engineFixture{
		service:   service,
		stg:       stg,
		publisher: publisher,
		clock:     clock,
		multisig:  multisig,
		members:   members,
	}
}

func (f *engineFixture) createRequest(proposerID string) *requests.ProposalCreateRequest {
	return &requests.ProposalCreateRequest{
		MultisigID: f.multisig.ID,
		ProposerID: proposerID,
		FromVault:  testVault,
		ToAddress:  testAddress,
		Amount:     decimal.NewFromInt(1000),
		Currency:   "USDC",
		Memo:       "payroll batch 7",
		CreatedAt:  f.clock.Now(),
	}
}

func (f *engineFixture) vote(t *testing.T, proposalID, memberID string, voteType types.VoteType) (*responses.VoteOutcome, error) {
	t.Helper()
	return f.voteWithComment(t, proposalID, memberID, voteType, "")
}

func (f *engineFixture) voteWithComment(t *testing.T, proposalID, memberID string, voteType types.VoteType, comment string) (*responses.VoteOutcome, error) {
	t.Helper()
	return f.service.Vote(context.Background(), &requests.ProposalVoteRequest{
		ProposalID: proposalID,
		MemberID:   memberID,
		Type:       voteType,
		Comment:    comment,
		CreatedAt:  f.clock.Now(),
	})
}

func (f *engineFixture) execute(proposalID, memberID string) (*types.Proposal, error) {
	_, err := f.service.Execute(context.Background(), &requests.ProposalExecuteRequest{
		ProposalID: proposalID,
		MemberID:   memberID,
		CreatedAt:  f.clock.Now(),
	})
	stored, loadErr := f.stg.GetProposal(context.Background(), proposalID)
	if loadErr != nil {
		return nil, loadErr
	}
	return stored, err
}

func TestProposalLifecycleHappyPath(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 3600, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)
	req.Equal(types.ProposalPending, prop.Status)
	req.Equal(uint64(1), prop.TransactionIndex)
	req.True(prop.Fee.Equal(decimal.RequireFromString("2.5")), "25 bps of 1000 is 2.5, got %s", prop.Fee)
	req.True(prop.ExpiresAt.Equal(fixture.clock.Now().Add(gconfig.ProposalExpiryPeriod)))

	outcome, err := fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)
	req.Equal(1, outcome.ApprovalsCount)
	req.False(outcome.ThresholdMet)
	req.Equal(types.ProposalPending, outcome.Status)

	outcome, err = fixture.vote(t, prop.ID, "member-02", types.VoteApprove)
	req.NoError(err)
	req.Equal(2, outcome.ApprovalsCount)
	req.True(outcome.ThresholdMet)
	req.Equal(types.ProposalApproved, outcome.Status)

	stored, err := fixture.stg.GetProposal(context.Background(), prop.ID)
	req.NoError(err)
	req.NotNil(stored.ApprovedAt)

	// The full hour of the time-lock still stands.
	_, err = fixture.execute(prop.ID, "member-00")
	req.Error(err)
	var opErr *types.OpError
	req.True(errors.As(err, &opErr))
	req.Equal(types.ErrKindTimeLocked, opErr.Kind())
	req.Equal(int64(3600), opErr.RemainingSeconds())

	fixture.clock.Advance(time.Hour)

	executed, err := fixture.execute(prop.ID, "member-00")
	req.NoError(err)
	req.Equal(types.ProposalExecuted, executed.Status)
	req.NotEmpty(executed.ExecutedTxHash)

	_, err = fixture.execute(prop.ID, "member-01")
	req.Equal(types.ErrKindAlreadyExecuted, types.KindOf(err))

	req.Equal(1, fixture.publisher.countKind(events.KindProposalCreated))
	req.Equal(2, fixture.publisher.countKind(events.KindApprovalRecorded))
	req.Equal(1, fixture.publisher.countKind(events.KindThresholdReached))
	req.Equal(1, fixture.publisher.countKind(events.KindProposalExecuted))
}

func TestRejectVetoesProposal(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 4, 3, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	outcome, err := fixture.voteWithComment(t, prop.ID, "member-01", types.VoteReject, "destination unknown")
	req.NoError(err)
	req.Equal(types.ProposalRejected, outcome.Status)
	req.Equal(0, outcome.ApprovalsCount)

	stored, err := fixture.stg.GetProposal(context.Background(), prop.ID)
	req.NoError(err)
	req.Equal(types.ProposalRejected, stored.Status)
	req.Contains(stored.StatusReason, "member-01")

	// A rejected proposal takes no further votes.
	_, err = fixture.vote(t, prop.ID, "member-02", types.VoteApprove)
	req.Equal(types.ErrKindProposalNotPending, types.KindOf(err))

	req.Equal(1, fixture.publisher.countKind(events.KindProposalRejected))
	req.Equal(0, fixture.publisher.countKind(events.KindThresholdReached))
}

func TestDuplicateVote(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 4, 3, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)

	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.Equal(types.ErrKindAlreadyVoted, types.KindOf(err))

	// Switching the vote type does not help: one member, one vote.
	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteReject)
	req.Equal(types.ErrKindAlreadyVoted, types.KindOf(err))
}

func TestCreateProposalValidation(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	badAmount := fixture.createRequest("member-00")
	badAmount.Amount = decimal.NewFromInt(-5)
	_, err := fixture.service.CreateProposal(context.Background(), badAmount)
	req.Equal(types.ErrKindValidation, types.KindOf(err))

	badCurrency := fixture.createRequest("member-00")
	badCurrency.Currency = "DOGE"
	_, err = fixture.service.CreateProposal(context.Background(), badCurrency)
	req.Equal(types.ErrKindValidation, types.KindOf(err))
	req.Contains(err.Error(), "USDC")
}

func TestVoteValidation(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	_, err := fixture.service.Vote(context.Background(), &requests.ProposalVoteRequest{
		ProposalID: uuid.New().String(),
		MemberID:   "member-01",
		Type:       types.VoteType("MAYBE"),
		CreatedAt:  fixture.clock.Now(),
	})
	req.Equal(types.ErrKindValidation, types.KindOf(err))

	_, err = fixture.service.Vote(context.Background(), &requests.ProposalVoteRequest{
		ProposalID: uuid.New().String(),
		MemberID:   "member-01",
		Type:       types.VoteApprove,
	})
	req.Equal(types.ErrKindValidation, types.KindOf(err))
}

func TestCapabilityChecks(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 4, 2, 0, nil)

	voteOnly, err := types.ParseCapabilities([]string{"vote"})
	req.NoError(err)
	executeOnly, err := types.ParseCapabilities([]string{"execute"})
	req.NoError(err)

	restricted := fixture.members[3]
	restricted.Capabilities = voteOnly
	req.NoError(fixture.stg.SaveMember(context.Background(), restricted))

	_, err = fixture.service.CreateProposal(context.Background(), fixture.createRequest(restricted.ID))
	req.Equal(types.ErrKindCapabilityMissing, types.KindOf(err))

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	watcher := fixture.members[2]
	watcher.Capabilities = executeOnly
	req.NoError(fixture.stg.SaveMember(context.Background(), watcher))

	_, err = fixture.vote(t, prop.ID, watcher.ID, types.VoteApprove)
	req.Equal(types.ErrKindCapabilityMissing, types.KindOf(err))

	_, err = fixture.vote(t, prop.ID, "member-00", types.VoteApprove)
	req.NoError(err)
	outcome, err := fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)
	req.Equal(types.ProposalApproved, outcome.Status)

	_, err = fixture.execute(prop.ID, restricted.ID)
	req.Equal(types.ErrKindCapabilityMissing, types.KindOf(err))
}

func TestInactiveMemberCannotAct(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	gone := fixture.members[1]
	gone.IsActive = false
	req.NoError(fixture.stg.SaveMember(context.Background(), gone))

	_, err = fixture.vote(t, prop.ID, gone.ID, types.VoteApprove)
	req.Equal(types.ErrKindMemberInactive, types.KindOf(err))

	_, err = fixture.service.CreateProposal(context.Background(), fixture.createRequest(gone.ID))
	req.Equal(types.ErrKindMemberInactive, types.KindOf(err))
}

func TestMembershipBoundaries(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	// A signer of a different multisig does not exist for this one.
	other := &types.Multisig{
		ID:                   uuid.New().String(),
		Name:                 "ops_cold",
		Threshold:            1,
		NextTransactionIndex: 1,
		IsActive:             true,
	}
	foreign := &types.Member{
		ID:             uuid.New().String(),
		MultisigID:     other.ID,
		PublicKey:      fmt.Sprintf("pubkey-foreign-%032d", 0),
		Capabilities:   types.AllCapabilities,
		IsActive:       true,
		LastActivityAt: fixture.clock.Now(),
	}
	req.NoError(fixture.stg.CreateMultisig(context.Background(), other, []*types.Member{foreign}))

	_, err = fixture.vote(t, prop.ID, foreign.ID, types.VoteApprove)
	req.Equal(types.ErrKindNotFound, types.KindOf(err))

	_, err = fixture.service.Status(context.Background(), uuid.New().String())
	req.Equal(types.ErrKindNotFound, types.KindOf(err))

	badCreate := fixture.createRequest("member-00")
	badCreate.MultisigID = uuid.New().String()
	_, err = fixture.service.CreateProposal(context.Background(), badCreate)
	req.Equal(types.ErrKindNotFound, types.KindOf(err))
}

func TestCancelProposal(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	_, err = fixture.service.Cancel(context.Background(), &requests.ProposalCancelRequest{
		ProposalID: prop.ID,
		MemberID:   "member-01",
		CreatedAt:  fixture.clock.Now(),
	})
	req.Equal(types.ErrKindCapabilityMissing, types.KindOf(err))

	cancelled, err := fixture.service.Cancel(context.Background(), &requests.ProposalCancelRequest{
		ProposalID: prop.ID,
		MemberID:   "member-00",
		Reason:     "wrong destination",
		CreatedAt:  fixture.clock.Now(),
	})
	req.NoError(err)
	req.Equal(types.ProposalCancelled, cancelled.Status)
	req.Equal("wrong destination", cancelled.StatusReason)

	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.Equal(types.ErrKindProposalNotPending, types.KindOf(err))

	_, err = fixture.service.Cancel(context.Background(), &requests.ProposalCancelRequest{
		ProposalID: prop.ID,
		MemberID:   "member-00",
		CreatedAt:  fixture.clock.Now(),
	})
	req.Equal(types.ErrKindProposalNotPending, types.KindOf(err))

	req.Equal(1, fixture.publisher.countKind(events.KindProposalCancelled))
}

func TestExecuteRequiresApproval(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	_, err = fixture.execute(prop.ID, "member-00")
	req.Equal(types.ErrKindNotApproved, types.KindOf(err))
}

func TestExecuteDefinitiveFailure(t *testing.T) {
	req := require.New(t)
	gw := &stubGateway{}
	gw.set(gateway.NewDefinitiveErr("insufficient_funds", "vault balance too low"))
	fixture := setUpEngine(t, 2, 1, 0, gw)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)
	outcome, err := fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)
	req.Equal(types.ProposalApproved, outcome.Status)

	stored, err := fixture.execute(prop.ID, "member-00")
	req.Equal(types.ErrKindExecutionFailed, types.KindOf(err))
	req.Equal(types.ProposalFailed, stored.Status)
	req.Contains(stored.StatusReason, "insufficient_funds")

	// FAILED is terminal even with a healthy gateway.
	gw.set(nil)
	stored, err = fixture.execute(prop.ID, "member-00")
	req.Equal(types.ErrKindNotApproved, types.KindOf(err))
	req.Equal(types.ProposalFailed, stored.Status)

	req.Equal(1, fixture.publisher.countKind(events.KindExecutionFailed))
}

func TestExecuteAmbiguousOutcomeKeepsApproved(t *testing.T) {
	req := require.New(t)
	gw := &stubGateway{}
	gw.set(gateway.NewAmbiguousErr("gateway_timeout", "no response within deadline"))
	fixture := setUpEngine(t, 2, 1, 0, gw)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)
	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)

	stored, err := fixture.execute(prop.ID, "member-00")
	req.Equal(types.ErrKindExecutionAmbiguous, types.KindOf(err))
	req.Equal(types.ProposalApproved, stored.Status, "unknown outcome must not fail the proposal")
	req.Contains(stored.StatusReason, "unknown")

	// After reconciliation showed no transfer, the retry goes through with
	// the same transaction index.
	gw.set(nil)
	stored, err = fixture.execute(prop.ID, "member-00")
	req.NoError(err)
	req.Equal(types.ProposalExecuted, stored.Status)
	req.Equal(fmt.Sprintf("stub-hash-%s-%d", fixture.multisig.ID, stored.TransactionIndex), stored.ExecutedTxHash)
	req.Empty(stored.StatusReason)

	req.Equal(1, fixture.publisher.countKind(events.KindExecutionAmbiguous))
	req.Equal(1, fixture.publisher.countKind(events.KindProposalExecuted))
}

func TestConcurrentVotesCrossThresholdOnce(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 5, 3, 0, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = fixture.service.Vote(context.Background(), &requests.ProposalVoteRequest{
				ProposalID: prop.ID,
				MemberID:   fmt.Sprintf("member-%02d", n+1),
				Type:       types.VoteApprove,
				CreatedAt:  fixture.clock.Now(),
			})
		}(i)
	}
	wg.Wait()

	// A vote landing after the threshold crossed is turned away; everything
	// else must have been recorded.
	succeeded := 0
	for _, voteErr := range errs {
		if voteErr == nil {
			succeeded++
			continue
		}
		req.Equal(types.ErrKindProposalNotPending, types.KindOf(voteErr))
	}
	req.GreaterOrEqual(succeeded, 3)

	stored, err := fixture.stg.GetProposal(context.Background(), prop.ID)
	req.NoError(err)
	req.Equal(types.ProposalApproved, stored.Status)
	req.NotNil(stored.ApprovedAt)
	req.Equal(1, fixture.publisher.countKind(events.KindThresholdReached))
}

func TestStatusReportsRemainingLock(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 2, 1, 7200, nil)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)
	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)

	fixture.clock.Advance(time.Minute * 30)

	status, err := fixture.service.Status(context.Background(), prop.ID)
	req.NoError(err)
	req.Equal(types.ProposalApproved, status.Proposal.Status)
	req.Equal(int64(5400), status.RemainingLockSeconds)
	req.Len(status.Approvals, 1)
	req.Equal(1, status.Threshold)
	req.False(status.Terminal)
}

func TestPendingProposalsOrderedByIndex(t *testing.T) {
	req := require.New(t)
	fixture := setUpEngine(t, 3, 2, 0, nil)

	first, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)
	second, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-01"))
	req.NoError(err)
	third, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)

	_, err = fixture.service.Cancel(context.Background(), &requests.ProposalCancelRequest{
		ProposalID: second.ID,
		MemberID:   "member-01",
		CreatedAt:  fixture.clock.Now(),
	})
	req.NoError(err)

	pending, err := fixture.service.PendingProposals(context.Background(), fixture.multisig.ID)
	req.NoError(err)
	req.Len(pending, 2)
	req.Equal(first.ID, pending[0].ID)
	req.Equal(third.ID, pending[1].ID)
	req.Equal(uint64(1), pending[0].TransactionIndex)
	req.Equal(uint64(3), pending[1].TransactionIndex)
}

func TestExecuteSubmitsExactOrder(t *testing.T) {
	var (
		req  = require.New(t)
		ctrl = gomock.NewController(t)
	)
	defer ctrl.Finish()

	gw := gatewayMocks.NewMockGateway(ctrl)
	fixture := setUpEngine(t, 3, 2, 0, gw)

	prop, err := fixture.service.CreateProposal(context.Background(), fixture.createRequest("member-00"))
	req.NoError(err)
	_, err = fixture.vote(t, prop.ID, "member-01", types.VoteApprove)
	req.NoError(err)
	_, err = fixture.vote(t, prop.ID, "member-02", types.VoteApprove)
	req.NoError(err)

	var submitted gateway.ExecutionOrder
	gw.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(1).
		DoAndReturn(func(_ context.Context, order gateway.ExecutionOrder) (*gateway.Receipt, error) {
			submitted = order
			return &gateway.Receipt{TxHash: "0xfeed", SubmittedAt: fixture.clock.Now()}, nil
		})

	executed, err := fixture.execute(prop.ID, "member-00")
	req.NoError(err)
	req.Equal(types.ProposalExecuted, executed.Status)
	req.Equal("0xfeed", executed.ExecutedTxHash)

	// The Times(1) above doubles as proof that a repeat execute never
	// reaches the gateway again.
	_, err = fixture.execute(prop.ID, "member-01")
	req.Equal(types.ErrKindAlreadyExecuted, types.KindOf(err))

	// MultisigID plus TransactionIndex is the idempotency key the executor
	// deduplicates on.
	req.Equal(prop.ID, submitted.ProposalID)
	req.Equal(fixture.multisig.ID, submitted.MultisigID)
	req.Equal(uint64(1), submitted.TransactionIndex)
	req.Equal(testVault, submitted.FromVault)
	req.Equal(testAddress, submitted.ToAddress)
	req.True(submitted.Amount.Equal(decimal.NewFromInt(1000)))
	req.True(submitted.Fee.Equal(decimal.RequireFromString("2.5")))
	req.Equal("USDC", submitted.Currency)
	req.Equal("payroll batch 7", submitted.Memo)
}

func TestCreateProposalStoreFailure(t *testing.T) {
	var (
		req  = require.New(t)
		ctrl = gomock.NewController(t)
	)
	defer ctrl.Finish()

	stg := storeMocks.NewMockStore(ctrl)
	publisher := &capturePublisher{}
	log := logger.NewLogger("test_engine")

	sp := services.ServiceProvider{}
	sp.SetLogger(log)
	sp.SetStore(stg)
	sp.SetGateway(noop_gateway.NewNoopGateway())
	sp.SetPublisher(publisher)
	sp.SetSignersService(signers.NewSignersService(stg, publisher, log, time.Hour*24, time.Hour*48))

	service := NewEngineService(&sp)

	multisigID := uuid.New().String()
	multisig := &types.Multisig{
		ID:        multisigID,
		Name:      "treasury_ops",
		Threshold: 2,
		IsActive:  true,
	}
	member := &types.Member{
		ID:           "member-00",
		MultisigID:   multisigID,
		Capabilities: types.AllCapabilities,
		IsActive:     true,
	}

	stg.EXPECT().GetMultisig(gomock.Any(), multisigID).Times(1).Return(multisig, nil)
	stg.EXPECT().GetMember(gomock.Any(), "member-00").Times(1).Return(member, nil)
	stg.EXPECT().NextTransactionIndex(gomock.Any(), multisigID).Times(1).
		Return(uint64(0), errors.New("leveldb: closed"))

	_, err := service.CreateProposal(context.Background(), &requests.ProposalCreateRequest{
		MultisigID: multisigID,
		ProposerID: "member-00",
		FromVault:  testVault,
		ToAddress:  testAddress,
		Amount:     decimal.NewFromInt(1000),
		Currency:   "USDC",
		CreatedAt:  time.Now().UTC(),
	})
	req.Error(err)
	req.Contains(err.Error(), "failed to reserve transaction index")
	// Nothing was persisted, so nothing was announced.
	req.Empty(publisher.events)
}

func TestVoteSurvivesPublisherFailure(t *testing.T) {
	var (
		req  = require.New(t)
		ctrl = gomock.NewController(t)
	)
	defer ctrl.Finish()

	stg, err := leveldb_store.NewLevelDBStore(t.TempDir())
	req.NoError(err)
	t.Cleanup(func() { _ = stg.Close() })

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Return(errors.New("kafka: broker unreachable")).AnyTimes()

	log := logger.NewLogger("test_engine")
	sp := services.ServiceProvider{}
	sp.SetLogger(log)
	sp.SetStore(stg)
	sp.SetGateway(noop_gateway.NewNoopGateway())
	sp.SetPublisher(publisher)
	sp.SetSignersService(signers.NewSignersService(stg, publisher, log, time.Hour*24, time.Hour*48))

	service := NewEngineService(&sp)

	multisig := &types.Multisig{
		ID:                   uuid.New().String(),
		Name:                 "treasury_ops",
		Threshold:            1,
		NextTransactionIndex: 1,
		IsActive:             true,
	}
	members := []*types.Member{
		{
			ID:             "member-00",
			MultisigID:     multisig.ID,
			PublicKey:      fmt.Sprintf("pubkey-00-%032d", 0),
			Name:           "signer 0",
			Capabilities:   types.AllCapabilities,
			IsActive:       true,
			LastActivityAt: time.Now().UTC(),
		},
	}
	req.NoError(stg.CreateMultisig(context.Background(), multisig, members))

	prop, err := service.CreateProposal(context.Background(), &requests.ProposalCreateRequest{
		MultisigID: multisig.ID,
		ProposerID: "member-00",
		FromVault:  testVault,
		ToAddress:  testAddress,
		Amount:     decimal.NewFromInt(1000),
		Currency:   "USDC",
		CreatedAt:  time.Now().UTC(),
	})
	req.NoError(err)

	// The audit sink being down never blocks governance itself.
	outcome, err := service.Vote(context.Background(), &requests.ProposalVoteRequest{
		ProposalID: prop.ID,
		MemberID:   "member-00",
		Type:       types.VoteApprove,
		CreatedAt:  time.Now().UTC(),
	})
	req.NoError(err)
	req.True(outcome.ThresholdMet)
	req.Equal(types.ProposalApproved, outcome.Status)
}
