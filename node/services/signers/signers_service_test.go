package signers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/store"
	"github.com/hoepeyemi/fusee-sub001/store/leveldb_store"
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

func (p *capturePublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]events.Kind, 0, len(p.events))
	for _, event := range p.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

type signerFixture struct {
	stg       store.Store
	publisher *capturePublisher
	service   *BaseSignersService
	multisig  *types.Multisig
	members   []*types.Member
}

func setUpSigners(t *testing.T, memberCount, threshold int, lastActivity time.Time) *signerFixture {
	t.Helper()

	stg, err := leveldb_store.NewLevelDBStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stg.Close() })

	multisig := &types.Multisig{
		ID:                   uuid.New().String(),
		Name:                 "treasury_ops",
		Threshold:            threshold,
		TimeLockSeconds:      0,
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
			LastActivityAt: lastActivity,
		})
	}
	require.NoError(t, stg.CreateMultisig(context.Background(), multisig, members))

	publisher := &capturePublisher{}
	service := NewSignersService(stg, publisher, logger.NewLogger("test_signers"), time.Hour*24, time.Hour*48)

	return &signerFixture{stg: stg, publisher: publisher, service: service, multisig: multisig, members: members}
}

func TestRecordActivityClearsFlag(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	fixture := setUpSigners(t, 3, 2, now.Add(-time.Hour*30))

	// One sweep pass flags everyone (30h of silence > 24h flag threshold).
	outcome, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)
	req.Equal(3, outcome.Flagged)
	req.Equal(0, outcome.Deactivated)

	req.NoError(fixture.service.RecordActivity(context.Background(), fixture.members[0].ID, now))

	member, err := fixture.stg.GetMember(context.Background(), fixture.members[0].ID)
	req.NoError(err)
	req.False(member.Flagged())
	req.True(member.LastActivityAt.Equal(now))

	flagged, err := fixture.stg.GetMember(context.Background(), fixture.members[1].ID)
	req.NoError(err)
	req.True(flagged.Flagged())
}

func TestSweepIsIdempotent(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	fixture := setUpSigners(t, 4, 2, now.Add(-time.Hour*30))

	outcome, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)
	req.Equal(4, outcome.Flagged)

	outcome, err = fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)
	req.Equal(0, outcome.Flagged)
	req.Equal(0, outcome.Deactivated)
	req.Equal(0, outcome.Deferred)
}

func TestSweepDefersWhenNoHeadroom(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	// 3 members, threshold 2: zero headroom, nobody may be removed.
	fixture := setUpSigners(t, 3, 2, now.Add(-time.Hour*72))

	outcome, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)
	req.Equal(3, outcome.Flagged)
	req.Equal(0, outcome.Deferred)

	outcome, err = fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now.Add(time.Minute))
	req.NoError(err)
	req.Equal(0, outcome.Deactivated)
	req.Equal(3, outcome.Deferred)

	active, err := fixture.stg.ListMembers(context.Background(), fixture.multisig.ID, true)
	req.NoError(err)
	req.Len(active, 3)
}

func TestSweepDeactivationRespectsQuorumHeadroom(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	// 5 members, threshold 2: headroom allows at most 5-2-1 = 2 removals.
	fixture := setUpSigners(t, 5, 2, now.Add(-time.Hour*72))

	outcome, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)
	req.Equal(5, outcome.Flagged)
	req.Equal(0, outcome.Deactivated, "flagging and removal never happen in the same pass for the same member")

	outcome, err = fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now.Add(time.Hour))
	req.NoError(err)
	req.Equal(0, outcome.Flagged)
	req.Equal(2, outcome.Deactivated)
	req.Equal(3, outcome.Deferred)

	active, err := fixture.stg.ListMembers(context.Background(), fixture.multisig.ID, true)
	req.NoError(err)
	req.Len(active, 3)

	// Deterministic order: member-00 and member-01 went first.
	for _, member := range active {
		req.NotEqual("member-00", member.ID)
		req.NotEqual("member-01", member.ID)
	}
}

func TestSweepDeactivatesOldestSilenceFirst(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	fixture := setUpSigners(t, 4, 2, now.Add(-time.Hour*72))

	// member-03 was heard from more recently than the rest.
	fresh := fixture.members[3]
	fresh.LastActivityAt = now.Add(-time.Hour * 60)
	req.NoError(fixture.stg.SaveMember(context.Background(), fresh))

	_, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)

	// Headroom is 4-2-1 = 1, so exactly one member goes, and it must be
	// the longest-silent one with the smallest id.
	outcome, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now.Add(time.Minute))
	req.NoError(err)
	req.Equal(1, outcome.Deactivated)
	req.Equal(3, outcome.Deferred)

	removed, err := fixture.stg.GetMember(context.Background(), "member-00")
	req.NoError(err)
	req.False(removed.IsActive)
	req.NotNil(removed.DeactivatedAt)
}

func TestSweepPublishesLifecycleEvents(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	fixture := setUpSigners(t, 3, 1, now.Add(-time.Hour*72))

	_, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)
	_, err = fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now.Add(time.Minute))
	req.NoError(err)

	var flagged, deactivated int
	for _, kind := range fixture.publisher.kinds() {
		switch kind {
		case events.KindSignerFlagged:
			flagged++
		case events.KindSignerDeactivated:
			deactivated++
		}
	}
	req.Equal(3, flagged)
	req.Equal(1, deactivated)
}

func TestHealthReport(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	fixture := setUpSigners(t, 3, 2, now.Add(-time.Hour*30))

	_, err := fixture.service.SweepMultisig(context.Background(), fixture.multisig.ID, now)
	req.NoError(err)

	health, err := fixture.service.Health(context.Background(), fixture.multisig.ID)
	req.NoError(err)
	req.Equal(3, health.ActiveCount)
	req.Equal(3, health.FlaggedCount)
	req.Equal(0, health.RemovalEligible)
	req.Equal(0, health.RemovalHeadroom)
	req.False(health.QuorumAtRisk)
	req.Len(health.Signers, 3)
}
