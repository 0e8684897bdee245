// Package leveldb_store is the embedded Store implementation. It is the
// default driver for development and tests: single-process, no external
// services, everything under one leveldb directory.
package leveldb_store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/store"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	multisigsPrefix     = "multisigs"
	multisigNamesPrefix = "multisig_names"
	membersPrefix       = "members"
	memberIndexPrefix   = "member_index"
	proposalsPrefix     = "proposals"
	proposalSeqPrefix   = "proposal_seq"
	approvalsPrefix     = "approvals"
)

// LevelDBStore keeps every record as a JSON value under a composite key.
// Writes that must be atomic go through a single leveldb batch; per-proposal
// and per-counter serialization is provided by keyed mutexes, which is enough
// because leveldb is single-process by construction.
type LevelDBStore struct {
	db *leveldb.DB

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewLevelDBStore(dbPath string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open governance storage: %w", err)
	}

	return &LevelDBStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// lockFor returns a stable mutex for the given scope key. Mutexes are never
// evicted; the set of live proposals on one node stays small enough.
func (s *LevelDBStore) lockFor(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	return mu
}

func makeCompositeKey(prefix string, parts ...string) []byte {
	key := prefix
	for _, part := range parts {
		key += "_" + part
	}
	return []byte(key)
}

func (s *LevelDBStore) getJSON(key []byte, dst interface{}) error {
	bz, err := s.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to get value with key {%s}: %w", string(key), err)
	}

	if err := json.Unmarshal(bz, dst); err != nil {
		return fmt.Errorf("failed to unmarshal value with key {%s}: %w", string(key), err)
	}
	return nil
}

func (s *LevelDBStore) putJSON(key []byte, value interface{}) error {
	bz, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key {%s}: %w", string(key), err)
	}

	if err := s.db.Put(key, bz, nil); err != nil {
		return fmt.Errorf("failed to save value with key {%s}: %w", string(key), err)
	}
	return nil
}

func (s *LevelDBStore) has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check key {%s}: %w", string(key), err)
	}
	return ok, nil
}

func (s *LevelDBStore) CreateMultisig(_ context.Context, multisig *types.Multisig, members []*types.Member) error {
	nameKey := makeCompositeKey(multisigNamesPrefix, multisig.Name)
	if ok, err := s.has(nameKey); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("multisig name %q: %w", multisig.Name, store.ErrAlreadyExists)
	}

	if ok, err := s.has(makeCompositeKey(multisigsPrefix, multisig.ID)); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("multisig %s: %w", multisig.ID, store.ErrAlreadyExists)
	}

	batch := new(leveldb.Batch)

	multisigJSON, err := json.Marshal(multisig)
	if err != nil {
		return fmt.Errorf("failed to marshal multisig: %w", err)
	}
	batch.Put(makeCompositeKey(multisigsPrefix, multisig.ID), multisigJSON)
	batch.Put(nameKey, []byte(multisig.ID))

	for _, member := range members {
		memberJSON, err := json.Marshal(member)
		if err != nil {
			return fmt.Errorf("failed to marshal member: %w", err)
		}
		batch.Put(makeCompositeKey(membersPrefix, member.MultisigID, member.ID), memberJSON)
		batch.Put(makeCompositeKey(memberIndexPrefix, member.ID), []byte(member.MultisigID))
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to save multisig %s: %w", multisig.ID, err)
	}
	return nil
}

func (s *LevelDBStore) GetMultisig(_ context.Context, id string) (*types.Multisig, error) {
	var multisig types.Multisig
	if err := s.getJSON(makeCompositeKey(multisigsPrefix, id), &multisig); err != nil {
		return nil, err
	}
	return &multisig, nil
}

func (s *LevelDBStore) ListMultisigs(_ context.Context, onlyActive bool) ([]*types.Multisig, error) {
	multisigs := make([]*types.Multisig, 0)

	iter := s.db.NewIterator(util.BytesPrefix(makeCompositeKey(multisigsPrefix, "")), nil)
	defer iter.Release()

	for iter.Next() {
		var multisig types.Multisig
		if err := json.Unmarshal(iter.Value(), &multisig); err != nil {
			return nil, fmt.Errorf("failed to unmarshal multisig with key {%s}: %w", string(iter.Key()), err)
		}
		if onlyActive && !multisig.IsActive {
			continue
		}
		multisigs = append(multisigs, &multisig)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate multisigs: %w", err)
	}

	sort.Slice(multisigs, func(i, j int) bool {
		if multisigs[i].CreatedAt.Equal(multisigs[j].CreatedAt) {
			return multisigs[i].Name < multisigs[j].Name
		}
		return multisigs[i].CreatedAt.Before(multisigs[j].CreatedAt)
	})
	return multisigs, nil
}

// NextTransactionIndex issues the next per-multisig sequence value. The
// read-modify-write runs under the multisig's mutex, so two concurrent calls
// can never hand out the same index.
func (s *LevelDBStore) NextTransactionIndex(ctx context.Context, multisigID string) (uint64, error) {
	mu := s.lockFor(makeCompositeKeyString(multisigsPrefix, multisigID))
	mu.Lock()
	defer mu.Unlock()

	multisig, err := s.GetMultisig(ctx, multisigID)
	if err != nil {
		return 0, err
	}

	issued := multisig.NextTransactionIndex
	multisig.NextTransactionIndex = issued + 1

	if err := s.putJSON(makeCompositeKey(multisigsPrefix, multisigID), multisig); err != nil {
		return 0, fmt.Errorf("failed to advance transaction index: %w", err)
	}
	return issued, nil
}

func (s *LevelDBStore) AddMember(ctx context.Context, member *types.Member) error {
	indexKey := makeCompositeKey(memberIndexPrefix, member.ID)
	if ok, err := s.has(indexKey); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("member %s: %w", member.ID, store.ErrAlreadyExists)
	}

	members, err := s.ListMembers(ctx, member.MultisigID, false)
	if err != nil {
		return err
	}
	for _, existing := range members {
		if existing.PublicKey == member.PublicKey {
			return fmt.Errorf("member public key %q: %w", member.PublicKey, store.ErrAlreadyExists)
		}
	}

	batch := new(leveldb.Batch)
	memberJSON, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}
	batch.Put(makeCompositeKey(membersPrefix, member.MultisigID, member.ID), memberJSON)
	batch.Put(indexKey, []byte(member.MultisigID))

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to save member %s: %w", member.ID, err)
	}
	return nil
}

func (s *LevelDBStore) GetMember(_ context.Context, id string) (*types.Member, error) {
	multisigID, err := s.db.Get(makeCompositeKey(memberIndexPrefix, id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve member %s: %w", id, err)
	}

	var member types.Member
	if err := s.getJSON(makeCompositeKey(membersPrefix, string(multisigID), id), &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *LevelDBStore) ListMembers(_ context.Context, multisigID string, onlyActive bool) ([]*types.Member, error) {
	members := make([]*types.Member, 0)

	iter := s.db.NewIterator(util.BytesPrefix(makeCompositeKey(membersPrefix, multisigID, "")), nil)
	defer iter.Release()

	for iter.Next() {
		var member types.Member
		if err := json.Unmarshal(iter.Value(), &member); err != nil {
			return nil, fmt.Errorf("failed to unmarshal member with key {%s}: %w", string(iter.Key()), err)
		}
		if onlyActive && !member.IsActive {
			continue
		}
		members = append(members, &member)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].ID < members[j].ID
		}
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

func (s *LevelDBStore) SaveMember(_ context.Context, member *types.Member) error {
	key := makeCompositeKey(membersPrefix, member.MultisigID, member.ID)
	if ok, err := s.has(key); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("member %s: %w", member.ID, store.ErrNotFound)
	}
	return s.putJSON(key, member)
}

func (s *LevelDBStore) CreateProposal(_ context.Context, proposal *types.Proposal) error {
	key := makeCompositeKey(proposalsPrefix, proposal.ID)
	if ok, err := s.has(key); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("proposal %s: %w", proposal.ID, store.ErrAlreadyExists)
	}

	seqKey := makeCompositeKey(proposalSeqPrefix, proposal.MultisigID, formatSeq(proposal.TransactionIndex))
	if ok, err := s.has(seqKey); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("transaction index %d for multisig %s: %w",
			proposal.TransactionIndex, proposal.MultisigID, store.ErrAlreadyExists)
	}

	batch := new(leveldb.Batch)
	proposalJSON, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}
	batch.Put(key, proposalJSON)
	batch.Put(seqKey, []byte(proposal.ID))

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to save proposal %s: %w", proposal.ID, err)
	}
	return nil
}

func (s *LevelDBStore) GetProposal(_ context.Context, id string) (*types.Proposal, error) {
	var proposal types.Proposal
	if err := s.getJSON(makeCompositeKey(proposalsPrefix, id), &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ListProposalsByStatus walks the per-multisig sequence index, so results
// come back ordered by transaction index.
func (s *LevelDBStore) ListProposalsByStatus(ctx context.Context, multisigID string, status types.ProposalStatus) ([]*types.Proposal, error) {
	proposals := make([]*types.Proposal, 0)

	iter := s.db.NewIterator(util.BytesPrefix(makeCompositeKey(proposalSeqPrefix, multisigID, "")), nil)
	defer iter.Release()

	for iter.Next() {
		proposal, err := s.GetProposal(ctx, string(iter.Value()))
		if err != nil {
			return nil, fmt.Errorf("failed to load proposal %s from index: %w", string(iter.Value()), err)
		}
		if proposal.Status != status {
			continue
		}
		proposals = append(proposals, proposal)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate proposals: %w", err)
	}
	return proposals, nil
}

func (s *LevelDBStore) ListApprovals(_ context.Context, proposalID string) ([]*types.Approval, error) {
	approvals := make([]*types.Approval, 0)

	iter := s.db.NewIterator(util.BytesPrefix(makeCompositeKey(approvalsPrefix, proposalID, "")), nil)
	defer iter.Release()

	for iter.Next() {
		var approval types.Approval
		if err := json.Unmarshal(iter.Value(), &approval); err != nil {
			return nil, fmt.Errorf("failed to unmarshal approval with key {%s}: %w", string(iter.Key()), err)
		}
		approvals = append(approvals, &approval)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate approvals: %w", err)
	}

	sort.Slice(approvals, func(i, j int) bool {
		if approvals[i].CreatedAt.Equal(approvals[j].CreatedAt) {
			return approvals[i].MemberID < approvals[j].MemberID
		}
		return approvals[i].CreatedAt.Before(approvals[j].CreatedAt)
	})
	return approvals, nil
}

// UpdateProposal runs fn inside the proposal's critical section. Writes made
// through the txn are staged into one batch and only hit disk if fn returns
// nil.
func (s *LevelDBStore) UpdateProposal(ctx context.Context, id string, fn func(txn store.ProposalTxn) error) error {
	mu := s.lockFor(makeCompositeKeyString(proposalsPrefix, id))
	mu.Lock()
	defer mu.Unlock()

	proposal, err := s.GetProposal(ctx, id)
	if err != nil {
		return err
	}

	txn := &proposalTxn{
		store:    s,
		ctx:      ctx,
		proposal: proposal,
		batch:    new(leveldb.Batch),
		staged:   make(map[string]struct{}),
	}

	if err := fn(txn); err != nil {
		return err
	}

	if err := s.db.Write(txn.batch, nil); err != nil {
		return fmt.Errorf("failed to commit proposal %s update: %w", id, err)
	}
	return nil
}

type proposalTxn struct {
	store    *LevelDBStore
	ctx      context.Context
	proposal *types.Proposal
	batch    *leveldb.Batch

	// member ids with an approval staged in this txn
	staged map[string]struct{}
}

func (t *proposalTxn) Proposal() *types.Proposal {
	return t.proposal
}

func (t *proposalTxn) Approvals() ([]*types.Approval, error) {
	return t.store.ListApprovals(t.ctx, t.proposal.ID)
}

func (t *proposalTxn) AddApproval(approval *types.Approval) error {
	if _, ok := t.staged[approval.MemberID]; ok {
		return store.ErrDuplicateApproval
	}

	key := makeCompositeKey(approvalsPrefix, approval.ProposalID, approval.MemberID)
	if ok, err := t.store.has(key); err != nil {
		return err
	} else if ok {
		return store.ErrDuplicateApproval
	}

	approvalJSON, err := json.Marshal(approval)
	if err != nil {
		return fmt.Errorf("failed to marshal approval: %w", err)
	}
	t.batch.Put(key, approvalJSON)
	t.staged[approval.MemberID] = struct{}{}
	return nil
}

func (t *proposalTxn) SaveProposal(proposal *types.Proposal) error {
	proposalJSON, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}
	t.batch.Put(makeCompositeKey(proposalsPrefix, proposal.ID), proposalJSON)
	t.proposal = proposal
	return nil
}

func makeCompositeKeyString(prefix string, parts ...string) string {
	return string(makeCompositeKey(prefix, parts...))
}

func formatSeq(index uint64) string {
	return fmt.Sprintf("%020d", index)
}
