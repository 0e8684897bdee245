// Package gorm_store is the relational Store implementation used in
// production deployments. Uniqueness (multisig names, member keys, one vote
// per member, one proposal per transaction index) is enforced by database
// constraints, and the per-proposal critical section is a row lock.
package gorm_store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/store"

	"github.com/jackc/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const uniqueViolationCode = "23505"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to governance database: %w", err)
	}

	if err := db.AutoMigrate(
		&types.Multisig{},
		&types.Member{},
		&types.Proposal{},
		&types.Approval{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate governance schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to resolve database handle: %w", err)
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case isUniqueViolation(err):
		return store.ErrAlreadyExists
	default:
		return err
	}
}

func (s *GormStore) CreateMultisig(ctx context.Context, multisig *types.Multisig, members []*types.Member) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(multisig).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create multisig %s: %w", multisig.Name, translateErr(err))
	}
	return nil
}

func (s *GormStore) GetMultisig(ctx context.Context, id string) (*types.Multisig, error) {
	var multisig types.Multisig
	err := s.db.WithContext(ctx).First(&multisig, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get multisig %s: %w", id, translateErr(err))
	}
	return &multisig, nil
}

func (s *GormStore) ListMultisigs(ctx context.Context, onlyActive bool) ([]*types.Multisig, error) {
	query := s.db.WithContext(ctx).Order("created_at asc, name asc")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var multisigs []*types.Multisig
	if err := query.Find(&multisigs).Error; err != nil {
		return nil, fmt.Errorf("failed to list multisigs: %w", err)
	}
	return multisigs, nil
}

// NextTransactionIndex locks the multisig row, reads the counter and
// advances it in the same transaction. Concurrent callers queue on the row
// lock, so issued values are unique and strictly increasing.
func (s *GormStore) NextTransactionIndex(ctx context.Context, multisigID string) (uint64, error) {
	var issued uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var multisig types.Multisig
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&multisig, "id = ?", multisigID).Error; err != nil {
			return err
		}

		issued = multisig.NextTransactionIndex
		return tx.Model(&multisig).
			Update("next_transaction_index", issued+1).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to issue transaction index for multisig %s: %w", multisigID, translateErr(err))
	}
	return issued, nil
}

func (s *GormStore) AddMember(ctx context.Context, member *types.Member) error {
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("failed to add member %s: %w", member.ID, translateErr(err))
	}
	return nil
}

func (s *GormStore) GetMember(ctx context.Context, id string) (*types.Member, error) {
	var member types.Member
	err := s.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", id, translateErr(err))
	}
	return &member, nil
}

func (s *GormStore) ListMembers(ctx context.Context, multisigID string, onlyActive bool) ([]*types.Member, error) {
	query := s.db.WithContext(ctx).
		Where("multisig_id = ?", multisigID).
		Order("created_at asc, id asc")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var members []*types.Member
	if err := query.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members of multisig %s: %w", multisigID, err)
	}
	return members, nil
}

func (s *GormStore) SaveMember(ctx context.Context, member *types.Member) error {
	result := s.db.WithContext(ctx).Model(member).
		Select("Name", "Capabilities", "IsActive", "LastActivityAt", "InactiveFlaggedAt", "DeactivatedAt", "UpdatedAt").
		Updates(member)
	if result.Error != nil {
		return fmt.Errorf("failed to save member %s: %w", member.ID, translateErr(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("member %s: %w", member.ID, store.ErrNotFound)
	}
	return nil
}

func (s *GormStore) CreateProposal(ctx context.Context, proposal *types.Proposal) error {
	if err := s.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return fmt.Errorf("failed to create proposal %s: %w", proposal.ID, translateErr(err))
	}
	return nil
}

func (s *GormStore) GetProposal(ctx context.Context, id string) (*types.Proposal, error) {
	var proposal types.Proposal
	err := s.db.WithContext(ctx).First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal %s: %w", id, translateErr(err))
	}
	return &proposal, nil
}

func (s *GormStore) ListProposalsByStatus(ctx context.Context, multisigID string, status types.ProposalStatus) ([]*types.Proposal, error) {
	var proposals []*types.Proposal
	err := s.db.WithContext(ctx).
		Where("multisig_id = ? AND status = ?", multisigID, status).
		Order("transaction_index asc").
		Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s proposals of multisig %s: %w", status, multisigID, err)
	}
	return proposals, nil
}

func (s *GormStore) ListApprovals(ctx context.Context, proposalID string) ([]*types.Approval, error) {
	var approvals []*types.Approval
	err := s.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("created_at asc, member_id asc").
		Find(&approvals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals of proposal %s: %w", proposalID, err)
	}
	return approvals, nil
}

// UpdateProposal takes a FOR UPDATE lock on the proposal row and runs fn
// inside that transaction. An error from fn rolls the whole update back.
func (s *GormStore) UpdateProposal(ctx context.Context, id string, fn func(txn store.ProposalTxn) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposal types.Proposal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&proposal, "id = ?", id).Error; err != nil {
			return translateErr(err)
		}

		return fn(&proposalTxn{tx: tx, proposal: &proposal})
	})
	if err != nil {
		return err
	}
	return nil
}

type proposalTxn struct {
	tx       *gorm.DB
	proposal *types.Proposal
}

func (t *proposalTxn) Proposal() *types.Proposal {
	return t.proposal
}

func (t *proposalTxn) Approvals() ([]*types.Approval, error) {
	var approvals []*types.Approval
	err := t.tx.
		Where("proposal_id = ?", t.proposal.ID).
		Order("created_at asc, member_id asc").
		Find(&approvals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals of proposal %s: %w", t.proposal.ID, err)
	}
	return approvals, nil
}

func (t *proposalTxn) AddApproval(approval *types.Approval) error {
	if err := t.tx.Create(approval).Error; err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateApproval
		}
		return fmt.Errorf("failed to add approval for proposal %s: %w", approval.ProposalID, err)
	}
	return nil
}

func (t *proposalTxn) SaveProposal(proposal *types.Proposal) error {
	if err := t.tx.Save(proposal).Error; err != nil {
		return fmt.Errorf("failed to save proposal %s: %w", proposal.ID, err)
	}
	t.proposal = proposal
	return nil
}
