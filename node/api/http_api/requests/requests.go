package requests

import (
	"github.com/shopspring/decimal"

	"github.com/hoepeyemi/fusee-sub001/node/api/dto"
)

type MultisigCreateForm struct {
	Name            string                `json:"name" validate:"attr=name,min=3,max=150"`
	Threshold       int                   `json:"threshold"`
	TimeLockSeconds int64                 `json:"time_lock_seconds"`
	FeeBps          int64                 `json:"fee_bps"`
	Members         []*dto.MemberEntryDTO `json:"members"`
}

type MultisigIdForm struct {
	MultisigID string `query:"multisigID" json:"multisigID"`
}

type ListMultisigsForm struct {
	OnlyActive bool `query:"onlyActive" json:"onlyActive"`
}

type SignerAddForm struct {
	MultisigID   string   `json:"multisig_id"`
	PublicKey    string   `json:"public_key" validate:"attr=public_key,min=32"`
	Name         string   `json:"name" validate:"attr=name,min=1,max=150"`
	Capabilities []string `json:"capabilities"`
}

type ProposalCreateForm struct {
	MultisigID string          `json:"multisig_id"`
	ProposerID string          `json:"proposer_id"`
	FromVault  string          `json:"from_vault" validate:"attr=from_vault,min=32"`
	ToAddress  string          `json:"to_address" validate:"attr=to_address,min=32"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency" validate:"attr=currency,min=1"`
	Memo       string          `json:"memo"`
}

type ProposalIdForm struct {
	ProposalID string `query:"proposalID" json:"proposalID"`
}

type ProposalVoteForm struct {
	ProposalID string `json:"proposal_id"`
	MemberID   string `json:"member_id"`
	Type       string `json:"type"`
	Comment    string `json:"comment"`
}

type ProposalExecuteForm struct {
	ProposalID string `json:"proposal_id"`
	MemberID   string `json:"member_id"`
}

type ProposalCancelForm struct {
	ProposalID string `json:"proposal_id"`
	MemberID   string `json:"member_id"`
	Reason     string `json:"reason"`
}
