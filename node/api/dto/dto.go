package dto

import "github.com/shopspring/decimal"

// This package contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to the service layer

type MemberEntryDTO struct {
	PublicKey    string   `json:"public_key"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

type MultisigCreateDTO struct {
	Name            string
	Threshold       int
	TimeLockSeconds int64
	FeeBps          int64
	Members         []*MemberEntryDTO
}

type MultisigIdDTO struct {
	MultisigID string
}

type ListMultisigsDTO struct {
	OnlyActive bool
}

type SignerAddDTO struct {
	MultisigID   string
	PublicKey    string
	Name         string
	Capabilities []string
}

type ProposalCreateDTO struct {
	MultisigID string
	ProposerID string
	FromVault  string
	ToAddress  string
	Amount     decimal.Decimal
	Currency   string
	Memo       string
}

type ProposalIdDTO struct {
	ProposalID string
}

type ProposalVoteDTO struct {
	ProposalID string
	MemberID   string
	Type       string
	Comment    string
}

type ProposalExecuteDTO struct {
	ProposalID string
	MemberID   string
}

type ProposalCancelDTO struct {
	ProposalID string
	MemberID   string
	Reason     string
}
