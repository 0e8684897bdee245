package requests

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hoepeyemi/fusee-sub001/governance/config"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
)

func (r *ProposalCreateRequest) Validate() error {
	if len(r.MultisigID) == 0 {
		return errors.New("{MultisigID} is not set")
	}

	if len(r.ProposerID) == 0 {
		return errors.New("{ProposerID} is not set")
	}

	if len(r.FromVault) < 32 {
		return errors.New("{FromVault} too short")
	}

	if len(r.ToAddress) < 32 {
		return errors.New("{ToAddress} too short")
	}

	if r.Amount.Sign() <= 0 {
		return errors.New("{Amount} must be a positive number")
	}

	if !config.CurrencySupported(r.Currency) {
		return fmt.Errorf("{Currency} must be one of {%s}", strings.Join(config.SupportedCurrencies, ", "))
	}

	if len(r.Memo) > 500 {
		return errors.New("{Memo} maximum length is {500}")
	}

	if r.CreatedAt.IsZero() {
		return errors.New("{CreatedAt} is not set")
	}

	return nil
}

func (r *ProposalVoteRequest) Validate() error {
	if len(r.ProposalID) == 0 {
		return errors.New("{ProposalID} is not set")
	}

	if len(r.MemberID) == 0 {
		return errors.New("{MemberID} is not set")
	}

	if r.Type != types.VoteApprove && r.Type != types.VoteReject {
		return errors.New("{Type} must be either {APPROVE} or {REJECT}")
	}

	if len(r.Comment) > 500 {
		return errors.New("{Comment} maximum length is {500}")
	}

	if r.CreatedAt.IsZero() {
		return errors.New("{CreatedAt} is not set")
	}

	return nil
}

func (r *ProposalExecuteRequest) Validate() error {
	if len(r.ProposalID) == 0 {
		return errors.New("{ProposalID} is not set")
	}

	if len(r.MemberID) == 0 {
		return errors.New("{MemberID} is not set")
	}

	if r.CreatedAt.IsZero() {
		return errors.New("{CreatedAt} is not set")
	}

	return nil
}

func (r *ProposalCancelRequest) Validate() error {
	if len(r.ProposalID) == 0 {
		return errors.New("{ProposalID} is not set")
	}

	if len(r.MemberID) == 0 {
		return errors.New("{MemberID} is not set")
	}

	if len(r.Reason) > 500 {
		return errors.New("{Reason} maximum length is {500}")
	}

	if r.CreatedAt.IsZero() {
		return errors.New("{CreatedAt} is not set")
	}

	return nil
}
