package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/governance/types/responses"
	api "github.com/hoepeyemi/fusee-sub001/node/api/http_api/responses"
)

type ServiceInfoResponse struct {
	ErrorMessage string                   `json:"error_message,omitempty"`
	Result       *api.ServiceInfoResponse `json:"result"`
}

type MultisigResponse struct {
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       *types.Multisig `json:"result"`
}

type MultisigsResponse struct {
	ErrorMessage string            `json:"error_message,omitempty"`
	Result       []*types.Multisig `json:"result"`
}

type MultisigInfoResponse struct {
	ErrorMessage string                          `json:"error_message,omitempty"`
	Result       *responses.MultisigInfoResponse `json:"result"`
}

type MemberResponse struct {
	ErrorMessage string        `json:"error_message,omitempty"`
	Result       *types.Member `json:"result"`
}

type SignerHealthResponse struct {
	ErrorMessage string                          `json:"error_message,omitempty"`
	Result       *responses.SignerHealthResponse `json:"result"`
}

type ProposalResponse struct {
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       *types.Proposal `json:"result"`
}

type VoteOutcomeResponse struct {
	ErrorMessage string                 `json:"error_message,omitempty"`
	Result       *responses.VoteOutcome `json:"result"`
}

type ExecutionOutcomeResponse struct {
	ErrorMessage string                      `json:"error_message,omitempty"`
	Result       *responses.ExecutionOutcome `json:"result"`
}

type ProposalStatusResponse struct {
	ErrorMessage string                            `json:"error_message,omitempty"`
	Result       *responses.ProposalStatusResponse `json:"result"`
}

type PendingProposalsResponse struct {
	ErrorMessage string            `json:"error_message,omitempty"`
	Result       []*types.Proposal `json:"result"`
}

type SweepReportResponse struct {
	ErrorMessage string                 `json:"error_message,omitempty"`
	Result       *responses.SweepReport `json:"result"`
}

func renderStatus(status types.ProposalStatus) string {
	switch status {
	case types.ProposalPending:
		return color.YellowString(status.String())
	case types.ProposalApproved:
		return color.CyanString(status.String())
	case types.ProposalExecuted:
		return color.GreenString(status.String())
	case types.ProposalRejected, types.ProposalFailed:
		return color.RedString(status.String())
	default:
		return status.String()
	}
}

func printProposal(prop *types.Proposal) {
	fmt.Printf("Proposal ID: %s\n", prop.ID)
	fmt.Printf("Status: %s\n", renderStatus(prop.Status))
	if prop.StatusReason != "" {
		fmt.Printf("Status reason: %s\n", prop.StatusReason)
	}
	fmt.Printf("Transaction index: %d\n", prop.TransactionIndex)
	fmt.Printf("Transfer: %s %s from %s to %s (fee %s)\n",
		prop.Amount, prop.Currency, prop.FromVault, prop.ToAddress, prop.Fee)
	if prop.Memo != "" {
		fmt.Printf("Memo: %s\n", prop.Memo)
	}
	fmt.Printf("Proposed by: %s\n", prop.ProposerID)
	if prop.ExecutedTxHash != "" {
		fmt.Printf("Executed tx hash: %s\n", prop.ExecutedTxHash)
	}
	fmt.Printf("Expires at: %s\n", prop.ExpiresAt.Format(time.RFC3339))
}
