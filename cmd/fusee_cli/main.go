package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
	req "github.com/hoepeyemi/fusee-sub001/node/api/http_api/requests"
)

const (
	flagListenAddr   = "listen_addr"
	flagCapabilities = "capabilities"
	flagComment      = "comment"
	flagReason       = "reason"
	flagOnlyActive   = "only_active"
)

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Listen Address")
}

var rootCmd = &cobra.Command{
	Use:   "fusee_cli",
	Short: "fusee governance node cli utilities implementation",
}

func main() {
	rootCmd.AddCommand(
		getServiceInfoCommand(),
		createMultisigCommand(),
		getMultisigsCommand(),
		getMultisigInfoCommand(),
		addSignerCommand(),
		getSignerHealthCommand(),
		proposeTransferCommand(),
		approveProposalCommand(),
		rejectProposalCommand(),
		executeProposalCommand(),
		cancelProposalCommand(),
		getProposalStatusCommand(),
		getPendingProposalsCommand(),
		runSweepCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func getRequest(url string, response interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()
	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}

func postRequest(url string, request interface{}, response interface{}) error {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()
	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}

func getServiceInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_service_info",
		Short: "returns node name, public key and runtime drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response ServiceInfoResponse
			if err := getRequest(fmt.Sprintf("http://%s/getServiceInfo", listenAddr), &response); err != nil {
				return fmt.Errorf("failed to get service info: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get service info: %s", response.ErrorMessage)
			}

			info := response.Result
			fmt.Printf("Node name: %s\n", info.NodeName)
			fmt.Printf("Node public key: %s\n", info.PubKey)
			fmt.Printf("Store driver: %s\n", info.StoreDriver)
			fmt.Printf("Started at: %s\n", info.StartedAt.Format(time.RFC3339))
			fmt.Printf("Periodic sweep enabled: %t\n", info.SweepEnabled)
			return nil
		},
	}
}

func createMultisigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_multisig [proposing_file]",
		Args:  cobra.ExactArgs(1),
		Short: "creates a multisig group from a proposing file with its founding signers",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			proposingFileData, err := ioutil.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			var form req.MultisigCreateForm
			if err = json.Unmarshal(proposingFileData, &form); err != nil {
				return fmt.Errorf("failed to unmarshal multisig proposing file: %w", err)
			}

			if len(form.Members) == 0 || form.Threshold > len(form.Members) {
				return fmt.Errorf("invalid threshold: %d", form.Threshold)
			}

			var response MultisigResponse
			if err := postRequest(fmt.Sprintf("http://%s/createMultisig", listenAddr), form, &response); err != nil {
				return fmt.Errorf("failed to create multisig: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to create multisig: %s", response.ErrorMessage)
			}

			created := response.Result
			fmt.Printf("Multisig ID: %s\n", created.ID)
			fmt.Printf("Name: %s\n", created.Name)
			fmt.Printf("Threshold: %d of %d\n", created.Threshold, len(form.Members))
			fmt.Printf("Execution time-lock: %ds\n", created.TimeLockSeconds)
			fmt.Printf("Service fee: %d bps\n", created.FeeBps)
			return nil
		},
	}
}

func getMultisigsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get_multisigs",
		Short: "returns all multisig groups known to the node",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			onlyActive, err := cmd.Flags().GetBool(flagOnlyActive)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response MultisigsResponse
			if err := getRequest(fmt.Sprintf("http://%s/getMultisigs?onlyActive=%t", listenAddr, onlyActive), &response); err != nil {
				return fmt.Errorf("failed to get multisigs: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get multisigs: %s", response.ErrorMessage)
			}

			for _, multisig := range response.Result {
				fmt.Printf("Multisig ID: %s\n", multisig.ID)
				fmt.Printf("Name: %s\n", multisig.Name)
				fmt.Printf("Threshold: %d\n", multisig.Threshold)
				fmt.Printf("Active: %t\n", multisig.IsActive)
				fmt.Println("-----------------------------------------------------")
			}
			return nil
		},
	}
	cmd.Flags().Bool(flagOnlyActive, false, "Only list active multisigs")
	return cmd
}

func getMultisigInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_multisig_info [multisig_id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the multisig parameters and its signer roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response MultisigInfoResponse
			if err := getRequest(fmt.Sprintf("http://%s/getMultisigInfo?multisigID=%s", listenAddr, url.QueryEscape(args[0])), &response); err != nil {
				return fmt.Errorf("failed to get multisig info: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get multisig info: %s", response.ErrorMessage)
			}

			multisig := response.Result.Multisig
			fmt.Printf("Multisig ID: %s\n", multisig.ID)
			fmt.Printf("Name: %s\n", multisig.Name)
			fmt.Printf("Threshold: %d of %d\n", multisig.Threshold, len(response.Result.Members))
			fmt.Printf("Execution time-lock: %ds\n", multisig.TimeLockSeconds)
			fmt.Printf("Service fee: %d bps\n", multisig.FeeBps)
			fmt.Printf("Active: %t\n", multisig.IsActive)
			fmt.Println("Signers:")
			for _, member := range response.Result.Members {
				fmt.Printf("\tMember ID: %s\n", member.ID)
				fmt.Printf("\tName: %s\n", member.Name)
				fmt.Printf("\tPublic key: %s\n", member.PublicKey)
				fmt.Printf("\tCapabilities: %s\n", member.Capabilities)
				fmt.Printf("\tActive: %t\n", member.IsActive)
				fmt.Println()
			}
			return nil
		},
	}
}

func addSignerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add_signer [multisig_id] [public_key] [name]",
		Args:  cobra.ExactArgs(3),
		Short: "registers a new signer on an existing multisig",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			capabilities, err := cmd.Flags().GetStringSlice(flagCapabilities)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			form := req.SignerAddForm{
				MultisigID:   args[0],
				PublicKey:    args[1],
				Name:         args[2],
				Capabilities: capabilities,
			}

			var response MemberResponse
			if err := postRequest(fmt.Sprintf("http://%s/addSigner", listenAddr), form, &response); err != nil {
				return fmt.Errorf("failed to add signer: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to add signer: %s", response.ErrorMessage)
			}

			member := response.Result
			fmt.Printf("Member ID: %s\n", member.ID)
			fmt.Printf("Name: %s\n", member.Name)
			fmt.Printf("Capabilities: %s\n", member.Capabilities)
			return nil
		},
	}
	cmd.Flags().StringSlice(flagCapabilities, []string{"propose", "vote", "execute"}, "Capabilities granted to the signer")
	return cmd
}

func getSignerHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_signer_health [multisig_id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the inactivity lifecycle state of the multisig's signers",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response SignerHealthResponse
			if err := getRequest(fmt.Sprintf("http://%s/getSignerHealth?multisigID=%s", listenAddr, url.QueryEscape(args[0])), &response); err != nil {
				return fmt.Errorf("failed to get signer health: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get signer health: %s", response.ErrorMessage)
			}

			health := response.Result
			fmt.Printf("Multisig ID: %s\n", health.MultisigID)
			fmt.Printf("Threshold: %d\n", health.Threshold)
			fmt.Printf("Active signers: %d\n", health.ActiveCount)
			fmt.Printf("Flagged signers: %d\n", health.FlaggedCount)
			fmt.Printf("Removal eligible: %d\n", health.RemovalEligible)
			fmt.Printf("Removal headroom: %d\n", health.RemovalHeadroom)
			if health.QuorumAtRisk {
				fmt.Printf("Quorum at risk: %s\n", color.RedString("yes"))
			} else {
				fmt.Printf("Quorum at risk: no\n")
			}
			fmt.Println("Signers:")
			for _, signer := range health.Signers {
				fmt.Printf("\tMember ID: %s\n", signer.MemberID)
				fmt.Printf("\tName: %s\n", signer.Name)
				fmt.Printf("\tActive: %t\n", signer.IsActive)
				fmt.Printf("\tLast activity: %s\n", signer.LastActivityAt.Format(time.RFC3339))
				if signer.FlaggedAt != nil {
					fmt.Printf("\tFlagged inactive at: %s\n", color.YellowString(signer.FlaggedAt.Format(time.RFC3339)))
				}
				if signer.DeactivatedAt != nil {
					fmt.Printf("\tDeactivated at: %s\n", color.RedString(signer.DeactivatedAt.Format(time.RFC3339)))
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func proposeTransferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "propose_transfer [transfer_file]",
		Args:  cobra.ExactArgs(1),
		Short: "proposes a fund transfer described by the file for multisig approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			transferFileData, err := ioutil.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			var form req.ProposalCreateForm
			if err = json.Unmarshal(transferFileData, &form); err != nil {
				return fmt.Errorf("failed to unmarshal transfer file: %w", err)
			}

			if form.Amount.Sign() <= 0 {
				return fmt.Errorf("invalid amount: %s", form.Amount)
			}

			var response ProposalResponse
			if err := postRequest(fmt.Sprintf("http://%s/createProposal", listenAddr), form, &response); err != nil {
				return fmt.Errorf("failed to propose transfer: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to propose transfer: %s", response.ErrorMessage)
			}

			printProposal(response.Result)
			return nil
		},
	}
}

func voteRequest(listenAddr, proposalID, memberID, comment string, voteType types.VoteType) error {
	form := req.ProposalVoteForm{
		ProposalID: proposalID,
		MemberID:   memberID,
		Type:       string(voteType),
		Comment:    comment,
	}

	var response VoteOutcomeResponse
	if err := postRequest(fmt.Sprintf("http://%s/voteProposal", listenAddr), form, &response); err != nil {
		return fmt.Errorf("failed to vote: %w", err)
	}
	if response.ErrorMessage != "" {
		return fmt.Errorf("failed to vote: %s", response.ErrorMessage)
	}

	outcome := response.Result
	fmt.Printf("Proposal ID: %s\n", outcome.ProposalID)
	fmt.Printf("Status: %s\n", renderStatus(outcome.Status))
	fmt.Printf("Approvals: %d of %d\n", outcome.ApprovalsCount, outcome.Threshold)
	if outcome.ThresholdMet {
		fmt.Println(color.GreenString("Approval threshold reached, execution time-lock started"))
	}
	return nil
}

func approveProposalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve_proposal [proposal_id] [member_id]",
		Args:  cobra.ExactArgs(2),
		Short: "records an approving vote on a pending proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			comment, err := cmd.Flags().GetString(flagComment)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			return voteRequest(listenAddr, args[0], args[1], comment, types.VoteApprove)
		},
	}
	cmd.Flags().String(flagComment, "", "Optional comment recorded with the vote")
	return cmd
}

func rejectProposalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject_proposal [proposal_id] [member_id]",
		Args:  cobra.ExactArgs(2),
		Short: "records a rejecting vote, which vetoes the proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			comment, err := cmd.Flags().GetString(flagComment)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			return voteRequest(listenAddr, args[0], args[1], comment, types.VoteReject)
		},
	}
	cmd.Flags().String(flagComment, "", "Optional comment recorded with the vote")
	return cmd
}

func executeProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "execute_proposal [proposal_id] [member_id]",
		Args:  cobra.ExactArgs(2),
		Short: "submits an approved proposal to the execution gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			form := req.ProposalExecuteForm{
				ProposalID: args[0],
				MemberID:   args[1],
			}

			var response ExecutionOutcomeResponse
			if err := postRequest(fmt.Sprintf("http://%s/executeProposal", listenAddr), form, &response); err != nil {
				return fmt.Errorf("failed to execute proposal: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to execute proposal: %s", response.ErrorMessage)
			}

			outcome := response.Result
			fmt.Printf("Proposal ID: %s\n", outcome.ProposalID)
			fmt.Printf("Status: %s\n", renderStatus(outcome.Status))
			fmt.Printf("Transaction index: %d\n", outcome.TransactionIndex)
			fmt.Printf("Service fee charged: %s\n", outcome.Fee)
			fmt.Printf("Tx hash: %s\n", color.GreenString(outcome.TxHash))
			return nil
		},
	}
}

func cancelProposalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel_proposal [proposal_id] [member_id]",
		Args:  cobra.ExactArgs(2),
		Short: "cancels a pending proposal, allowed for its proposer only",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			reason, err := cmd.Flags().GetString(flagReason)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			form := req.ProposalCancelForm{
				ProposalID: args[0],
				MemberID:   args[1],
				Reason:     reason,
			}

			var response ProposalResponse
			if err := postRequest(fmt.Sprintf("http://%s/cancelProposal", listenAddr), form, &response); err != nil {
				return fmt.Errorf("failed to cancel proposal: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to cancel proposal: %s", response.ErrorMessage)
			}

			printProposal(response.Result)
			return nil
		},
	}
	cmd.Flags().String(flagReason, "", "Optional cancellation reason")
	return cmd
}

func getProposalStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_proposal_status [proposal_id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the proposal, its recorded votes and the remaining time-lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response ProposalStatusResponse
			if err := getRequest(fmt.Sprintf("http://%s/getProposalStatus?proposalID=%s", listenAddr, url.QueryEscape(args[0])), &response); err != nil {
				return fmt.Errorf("failed to get proposal status: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get proposal status: %s", response.ErrorMessage)
			}

			status := response.Result
			printProposal(status.Proposal)
			if status.Proposal.Status == types.ProposalApproved && status.RemainingLockSeconds > 0 {
				fmt.Printf("Executable in: %ds\n", status.RemainingLockSeconds)
			}
			fmt.Printf("Votes (%d of %d approvals needed):\n", len(status.Approvals), status.Threshold)
			for _, vote := range status.Approvals {
				fmt.Printf("\tMember ID: %s\n", vote.MemberID)
				fmt.Printf("\tVote: %s\n", vote.Type)
				if vote.Comment != "" {
					fmt.Printf("\tComment: %s\n", vote.Comment)
				}
				fmt.Printf("\tVoted at: %s\n", vote.CreatedAt.Format(time.RFC3339))
				fmt.Println()
			}
			return nil
		},
	}
}

func getPendingProposalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_pending_proposals [multisig_id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the multisig's proposals still awaiting votes",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response PendingProposalsResponse
			if err := getRequest(fmt.Sprintf("http://%s/getPendingProposals?multisigID=%s", listenAddr, url.QueryEscape(args[0])), &response); err != nil {
				return fmt.Errorf("failed to get pending proposals: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get pending proposals: %s", response.ErrorMessage)
			}

			for _, prop := range response.Result {
				printProposal(prop)
				fmt.Println("-----------------------------------------------------")
			}
			return nil
		},
	}
}

func runSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run_sweep",
		Short: "runs one maintenance sweep over all multisigs immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response SweepReportResponse
			if err := postRequest(fmt.Sprintf("http://%s/runSweep", listenAddr), struct{}{}, &response); err != nil {
				return fmt.Errorf("failed to run sweep: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to run sweep: %s", response.ErrorMessage)
			}

			report := response.Result
			fmt.Printf("Swept at: %s\n", report.SweptAt.Format(time.RFC3339))
			fmt.Printf("Multisigs seen: %d\n", report.MultisigsSeen)
			fmt.Printf("Members flagged inactive: %d\n", report.FlaggedMembers)
			fmt.Printf("Members deactivated: %d\n", report.DeactivatedMembers)
			fmt.Printf("Removals deferred for quorum headroom: %d\n", report.DeferredRemovals)
			fmt.Printf("Proposals expired: %d\n", report.ExpiredProposals)
			fmt.Printf("Executions awaiting reconciliation: %d\n", report.AmbiguousExecs)
			for multisigID, failure := range report.Failures {
				fmt.Printf("Sweep failure for %s: %s\n", multisigID, color.RedString(failure))
			}
			return nil
		},
	}
}
