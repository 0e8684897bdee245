package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	. "github.com/hoepeyemi/fusee-sub001/node/api/dto"
	cs "github.com/hoepeyemi/fusee-sub001/node/api/http_api/context_service"
	req "github.com/hoepeyemi/fusee-sub001/node/api/http_api/requests"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
	govreq "github.com/hoepeyemi/fusee-sub001/governance/types/requests"
)

func (a *HTTPApp) CreateProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalCreateForm{}
	formDTO := &ProposalCreateDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	created, err := a.engine.CreateProposal(stx.Request().Context(), &govreq.ProposalCreateRequest{
		MultisigID: formDTO.MultisigID,
		ProposerID: formDTO.ProposerID,
		FromVault:  formDTO.FromVault,
		ToAddress:  formDTO.ToAddress,
		Amount:     formDTO.Amount,
		Currency:   formDTO.Currency,
		Memo:       formDTO.Memo,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, created)
}

func (a *HTTPApp) VoteProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalVoteForm{}
	formDTO := &ProposalVoteDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	outcome, err := a.engine.Vote(stx.Request().Context(), &govreq.ProposalVoteRequest{
		ProposalID: formDTO.ProposalID,
		MemberID:   formDTO.MemberID,
		Type:       types.VoteType(formDTO.Type),
		Comment:    formDTO.Comment,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, outcome)
}

func (a *HTTPApp) ExecuteProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalExecuteForm{}
	formDTO := &ProposalExecuteDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	outcome, err := a.engine.Execute(stx.Request().Context(), &govreq.ProposalExecuteRequest{
		ProposalID: formDTO.ProposalID,
		MemberID:   formDTO.MemberID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, outcome)
}

func (a *HTTPApp) CancelProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalCancelForm{}
	formDTO := &ProposalCancelDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	cancelled, err := a.engine.Cancel(stx.Request().Context(), &govreq.ProposalCancelRequest{
		ProposalID: formDTO.ProposalID,
		MemberID:   formDTO.MemberID,
		Reason:     formDTO.Reason,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, cancelled)
}

func (a *HTTPApp) GetProposalStatus(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalIdForm{}
	formDTO := &ProposalIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	status, err := a.engine.Status(stx.Request().Context(), formDTO.ProposalID)
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, status)
}

func (a *HTTPApp) GetPendingProposals(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.MultisigIdForm{}
	formDTO := &MultisigIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	pending, err := a.engine.PendingProposals(stx.Request().Context(), formDTO.MultisigID)
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, pending)
}
