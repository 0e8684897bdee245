package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	. "github.com/hoepeyemi/fusee-sub001/node/api/dto"
	cs "github.com/hoepeyemi/fusee-sub001/node/api/http_api/context_service"
	req "github.com/hoepeyemi/fusee-sub001/node/api/http_api/requests"

	govreq "github.com/hoepeyemi/fusee-sub001/governance/types/requests"
)

func (a *HTTPApp) CreateMultisig(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.MultisigCreateForm{}
	formDTO := &MultisigCreateDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	members := make([]*govreq.MultisigMemberEntry, 0, len(formDTO.Members))
	for _, entry := range formDTO.Members {
		members = append(members, &govreq.MultisigMemberEntry{
			PublicKey:    entry.PublicKey,
			Name:         entry.Name,
			Capabilities: entry.Capabilities,
		})
	}

	created, err := a.multisig.Create(stx.Request().Context(), &govreq.MultisigCreateRequest{
		Name:            formDTO.Name,
		Threshold:       formDTO.Threshold,
		TimeLockSeconds: formDTO.TimeLockSeconds,
		FeeBps:          formDTO.FeeBps,
		Members:         members,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, created)
}

func (a *HTTPApp) GetMultisigInfo(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.MultisigIdForm{}
	formDTO := &MultisigIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	info, err := a.multisig.Get(stx.Request().Context(), formDTO.MultisigID)
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, info)
}

func (a *HTTPApp) GetMultisigs(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ListMultisigsForm{}
	formDTO := &ListMultisigsDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	multisigs, err := a.multisig.List(stx.Request().Context(), formDTO.OnlyActive)
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, multisigs)
}

func (a *HTTPApp) AddSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.SignerAddForm{}
	formDTO := &SignerAddDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	member, err := a.multisig.AddSigner(stx.Request().Context(), &govreq.SignerAddRequest{
		MultisigID:   formDTO.MultisigID,
		PublicKey:    formDTO.PublicKey,
		Name:         formDTO.Name,
		Capabilities: formDTO.Capabilities,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, member)
}

func (a *HTTPApp) GetSignerHealth(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.MultisigIdForm{}
	formDTO := &MultisigIdDTO{}
	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	health, err := a.signers.Health(stx.Request().Context(), formDTO.MultisigID)
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, health)
}
