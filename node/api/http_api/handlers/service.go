package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	cs "github.com/hoepeyemi/fusee-sub001/node/api/http_api/context_service"
	"github.com/hoepeyemi/fusee-sub001/node/api/http_api/responses"
)

func (a *HTTPApp) GetServiceInfo(c echo.Context) error {
	stx := c.(*cs.ContextService)

	keyPair, err := a.keyStore.LoadKeys(a.config.NodeName)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}

	return stx.Json(http.StatusOK, &responses.ServiceInfoResponse{
		NodeName:     a.config.NodeName,
		PubKey:       keyPair.GetAddr(),
		StoreDriver:  a.config.Store.Driver,
		StartedAt:    a.startedAt,
		SweepEnabled: a.config.Scheduler.Enabled,
	})
}

// RunSweep triggers one maintenance pass outside the periodic schedule.
// Operators use it after restoring a node or before a planned shutdown.
func (a *HTTPApp) RunSweep(c echo.Context) error {
	stx := c.(*cs.ContextService)

	report, err := a.scheduler.Sweep(stx.Request().Context(), time.Now().UTC())
	if err != nil {
		return stx.JsonError(errStatus(err), err)
	}

	return stx.Json(http.StatusOK, report)
}
