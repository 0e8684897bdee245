package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hoepeyemi/fusee-sub001/node/api/http_api/handlers"
	"github.com/hoepeyemi/fusee-sub001/node/config"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/engine"
	"github.com/hoepeyemi/fusee-sub001/node/services/multisig"
	"github.com/hoepeyemi/fusee-sub001/node/services/scheduler"
)

func SetRouter(
	e *echo.Echo,
	engineService engine.EngineService,
	multisigService multisig.MultisigService,
	schedulerService scheduler.SchedulerService,
	cfg *config.Config,
	sp *services.ServiceProvider,
) {
	h := handlers.NewHTTPApp(engineService, multisigService, schedulerService, cfg, sp)

	e.GET("/getServiceInfo", h.GetServiceInfo)

	e.POST("/createMultisig", h.CreateMultisig)
	e.GET("/getMultisigs", h.GetMultisigs)
	e.GET("/getMultisigInfo", h.GetMultisigInfo)

	e.POST("/addSigner", h.AddSigner)
	e.GET("/getSignerHealth", h.GetSignerHealth)

	e.POST("/createProposal", h.CreateProposal)
	e.POST("/voteProposal", h.VoteProposal)
	e.POST("/executeProposal", h.ExecuteProposal)
	e.POST("/cancelProposal", h.CancelProposal)
	e.GET("/getProposalStatus", h.GetProposalStatus)
	e.GET("/getPendingProposals", h.GetPendingProposals)

	e.POST("/runSweep", h.RunSweep)
}
