package http_api

import (
	"context"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"

	"github.com/hoepeyemi/fusee-sub001/node/api/http_api/router"
	"github.com/hoepeyemi/fusee-sub001/node/config"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/engine"
	"github.com/hoepeyemi/fusee-sub001/node/services/multisig"
	"github.com/hoepeyemi/fusee-sub001/node/services/scheduler"
)

type RESTApiProvider struct {
	config       *config.Config
	echoInstance *echo.Echo
}

func (p *RESTApiProvider) NewServer(
	cfg *config.Config,
	engineService engine.EngineService,
	multisigService multisig.MultisigService,
	schedulerService scheduler.SchedulerService,
	sp *services.ServiceProvider,
) error {
	p.config = cfg

	p.echoInstance = echo.New()

	p.echoInstance.HideBanner = true
	p.echoInstance.Debug = false

	p.echoInstance.HTTPErrorHandler = customHTTPErrorHandler

	// Middlewares

	p.echoInstance.Use(echo_middleware.Logger())

	p.echoInstance.Use(contextServiceMiddleware)

	router.SetRouter(p.echoInstance, engineService, multisigService, schedulerService, cfg, sp)

	return nil
}

func (p *RESTApiProvider) Start() error {
	return p.echoInstance.Start(p.config.ListenAddr)
}

func (p *RESTApiProvider) Stop(ctx context.Context) error {
	return p.echoInstance.Shutdown(ctx)
}
