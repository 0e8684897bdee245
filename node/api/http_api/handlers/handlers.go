package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/hoepeyemi/fusee-sub001/governance/types"
	"github.com/hoepeyemi/fusee-sub001/node/config"
	"github.com/hoepeyemi/fusee-sub001/node/modules/keystore"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/engine"
	"github.com/hoepeyemi/fusee-sub001/node/services/multisig"
	"github.com/hoepeyemi/fusee-sub001/node/services/scheduler"
	"github.com/hoepeyemi/fusee-sub001/node/services/signers"
	"github.com/hoepeyemi/fusee-sub001/store"
)

type HTTPApp struct {
	engine    engine.EngineService
	multisig  multisig.MultisigService
	scheduler scheduler.SchedulerService
	signers   signers.SignersService
	config    *config.Config
	keyStore  keystore.KeyStore
	startedAt time.Time
}

func NewHTTPApp(
	engineService engine.EngineService,
	multisigService multisig.MultisigService,
	schedulerService scheduler.SchedulerService,
	cfg *config.Config,
	sp *services.ServiceProvider,
) *HTTPApp {
	return &HTTPApp{
		engine:    engineService,
		multisig:  multisigService,
		scheduler: schedulerService,
		signers:   sp.GetSignersService(),
		config:    cfg,
		keyStore:  sp.GetKeyStore(),
		startedAt: time.Now().UTC(),
	}
}

// errStatus maps service errors to HTTP statuses. Operation error kinds are
// part of the API contract; anything unrecognized is an internal error.
func errStatus(err error) int {
	switch types.KindOf(err) {
	case types.ErrKindValidation, types.ErrKindThresholdTooHigh:
		return http.StatusBadRequest
	case types.ErrKindNotFound:
		return http.StatusNotFound
	case types.ErrKindCapabilityMissing, types.ErrKindMemberInactive:
		return http.StatusForbidden
	case types.ErrKindAlreadyVoted, types.ErrKindProposalNotPending,
		types.ErrKindNotApproved, types.ErrKindAlreadyExecuted:
		return http.StatusConflict
	case types.ErrKindTimeLocked:
		return http.StatusLocked
	case types.ErrKindExecutionFailed, types.ErrKindExecutionAmbiguous:
		return http.StatusBadGateway
	}

	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
