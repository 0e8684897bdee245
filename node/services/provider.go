// Package services wires the node's infrastructure into one provider that
// the governance services pull their dependencies from. The provider carries
// no logic: cmd builds the concrete drivers, tests set fakes.
package services

import (
	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/gateway"
	"github.com/hoepeyemi/fusee-sub001/node/modules/keystore"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/node/services/signers"
	"github.com/hoepeyemi/fusee-sub001/store"
)

type ServiceProvider struct {
	logger         logger.Logger
	store          store.Store
	gateway        gateway.Gateway
	publisher      events.Publisher
	keyStore       keystore.KeyStore
	signersService signers.SignersService
}

func (p *ServiceProvider) SetLogger(log logger.Logger) {
	p.logger = log
}

func (p *ServiceProvider) GetLogger() logger.Logger {
	return p.logger
}

func (p *ServiceProvider) SetStore(stg store.Store) {
	p.store = stg
}

func (p *ServiceProvider) GetStore() store.Store {
	return p.store
}

func (p *ServiceProvider) SetGateway(gw gateway.Gateway) {
	p.gateway = gw
}

func (p *ServiceProvider) GetGateway() gateway.Gateway {
	return p.gateway
}

func (p *ServiceProvider) SetPublisher(publisher events.Publisher) {
	p.publisher = publisher
}

func (p *ServiceProvider) GetPublisher() events.Publisher {
	return p.publisher
}

func (p *ServiceProvider) SetKeyStore(ks keystore.KeyStore) {
	p.keyStore = ks
}

func (p *ServiceProvider) GetKeyStore() keystore.KeyStore {
	return p.keyStore
}

func (p *ServiceProvider) SetSignersService(svc signers.SignersService) {
	p.signersService = svc
}

func (p *ServiceProvider) GetSignersService() signers.SignersService {
	return p.signersService
}
