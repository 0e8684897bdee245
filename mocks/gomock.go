package mocks

//go:generate mockgen -source=./../store/types.go -destination=./storeMocks/store_mock.go -package=storeMocks
//go:generate mockgen -source=./../gateway/types.go -destination=./gatewayMocks/gateway_mock.go -package=gatewayMocks
//go:generate mockgen -source=./../events/types.go -destination=./eventMocks/events_mock.go -package=eventMocks
