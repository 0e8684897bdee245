package responses

import "time"

// BaseResponse is the envelope every endpoint answers with. Clients check
// ErrorMessage before touching Result.
type BaseResponse struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

type ServiceInfoResponse struct {
	NodeName     string    `json:"node_name"`
	PubKey       string    `json:"pub_key"`
	StoreDriver  string    `json:"store_driver"`
	StartedAt    time.Time `json:"started_at"`
	SweepEnabled bool      `json:"sweep_enabled"`
}
