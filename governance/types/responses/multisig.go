package responses

import "github.com/hoepeyemi/fusee-sub001/governance/types"

// Response

type MultisigInfoResponse struct {
	Multisig *types.Multisig `json:"multisig"`
	Members  []*types.Member `json:"members"`
}
