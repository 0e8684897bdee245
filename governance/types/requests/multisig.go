package requests

import "time"

// Requests

type MultisigCreateRequest struct {
	Name            string
	Threshold       int
	TimeLockSeconds int64
	FeeBps          int64
	Members         []*MultisigMemberEntry
	CreatedAt       time.Time
}

type MultisigMemberEntry struct {
	// Ledger public key identifying the signer, such as a vault owner key
	PublicKey    string
	Name         string
	Capabilities []string
}

type SignerAddRequest struct {
	MultisigID   string
	PublicKey    string
	Name         string
	Capabilities []string
	CreatedAt    time.Time
}
