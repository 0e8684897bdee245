package config

import "time"

const (
	MultisigMembersMinCount = 1
	MultisigThresholdMin    = 1

	ProposalExpiryPeriod = time.Hour * 24 * 7

	InactivityFlagThreshold    = time.Hour * 24
	InactivityRemovalThreshold = time.Hour * 48

	DefaultFeeBps = 25
)

// SupportedCurrencies is the closed set of assets the platform custodies.
// Proposals in any other currency are rejected at validation.
var SupportedCurrencies = []string{"USDC", "USDT", "SOL"}

func CurrencySupported(code string) bool {
	for _, currency := range SupportedCurrencies {
		if code == currency {
			return true
		}
	}
	return false
}
