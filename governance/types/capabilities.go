package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Capability is a single permission a member holds on its multisig.
type Capability uint8

const (
	CapabilityPropose Capability = 1 << iota
	CapabilityVote
	CapabilityExecute
)

const (
	capabilityProposeName = "propose"
	capabilityVoteName    = "vote"
	capabilityExecuteName = "execute"
)

var capabilityNames = map[Capability]string{
	CapabilityPropose: capabilityProposeName,
	CapabilityVote:    capabilityVoteName,
	CapabilityExecute: capabilityExecuteName,
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown capability %d", uint8(c))
}

// ParseCapability accepts only the canonical lower-case names. Unknown or
// misspelled names are an error, not a silently dropped permission.
func ParseCapability(name string) (Capability, error) {
	switch name {
	case capabilityProposeName:
		return CapabilityPropose, nil
	case capabilityVoteName:
		return CapabilityVote, nil
	case capabilityExecuteName:
		return CapabilityExecute, nil
	default:
		return 0, fmt.Errorf("unknown capability %q", name)
	}
}

// CapabilitySet is a bitmask of capabilities. It marshals to and from a JSON
// array of canonical names so stored rows and API payloads stay readable.
type CapabilitySet uint8

// AllCapabilities grants everything a member can do.
const AllCapabilities = CapabilitySet(CapabilityPropose | CapabilityVote | CapabilityExecute)

func NewCapabilitySet(capabilities ...Capability) CapabilitySet {
	var set CapabilitySet
	for _, c := range capabilities {
		set.Add(c)
	}
	return set
}

// ParseCapabilities folds canonical names into a set, rejecting unknown names
// and duplicates.
func ParseCapabilities(names []string) (CapabilitySet, error) {
	var set CapabilitySet
	for _, name := range names {
		c, err := ParseCapability(name)
		if err != nil {
			return 0, err
		}
		if set.Has(c) {
			return 0, fmt.Errorf("duplicate capability %q", name)
		}
		set.Add(c)
	}
	return set, nil
}

func (s CapabilitySet) Has(c Capability) bool {
	return uint8(s)&uint8(c) != 0
}

func (s *CapabilitySet) Add(c Capability) {
	*s = CapabilitySet(uint8(*s) | uint8(c))
}

// Names returns the canonical names of the granted capabilities in declaration
// order.
func (s CapabilitySet) Names() []string {
	names := make([]string, 0, 3)
	for _, c := range []Capability{CapabilityPropose, CapabilityVote, CapabilityExecute} {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

func (s CapabilitySet) String() string {
	return strings.Join(s.Names(), ",")
}

func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *CapabilitySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("failed to unmarshal capability names: %w", err)
	}
	set, err := ParseCapabilities(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
