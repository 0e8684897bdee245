package requests

import (
	"errors"
	"fmt"

	"github.com/hoepeyemi/fusee-sub001/governance/config"
	"github.com/hoepeyemi/fusee-sub001/governance/types"
)

func (r *MultisigCreateRequest) Validate() error {
	if len(r.Name) < 3 {
		return errors.New("{Name} minimum length is {3}")
	}

	if len(r.Name) > 150 {
		return errors.New("{Name} maximum length is {150}")
	}

	if len(r.Members) < config.MultisigMembersMinCount {
		return fmt.Errorf("too few members, minimum is {%d}", config.MultisigMembersMinCount)
	}

	if r.Threshold < config.MultisigThresholdMin {
		return fmt.Errorf("{Threshold} minimum is {%d}", config.MultisigThresholdMin)
	}

	if r.Threshold > len(r.Members) {
		return errors.New("{Threshold} cannot be higher than {MembersCount}")
	}

	if r.TimeLockSeconds < 0 {
		return errors.New("{TimeLockSeconds} cannot be a negative number")
	}

	if r.FeeBps < 0 {
		return errors.New("{FeeBps} cannot be a negative number")
	}

	seenKeys := make(map[string]struct{}, len(r.Members))
	for _, member := range r.Members {
		if err := member.Validate(); err != nil {
			return err
		}

		if _, ok := seenKeys[member.PublicKey]; ok {
			return fmt.Errorf("duplicate member public key %q", member.PublicKey)
		}
		seenKeys[member.PublicKey] = struct{}{}
	}

	if r.CreatedAt.IsZero() {
		return errors.New("{CreatedAt} is not set")
	}

	return nil
}

func (e *MultisigMemberEntry) Validate() error {
	if len(e.PublicKey) < 32 {
		return errors.New("{PublicKey} too short")
	}

	if len(e.Name) < 1 {
		return errors.New("{Name} is not set")
	}

	if len(e.Name) > 150 {
		return errors.New("{Name} maximum length is {150}")
	}

	if _, err := types.ParseCapabilities(e.Capabilities); err != nil {
		return err
	}

	return nil
}

func (r *SignerAddRequest) Validate() error {
	if len(r.MultisigID) == 0 {
		return errors.New("{MultisigID} is not set")
	}

	entry := MultisigMemberEntry{
		PublicKey:    r.PublicKey,
		Name:         r.Name,
		Capabilities: r.Capabilities,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	if r.CreatedAt.IsZero() {
		return errors.New("{CreatedAt} is not set")
	}

	return nil
}
