package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownFamily is matched by errors.Is for unregistered family selectors.
var ErrUnknownFamily = errors.New("unknown survey family")

// ConfigurationError is a deployment defect: an unknown family or a
// malformed registry entry. It is never recovered from.
type ConfigurationError struct {
	Family string
	Reason string
	err    error
}

func (e *ConfigurationError) Error() string {
	if e.Family == "" {
		return fmt.Sprintf("schema configuration: %s", e.Reason)
	}
	return fmt.Sprintf("schema configuration (%s): %s", e.Family, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.err }

func unknownFamily(selector string) error {
	return &ConfigurationError{
		Family: selector,
		Reason: "family is not registered",
		err:    ErrUnknownFamily,
	}
}
