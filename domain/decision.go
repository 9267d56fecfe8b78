package domain

import (
	"fmt"
	"strings"
)

// Decision is a player choice for the active hand
type Decision string

const (
	DecisionHit   Decision = "hit"
	DecisionStand Decision = "stand"
	DecisionSplit Decision = "split"
)

// ParseDecision accepts the decision names, case-insensitively
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionHit, DecisionStand, DecisionSplit:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown decision %q", ErrIllegalDecision, s)
	}
}

// In reports whether d is one of options
func (d Decision) In(options []Decision) bool {
	for _, o := range options {
		if o == d {
			return true
		}
	}
	return false
}
