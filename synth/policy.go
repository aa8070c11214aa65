package synth

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Defaults for the confidence policy.
const (
	DefaultMarker    = "I don't know"
	DefaultMinLength = 5
)

// Policy decides whether a model reply is confident enough to return.
// A reply is unconfident when it contains Marker or its trimmed length is
// below MinLength runes.
type Policy struct {
	Marker    string
	MinLength int
}

// DefaultPolicy returns the standard confidence policy.
func DefaultPolicy() Policy {
	return Policy{Marker: DefaultMarker, MinLength: DefaultMinLength}
}

// Validate checks the policy.
func (p Policy) Validate() error {
	if p.MinLength < 0 {
		return fmt.Errorf("%w: min length must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// Confident reports whether answer passes the policy.
// An empty Marker disables the marker check.
func (p Policy) Confident(answer string) bool {
	if p.Marker != "" && strings.Contains(answer, p.Marker) {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(answer)) >= p.MinLength
}

// Messages are the fixed texts returned instead of a model answer.
type Messages struct {
	Referral string // low-confidence reply
	Apology  string // model failure
	NoSource string // no tool could be selected
}

// DefaultMessages returns the standard messages for an organization.
func DefaultMessages(organization, website string) Messages {
	return Messages{
		Referral: fmt.Sprintf("I'm not entirely sure, but you can check out %s's website for more details.\n\n[%s Website](%s)",
			organization, organization, website),
		Apology:  "I'm currently unable to process your request. Please try again later.",
		NoSource: "I couldn't determine the best source for your query.",
	}
}

// withDefaults fills empty fields from d.
func (m Messages) withDefaults(d Messages) Messages {
	if m.Referral == "" {
		m.Referral = d.Referral
	}
	if m.Apology == "" {
		m.Apology = d.Apology
	}
	if m.NoSource == "" {
		m.NoSource = d.NoSource
	}
	return m
}
