// Package assembler turns raw tool output into the context text handed to
// answer synthesis.
package assembler

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Assembler serializes tool output. The zero value is ready to use.
type Assembler struct {
	maxRunes int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithMaxRunes caps the context at n runes. Zero, the default, means no cap.
func WithMaxRunes(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.maxRunes = n
		}
	}
}

// New creates an assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders output as context text. Strings are used verbatim;
// anything else is serialized as JSON indented by two spaces.
func (a *Assembler) Assemble(output any) (string, error) {
	var text string
	switch v := output.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serializing tool output: %w", err)
		}
		text = string(data)
	}
	return a.truncate(text), nil
}

func (a *Assembler) truncate(text string) string {
	if a.maxRunes <= 0 || utf8.RuneCountInString(text) <= a.maxRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == a.maxRunes {
			return text[:i]
		}
		n++
	}
	return text
}
