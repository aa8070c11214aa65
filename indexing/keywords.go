package indexing

import (
	"regexp"
	"strings"
)

// DefaultKeyword is assigned when no vocabulary term matches.
const DefaultKeyword = "miscellaneous"

// referenceTerms mark client references, case studies and testimonials.
var referenceTerms = []string{"case study", "testimonial", "client", "reference", "feedback"}

// Vocabulary is a fixed list of keywords matched as whole words.
type Vocabulary struct {
	terms    []string
	patterns []*regexp.Regexp
}

// NewVocabulary compiles terms. Terms are lowercased; blanks and
// duplicates are dropped.
func NewVocabulary(terms ...string) *Vocabulary {
	v := &Vocabulary{}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		v.terms = append(v.terms, term)
		v.patterns = append(v.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return v
}

// StandardKeywords returns the vocabulary of service names plus the
// client reference terms.
func StandardKeywords(serviceNames []string) *Vocabulary {
	return NewVocabulary(append(append([]string(nil), serviceNames...), referenceTerms...)...)
}

// Terms returns the vocabulary in order.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Extract returns the terms occurring in text as whole words, in
// vocabulary order, or DefaultKeyword when none do.
func (v *Vocabulary) Extract(text string) []string {
	text = strings.ToLower(text)
	var found []string
	for i, re := range v.patterns {
		if re.MatchString(text) {
			found = append(found, v.terms[i])
		}
	}
	if len(found) == 0 {
		return []string{DefaultKeyword}
	}
	return found
}
