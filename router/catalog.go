package router

import (
	"fmt"
	"strings"
)

// ToolDescriptor describes one selectable tool.
type ToolDescriptor struct {
	Name        string
	Capability  Capability
	Description string
}

// Catalog is the fixed, ordered set of tools a Router may select.
// A Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	tools  []ToolDescriptor
	byName map[string]ToolDescriptor
}

// NewCatalog builds a catalog. Names and capabilities must be unique and
// every capability must be resolved.
func NewCatalog(tools ...ToolDescriptor) (*Catalog, error) {
	c := &Catalog{
		tools:  make([]ToolDescriptor, 0, len(tools)),
		byName: make(map[string]ToolDescriptor, len(tools)),
	}
	seen := make(map[Capability]bool, len(tools))
	for _, t := range tools {
		switch {
		case t.Name == "" || strings.TrimSpace(t.Name) != t.Name:
			return nil, fmt.Errorf("%w: name %q must be non-empty without surrounding space", ErrInvalidDescriptor, t.Name)
		case !t.Capability.Resolved():
			return nil, fmt.Errorf("%w: %q has no capability", ErrInvalidDescriptor, t.Name)
		case seen[t.Capability]:
			return nil, fmt.Errorf("%w: capability %s listed twice", ErrInvalidDescriptor, t.Capability)
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("%w: name %q listed twice", ErrInvalidDescriptor, t.Name)
		}
		seen[t.Capability] = true
		c.byName[t.Name] = t
		c.tools = append(c.tools, t)
	}
	return c, nil
}

// DefaultCatalog returns the standard four tools for an organization.
func DefaultCatalog(organization string) *Catalog {
	if organization == "" {
		organization = "the company"
	}
	c, err := NewCatalog(
		ToolDescriptor{
			Name:        "Founder/Employee Info",
			Capability:  FounderInfo,
			Description: "for questions about specific employees or founders.",
		},
		ToolDescriptor{
			Name:        "Company References (SQLite)",
			Capability:  BlogReferences,
			Description: "for general company knowledge, services, articles, and references.",
		},
		ToolDescriptor{
			Name:        "Jobs Scraper",
			Capability:  JobListings,
			Description: "for job postings and job requirements.",
		},
		ToolDescriptor{
			Name:        "Service Offerings",
			Capability:  ServiceOffering,
			Description: fmt.Sprintf("Use this if the user asks about what services %s provides, workflow or FAQs.", organization),
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the tool whose name is exactly name.
func (c *Catalog) Lookup(name string) (ToolDescriptor, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Descriptor returns the tool registered for capability.
func (c *Catalog) Descriptor(capability Capability) (ToolDescriptor, bool) {
	for _, t := range c.tools {
		if t.Capability == capability {
			return t, true
		}
	}
	return ToolDescriptor{}, false
}

// Names returns the tool names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		names = append(names, t.Name)
	}
	return names
}

// Tools returns a copy of the descriptors in catalog order.
func (c *Catalog) Tools() []ToolDescriptor {
	return append([]ToolDescriptor(nil), c.tools...)
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}
