package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ServiceCatalog is the services document loaded at startup.
type ServiceCatalog struct {
	text  string
	names []string
}

// LoadServiceCatalog reads and validates the services JSON file.
func LoadServiceCatalog(path string) (*ServiceCatalog, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading services: %w", err)
	}
	return ParseServiceCatalog(data)
}

// ParseServiceCatalog parses a services JSON document. Service names are
// the keys of its "services" object when present.
func ParseServiceCatalog(data []byte) (*ServiceCatalog, error) {
	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(data), "", "  "); err != nil {
		return nil, fmt.Errorf("parsing services: %w", err)
	}

	var doc struct {
		Services map[string]json.RawMessage `json:"services"`
	}
	names := []string{}
	if err := json.Unmarshal(data, &doc); err == nil {
		for name := range doc.Services {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	return &ServiceCatalog{text: indented.String(), names: names}, nil
}

// Text returns the document as indented JSON.
func (c *ServiceCatalog) Text() string {
	return c.text
}

// Names returns the service names, sorted.
func (c *ServiceCatalog) Names() []string {
	return append([]string(nil), c.names...)
}

// ServiceOffering serves the services catalog.
type ServiceOffering struct {
	catalog *ServiceCatalog
}

// NewServiceOffering creates the services tool.
func NewServiceOffering(catalog *ServiceCatalog) (*ServiceOffering, error) {
	if catalog == nil {
		return nil, ErrServiceCatalogRequired
	}
	return &ServiceOffering{catalog: catalog}, nil
}

// Invoke returns the catalog as text.
func (s *ServiceOffering) Invoke(_ context.Context, _ string) (any, error) {
	return s.catalog.Text(), nil
}
