package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog("Acme")
	assert.Equal(t, []string{
		"Founder/Employee Info",
		"Company References (SQLite)",
		"Jobs Scraper",
		"Service Offerings",
	}, c.Names())
	assert.Equal(t, 4, c.Len())

	for _, capability := range Capabilities {
		d, ok := c.Descriptor(capability)
		require.True(t, ok, capability.String())
		found, ok := c.Lookup(d.Name)
		require.True(t, ok)
		assert.Equal(t, capability, found.Capability)
	}

	_, ok := c.Descriptor(Unresolved)
	assert.False(t, ok)
}

func TestCatalogLookupIsExact(t *testing.T) {
	c := DefaultCatalog("Acme")
	for _, name := range []string{"founder info", "Founder/Employee Info ", "FOUNDER/EMPLOYEE INFO", ""} {
		_, ok := c.Lookup(name)
		assert.False(t, ok, "%q", name)
	}
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name  string
		tools []ToolDescriptor
	}{
		{"empty name", []ToolDescriptor{{Name: "", Capability: FounderInfo}}},
		{"padded name", []ToolDescriptor{{Name: " Jobs", Capability: JobListings}}},
		{"unresolved capability", []ToolDescriptor{{Name: "Nothing"}}},
		{"duplicate name", []ToolDescriptor{
			{Name: "Same", Capability: FounderInfo},
			{Name: "Same", Capability: JobListings},
		}},
		{"duplicate capability", []ToolDescriptor{
			{Name: "One", Capability: JobListings},
			{Name: "Two", Capability: JobListings},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.tools...)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}

	t.Run("custom catalog", func(t *testing.T) {
		c, err := NewCatalog(ToolDescriptor{Name: "Team", Capability: FounderInfo, Description: "people"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Team"}, c.Names())
	})
}

func TestCapabilityString(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "founder_info", FounderInfo.String())
	assert.Equal(t, "blog_references", BlogReferences.String())
	assert.Equal(t, "job_listings", JobListings.String())
	assert.Equal(t, "service_offering", ServiceOffering.String())
	assert.Equal(t, "unresolved", Capability(99).String())
}
