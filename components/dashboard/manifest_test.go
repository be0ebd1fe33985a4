package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
name: household-pack
sections:
  - definition:
      code: finance.section.bills
      name: Household Bills
      description: Bills for the shared household account.
    settings:
      include_paid: false
    tags: ["household"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)

	section := doc.Sections[0]
	assert.Equal(t, "finance.section.bills", section.Definition.Code)
	assert.Equal(t, "Household Bills", section.Definition.Name)
	assert.Equal(t, SectionBills, section.Definition.Section)
	assert.Equal(t, false, section.Settings["include_paid"])
}

func TestDecodeManifestRejectsUnknownVersion(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(`version: "9"` + "\nsections: []\n"))
	require.Error(t, err)
}

func TestDecodeManifestRejectsDuplicates(t *testing.T) {
	const payload = `
version: "1"
sections:
  - definition:
      code: finance.section.bills
  - definition:
      code: finance.section.bills
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &SectionManifestDocument{
		Version: manifestVersionV1,
		Sections: []ManifestSection{
			{
				Definition: SectionDefinition{Code: SectionCode(SectionScheduledPayments)},
				Settings:   map[string]any{"limit": 3},
			},
		},
	}
	reg := NewRegistry()

	err := reg.LoadManifestDocument(doc, NewJSONSchemaValidator())
	require.NoError(t, err)

	def, ok := reg.Definition(SectionCode(SectionScheduledPayments))
	require.True(t, ok)
	assert.Equal(t, SectionScheduledPayments, def.Section)
	assert.Equal(t, "Scheduled Payments", def.Name)

	settings, ok := reg.Settings(SectionCode(SectionScheduledPayments))
	require.True(t, ok)
	assert.Equal(t, 3, settings["limit"])
}

func TestRegistryLoadManifestRejectsInvalidSettings(t *testing.T) {
	doc := &SectionManifestDocument{
		Version: manifestVersionV1,
		Sections: []ManifestSection{
			{
				Definition: SectionDefinition{Code: SectionCode(SectionScheduledPayments)},
				Settings:   map[string]any{"limit": 100},
			},
		},
	}
	reg := NewRegistry()

	err := reg.LoadManifestDocument(doc, NewJSONSchemaValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}
