package dashboard

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// SectionManifestDocument models a YAML manifest describing dashboard
// sections and their provider settings.
type SectionManifestDocument struct {
	Version  string            `json:"version" yaml:"version"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string            `json:"package,omitempty" yaml:"package,omitempty"`
	Sections []ManifestSection `json:"sections" yaml:"sections"`
	Source   string            `json:"-" yaml:"-"`
}

// ManifestSection describes a single section entry within a manifest.
type ManifestSection struct {
	Definition SectionDefinition `json:"definition" yaml:"definition"`
	Settings   map[string]any    `json:"settings,omitempty" yaml:"settings,omitempty"`
	Tags       []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the
// registry, and returns the document.
func (r *Registry) LoadManifestFile(path string, validator ConfigValidator) (*SectionManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc, validator); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and settings from a decoded
// manifest. Settings are validated against the section schema first.
func (r *Registry) LoadManifestDocument(doc *SectionManifestDocument, validator ConfigValidator) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	if validator == nil {
		validator = noopConfigValidator{}
	}
	for _, section := range doc.Sections {
		def := section.Definition
		if existing, ok := r.Definition(def.Code); ok {
			def = mergeDefinitions(existing, def)
		}
		if err := validator.Validate(def, section.Settings); err != nil {
			return fmt.Errorf("dashboard: manifest %s: %w", doc.Source, err)
		}
		if err := r.RegisterDefinition(def); err != nil {
			return fmt.Errorf("dashboard: register section %s from %s: %w", def.Code, doc.Source, err)
		}
		r.recordSettings(def.Code, section.Settings)
	}
	return nil
}

// mergeDefinitions overlays manifest-supplied metadata on a registered
// definition, keeping registered fields the manifest omits.
func mergeDefinitions(base, overlay SectionDefinition) SectionDefinition {
	out := base
	if overlay.Name != "" {
		out.Name = overlay.Name
	}
	if overlay.Description != "" {
		out.Description = overlay.Description
	}
	if overlay.Category != "" {
		out.Category = overlay.Category
	}
	if overlay.Icon != "" {
		out.Icon = overlay.Icon
	}
	if len(overlay.Schema) > 0 {
		out.Schema = overlay.Schema
	}
	if overlay.Section != "" {
		out.Section = overlay.Section
	}
	return out
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*SectionManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*SectionManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc SectionManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *SectionManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Sections))
	for idx, section := range doc.Sections {
		if section.Definition.Code == "" {
			return fmt.Errorf("dashboard: manifest section at index %d is missing definition.code", idx)
		}
		if _, exists := seen[section.Definition.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates section code %s", section.Definition.Code)
		}
		seen[section.Definition.Code] = struct{}{}
	}
	return nil
}

func (doc *SectionManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Sections {
		def := &doc.Sections[i].Definition
		if def.Section == "" {
			if section, ok := SectionByCode(def.Code); ok {
				def.Section = section
			}
		}
		if def.Name == "" && def.Section != "" {
			def.Name = string(def.Section)
		}
	}
}
