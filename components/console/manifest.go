package console

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

// ConsoleManifestDocument models a YAML/JSON manifest describing admin
// collections.
type ConsoleManifestDocument struct {
	Version     string               `json:"version" yaml:"version"`
	Name        string               `json:"name,omitempty" yaml:"name,omitempty"`
	Package     string               `json:"package,omitempty" yaml:"package,omitempty"`
	Collections []ManifestCollection `json:"collections" yaml:"collections"`
	Source      string               `json:"-" yaml:"-"`
}

// ManifestCollection describes a single collection entry within a manifest.
type ManifestCollection struct {
	Descriptor  Descriptor `json:"descriptor" yaml:"descriptor"`
	Maintainers []string   `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the
// registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ConsoleManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers descriptors from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ConsoleManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("console: manifest document is nil")
	}
	for _, collection := range doc.Collections {
		if err := r.RegisterDescriptor(collection.Descriptor); err != nil {
			return fmt.Errorf("console: register collection %s from %s: %w", collection.Descriptor.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ConsoleManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("console: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("console: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ConsoleManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ConsoleManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("console: manifest is empty")
		}
		return nil, fmt.Errorf("console: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ConsoleManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("console: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Collections))
	for idx, collection := range doc.Collections {
		desc := collection.Descriptor
		if desc.Code == "" {
			return fmt.Errorf("console: manifest collection at index %d is missing descriptor.code", idx)
		}
		if desc.Name == "" {
			return fmt.Errorf("console: manifest collection %s missing descriptor.name", desc.Code)
		}
		if desc.ListPath == "" {
			return fmt.Errorf("console: manifest collection %s missing descriptor.list_path", desc.Code)
		}
		if _, exists := seen[desc.Code]; exists {
			return fmt.Errorf("console: manifest duplicates collection code %s", desc.Code)
		}
		seen[desc.Code] = struct{}{}
		for _, action := range desc.Actions {
			if action.Kind == "" {
				return fmt.Errorf("console: collection %s declares an action without a kind", desc.Code)
			}
			switch action.Policy {
			case ApplyPolicyPatch, ApplyPolicyRefetch:
			default:
				return fmt.Errorf("console: action %s on %s has invalid policy %q", action.Kind, desc.Code, action.Policy)
			}
		}
	}
	return nil
}

func (doc *ConsoleManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
