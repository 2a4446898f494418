// Package driver implements the two pieces of host-side plumbing a
// command-line demo needs around the core expression engine: loading a
// manifest that names a set of git-hosted shading snippets, and
// fetching those snippets onto disk so their source text can be read
// and handed to Expression.SetExpression.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of a snippets.yml file: a named
// collection of shading-expression snippets, each sourced from a git
// repository.
type Manifest struct {
	Path     string
	Name     string
	Version  string
	Snippets map[string]*SnippetSpec

	// SnippetOrder preserves declaration order from the YAML document,
	// the way the teacher's manifest preserves target declaration order.
	SnippetOrder []string
}

// SnippetSpec describes where to fetch one named snippet from.
type SnippetSpec struct {
	Name   string
	Git    string
	Rev    string
	Subdir string
}

// ValidationError aggregates every manifest validation failure found,
// rather than stopping at the first one.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses a snippets.yml manifest from disk and validates it.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for _, name := range m.SnippetOrder {
		spec := m.Snippets[name]
		if spec == nil {
			continue
		}
		if spec.Git == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("snippets.%s: git must be provided", name))
		}
		if spec.Rev == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("snippets.%s: rev must be provided", name))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// FindSnippet looks up a snippet by name.
func (m *Manifest) FindSnippet(name string) (*SnippetSpec, bool) {
	if m == nil {
		return nil, false
	}
	spec, ok := m.Snippets[name]
	return spec, ok
}

type manifestFile struct {
	Name     string      `yaml:"name"`
	Version  string      `yaml:"version"`
	Snippets snippetMap  `yaml:"snippets"`
}

func (r *manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:     path,
		Name:     r.Name,
		Version:  r.Version,
		Snippets: make(map[string]*SnippetSpec, len(r.Snippets.items)),
	}
	for _, entry := range r.Snippets.items {
		spec := &SnippetSpec{
			Name:   entry.name,
			Git:    entry.spec.Git,
			Rev:    entry.spec.Rev,
			Subdir: entry.spec.Subdir,
		}
		m.Snippets[entry.name] = spec
		m.SnippetOrder = append(m.SnippetOrder, entry.name)
	}
	return m
}

// snippetYAML is the raw per-entry shape decoded from the mapping.
type snippetYAML struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Subdir string `yaml:"subdir"`
}

// snippetMap decodes a YAML mapping while preserving key order, since
// plain map[string]T discards it.
type snippetMap struct {
	items []snippetMapEntry
}

type snippetMapEntry struct {
	name string
	spec *snippetYAML
}

func (sm *snippetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		sm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		sm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: snippets must be a mapping")
	}
	items := make([]snippetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: snippets must not use empty keys")
		}
		entry := new(snippetYAML)
		if err := valueNode.Decode(entry); err != nil {
			return fmt.Errorf("manifest: snippet %q: %w", key, err)
		}
		items = append(items, snippetMapEntry{name: key, spec: entry})
	}
	sm.items = items
	return nil
}
