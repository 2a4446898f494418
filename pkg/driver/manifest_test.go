package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "snippets.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestValid(t *testing.T) {
	path := writeManifest(t, `
name: demo-shading-snippets
version: "0.1.0"
snippets:
  noise:
    git: https://example.com/shading-snippets.git
    rev: main
    subdir: noise
  fresnel:
    git: https://example.com/shading-snippets.git
    rev: v1.2.0
    subdir: optics/fresnel
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "demo-shading-snippets" {
		t.Fatalf("unexpected name %q", m.Name)
	}
	if len(m.SnippetOrder) != 2 || m.SnippetOrder[0] != "noise" || m.SnippetOrder[1] != "fresnel" {
		t.Fatalf("unexpected snippet order %v", m.SnippetOrder)
	}
	spec, ok := m.FindSnippet("fresnel")
	if !ok {
		t.Fatal("expected to find fresnel")
	}
	if spec.Rev != "v1.2.0" || spec.Subdir != "optics/fresnel" {
		t.Fatalf("unexpected spec %+v", spec)
	}
}

func TestLoadManifestMissingName(t *testing.T) {
	path := writeManifest(t, `
version: "0.1.0"
snippets: {}
`)
	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected a validation error for missing name")
	}
}

func TestLoadManifestSnippetMissingRev(t *testing.T) {
	path := writeManifest(t, `
name: demo
snippets:
  noise:
    git: https://example.com/shading-snippets.git
`)
	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected a validation error for missing rev")
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: demo
bogus_field: 1
snippets: {}
`)
	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected an error for an unknown top-level field")
	}
}

func TestLoadManifestEmptyPath(t *testing.T) {
	if _, err := LoadManifest(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestSanitizeSegment(t *testing.T) {
	cases := map[string]string{
		"v1.2.0":       "v1.2.0",
		"refs/heads/x": "refs_heads_x",
		"":             "_",
	}
	for in, want := range cases {
		if got := sanitizeSegment(in); got != want {
			t.Fatalf("sanitizeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
