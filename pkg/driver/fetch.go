package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetcher checks out named snippets from their git sources into a
// cache directory on disk, adapted from the teacher's dependency
// fetcher (ensureGitCheckout): clone to a temp dir, resolve the
// revision, check it out, then rename into its final, revision-keyed
// location so a repeat fetch of the same revision is a no-op.
type Fetcher struct {
	cacheDir string
}

// NewFetcher returns a Fetcher that caches checkouts under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{cacheDir: cacheDir}
}

// Fetch ensures spec's revision is checked out locally and returns the
// directory containing its snippet source (spec.Subdir within the
// checkout, or the checkout root if Subdir is empty).
func (f *Fetcher) Fetch(spec *SnippetSpec) (string, error) {
	if f == nil {
		return "", fmt.Errorf("fetch %s: fetcher unavailable", spec.Name)
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return "", fmt.Errorf("fetch %s: git URL required", spec.Name)
	}
	rev := strings.TrimSpace(spec.Rev)
	if rev == "" {
		return "", fmt.Errorf("fetch %s: rev required", spec.Name)
	}

	baseDir := filepath.Join(f.cacheDir, sanitizeSegment(spec.Name))
	checkoutDir, err := f.ensureCheckout(baseDir, url, rev)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", spec.Name, err)
	}
	if spec.Subdir == "" {
		return checkoutDir, nil
	}
	return filepath.Join(checkoutDir, spec.Subdir), nil
}

func (f *Fetcher) ensureCheckout(baseDir, url, rev string) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}
	targetDir := filepath.Join(baseDir, sanitizeSegment(rev))
	if _, err := os.Stat(targetDir); err == nil {
		return targetDir, nil
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:   url,
		Depth: 0,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", rev, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", rev, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return targetDir, nil
}

// sanitizeSegment maps name into a safe path component, the way the
// teacher's fetcher keys its on-disk cache by dependency name/version.
func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "_"
	}
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "_"
	}
	return result
}
