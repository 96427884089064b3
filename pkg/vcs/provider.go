package vcs

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
)

// ContentProvider answers the two questions selective reformatting asks of
// version control.
type ContentProvider interface {
	// Lines returns the content of path at rev. A path that does not exist
	// at rev yields an empty document.
	Lines(ctx context.Context, path, rev string) (*textdoc.Document, error)

	// ModifiedPaths returns the subset of paths changed between the two
	// revisions of rng, including new untracked files when rng ends at the
	// working tree.
	ModifiedPaths(ctx context.Context, paths []string, rng RevisionRange) ([]string, error)
}

// Compile-time interface checks.
var (
	_ ContentProvider = (*Git)(nil)
	_ ContentProvider = (*Memory)(nil)
)

// Cache memoizes revision content and resolved revision names for one
// invocation. It is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	contents  map[contentKey]*textdoc.Document
	revisions map[string]string
}

type contentKey struct {
	rev  string
	path string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		contents:  make(map[contentKey]*textdoc.Document),
		revisions: make(map[string]string),
	}
}

func (c *Cache) content(rev, path string) (*textdoc.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.contents[contentKey{rev: rev, path: path}]
	return doc, ok
}

func (c *Cache) storeContent(rev, path string, doc *textdoc.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.contents[contentKey{rev: rev, path: path}] = doc
}

func (c *Cache) revision(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash, ok := c.revisions[name]
	return hash, ok
}

func (c *Cache) storeRevision(name, hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.revisions[name] = hash
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.contents)
}

// Memory is a ContentProvider backed by in-memory content, used when there is
// no repository to ask, such as for content piped through standard input
// with an explicit baseline, and in tests.
type Memory struct {
	mu       sync.RWMutex
	contents map[contentKey]string
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{contents: make(map[contentKey]string)}
}

// Set records the content of path at rev.
func (m *Memory) Set(rev, path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contents[contentKey{rev: rev, path: path}] = content
}

// Lines implements ContentProvider.
func (m *Memory) Lines(ctx context.Context, path, rev string) (*textdoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.contents[contentKey{rev: rev, path: path}]
	if !ok {
		return textdoc.Empty(), nil
	}
	return textdoc.FromString(content), nil
}

// ModifiedPaths implements ContentProvider by comparing stored content.
func (m *Memory) ModifiedPaths(ctx context.Context, paths []string, rng RevisionRange) ([]string, error) {
	modified := make([]string, 0, len(paths))
	for _, path := range paths {
		before, err := m.Lines(ctx, path, rng.Rev1)
		if err != nil {
			return nil, err
		}
		after, err := m.Lines(ctx, path, rng.Rev2)
		if err != nil {
			return nil, fmt.Errorf("%s at %s: %w", path, rng.Rev2, err)
		}
		if !before.Equal(after) {
			modified = append(modified, path)
		}
	}
	slices.Sort(modified)
	return slices.Compact(modified), nil
}
