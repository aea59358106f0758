// Package cache remembers the last build target between invocations.
//
// The entry is a plain-text file at <root>/<namespace>/<filename> holding the
// target exactly as supplied. There is no locking: concurrent invocations
// against the same cache directory are not supported.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// ErrNoTarget is returned when no target was supplied and none is cached.
var ErrNoTarget = errors.New("no target specified and no cached target found")

// Cache is a single-value store for the last target.
type Cache struct {
	Root      string
	Namespace string
	Filename  string

	logger hclog.Logger
}

// New returns a cache rooted at root. A nil logger discards warnings.
func New(root, namespace, filename string, logger hclog.Logger) *Cache {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cache{
		Root:      root,
		Namespace: namespace,
		Filename:  filename,
		logger:    logger,
	}
}

// Dir returns the directory holding the cache file.
func (c *Cache) Dir() string {
	return filepath.Join(c.Root, c.Namespace)
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return filepath.Join(c.Dir(), c.Filename)
}

// Update stores target when it is non-empty and returns it. Failing to write
// is logged and otherwise ignored; the supplied target is still returned.
// With an empty target the cached value is returned instead, or ErrNoTarget.
func (c *Cache) Update(target string) (string, error) {
	if target != "" {
		c.store(target)
		return target, nil
	}
	return c.Load()
}

// Load reads the cached target verbatim.
func (c *Cache) Load() (string, error) {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoTarget
		}
		return "", fmt.Errorf("reading target cache %s: %w", c.Path(), err)
	}
	if len(data) == 0 {
		return "", ErrNoTarget
	}
	return string(data), nil
}

func (c *Cache) store(target string) {
	if err := os.MkdirAll(c.Dir(), 0o755); err != nil {
		c.logger.Warn("failed to create cache directory", "dir", c.Dir(), "error", err)
		return
	}
	if err := os.WriteFile(c.Path(), []byte(target), 0o644); err != nil {
		c.logger.Warn("failed to write target cache", "path", c.Path(), "error", err)
		return
	}
	c.logger.Debug("cached target", "path", c.Path(), "target", target)
}
