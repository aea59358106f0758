package diag

import (
	"os"
	"path/filepath"
)

// Resolver recovers a filesystem path from a noisy diagnostic token.
type Resolver interface {
	Resolve(candidate string) (string, bool)
}

// PrefixResolver finds the longest prefix of the token that names an existing
// file or directory. Build tools append ":line:col:" directly to the path, and
// paths may themselves contain colons, so no delimiter is trusted.
//
// A shorter prefix that happens to exist (a directory named like the file, say)
// wins when the real path does not exist. That is accepted.
type PrefixResolver struct {
	// Dir is the directory relative prefixes are tested against. Empty means
	// the current working directory.
	Dir string

	stat func(string) (os.FileInfo, error)
}

// NewPrefixResolver returns a resolver rooted at dir.
func NewPrefixResolver(dir string) *PrefixResolver {
	return &PrefixResolver{Dir: dir}
}

// Resolve returns the longest existing prefix of candidate, trimming one byte at
// a time from the right. The returned prefix is not joined with Dir.
func (r *PrefixResolver) Resolve(candidate string) (string, bool) {
	for n := len(candidate); n > 0; n-- {
		prefix := candidate[:n]
		if r.exists(prefix) {
			return prefix, true
		}
	}
	return "", false
}

func (r *PrefixResolver) exists(p string) bool {
	if r.Dir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(r.Dir, p)
	}
	stat := r.stat
	if stat == nil {
		stat = os.Stat
	}
	_, err := stat(p)
	return err == nil
}
