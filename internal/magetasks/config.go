package magetasks

import (
	"os"
	"path/filepath"
)

var (
	// ModulePath is the Go module path.
	ModulePath = "github.com/dkoosis/nin"

	// BinDir is the output directory for built binaries.
	BinDir = "./bin"

	// Binaries lists the commands under ./cmd that Build produces.
	Binaries = []string{"nin", "cb"}

	// ProjectRoot is the root directory of the project.
	ProjectRoot string
)

// Initialize sets up the magetasks package.
// Call this from the Magefile init() function.
func Initialize() error {
	var err error
	ProjectRoot, err = os.Getwd()
	if err != nil {
		return err
	}

	binDir := filepath.Join(ProjectRoot, BinDir)
	if err := os.MkdirAll(binDir, 0o750); err != nil {
		return err
	}

	return nil
}

// BinPath returns the output path for the named binary.
func BinPath(name string) string {
	return filepath.Join(BinDir, name)
}
