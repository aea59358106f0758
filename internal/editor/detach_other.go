//go:build !unix

package editor

import "os/exec"

// detach is a no-op on non-Unix platforms.
func detach(cmd *exec.Cmd) {}
