//go:build unix

package editor

import (
	"os/exec"
	"syscall"
)

// detach moves the editor into its own process group so that killing the
// build's group leaves it running.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
