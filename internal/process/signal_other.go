//go:build !unix

package process

import (
	"os/exec"
	"syscall"
)

// signalGroup kills the child. Without POSIX signals there is no graceful
// step, so every signal maps to Kill.
func signalGroup(cmd *exec.Cmd, _ syscall.Signal) error {
	return cmd.Process.Kill()
}
