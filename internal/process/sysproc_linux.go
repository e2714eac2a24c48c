//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr puts the child in its own process group so
// cancellation can signal every descendant holding our pipes, and sets
// Pdeathsig so the child receives SIGTERM if the parent dies abruptly.
// A SysProcAttr supplied by the caller is left untouched.
func configureSysProcAttr(cmd *exec.Cmd) {
	if cmd.SysProcAttr != nil {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
