//go:build unix

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalGroup delivers sig to the child's process group when the child leads
// one, otherwise to the child alone.
func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if ownsGroup(cmd) {
		return unix.Kill(-cmd.Process.Pid, sig)
	}
	return cmd.Process.Signal(sig)
}

// ownsGroup reports whether the child was started as the leader of a new
// process group (Setpgid with Pgid 0).
func ownsGroup(cmd *exec.Cmd) bool {
	return cmd.SysProcAttr != nil && cmd.SysProcAttr.Setpgid && cmd.SysProcAttr.Pgid == 0
}
