//go:build !unix

package process

import "os/exec"

// configureSysProcAttr is a no-op where process groups are not available.
func configureSysProcAttr(_ *exec.Cmd) {}
