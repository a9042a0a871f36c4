//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the child in its own process group and kills the whole
// group on cancellation, so grandchildren spawned by shells do not outlive Run.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
