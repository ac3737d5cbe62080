//go:build !windows
// +build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// shellArgv returns the POSIX shell invocation. A login shell (-l) so the
// user's profile environment applies, as it would on an interactive terminal.
func shellArgv() []string {
	return []string{"bash", "-lc"}
}

// setProcGroup puts the child in its own process group so termination can
// target the whole group, including any grandchildren the shell spawned.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills the process group unconditionally. Negative pid targets
// the group; fall back to the single pid if the group is already gone.
func terminate(pid int) {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
}
