//go:build windows
// +build windows

package runner

import (
	"os/exec"
	"strconv"
)

// shellArgv returns the Windows command interpreter invocation.
func shellArgv() []string {
	return []string{"cmd", "/C"}
}

// setProcGroup is a no-op on Windows; taskkill /T handles the process tree.
func setProcGroup(cmd *exec.Cmd) {}

// terminate forcefully kills the process tree rooted at pid.
func terminate(pid int) {
	_ = exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}
