//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its children with taskkill /T.
// taskkill fails when pid has already exited; that is not reported.
func KillTree(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	return nil
}
