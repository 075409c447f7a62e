//go:build windows

package command

import (
	"os/exec"
	"syscall"
)

// setProcAttr creates the command in a new process group so it can be
// targeted independently of the daemon's console.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// killGroup force-kills the command's process. Child processes in the
// group are terminated by the OS when the console session ends.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
