//go:build !unix

package executor

import (
	"os/exec"
	"strings"
)

func shellCommand(line string) *exec.Cmd {
	return exec.Command("cmd", "/C", line)
}

// Process groups are not available here, only the shell itself is killed.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// Quote returns s as a single cmd.exe word.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t&|<>()^\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
