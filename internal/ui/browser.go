package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser launches the system browser at url.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	// Reap in the background so the launcher never leaves a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
