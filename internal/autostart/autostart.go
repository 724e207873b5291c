// Package autostart registers the shell to launch at login. Each OS
// backend manipulates its native store (registry Run key, XDG autostart
// entry, launchd agent); failures surface as plain errors with a
// human-readable cause, never as a crash.
package autostart

import (
	"fmt"
	"os"
)

// Controller is the façade the UI toggles. IsEnabled swallows read
// errors and reports false, matching the check-state semantics of a
// settings checkbox.
type Controller interface {
	IsEnabled() bool
	Enable(launchCommand string) error
	Disable() error
}

// New returns the controller for the current OS.
func New(appName string) Controller {
	return newController(appName)
}

// LaunchCommand builds the command line used for login launches: the
// running executable in headless mode.
func LaunchCommand() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return fmt.Sprintf("%q -no-ui", exe), nil
}
