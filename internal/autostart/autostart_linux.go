//go:build linux

package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// xdgController manages an XDG autostart desktop entry under
// ~/.config/autostart.
type xdgController struct {
	appName string
}

func newController(appName string) Controller {
	return &xdgController{appName: appName}
}

func (c *xdgController) entryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	name := strings.ToLower(c.appName) + ".desktop"
	return filepath.Join(home, ".config", "autostart", name), nil
}

func (c *xdgController) IsEnabled() bool {
	path, err := c.entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (c *xdgController) Enable(launchCommand string) error {
	path, err := c.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
X-GNOME-Autostart-enabled=true
`, c.appName, launchCommand)

	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

func (c *xdgController) Disable() error {
	path, err := c.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}
	return nil
}
