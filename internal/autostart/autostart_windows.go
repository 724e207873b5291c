//go:build windows

package autostart

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// registryController manages a value under the current user's Run key.
type registryController struct {
	appName string
}

func newController(appName string) Controller {
	return &registryController{appName: appName}
}

func (c *registryController) IsEnabled() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer func() { _ = key.Close() }()

	_, _, err = key.GetStringValue(c.appName)
	return err == nil
}

func (c *registryController) Enable(launchCommand string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open Run key: %w", err)
	}
	defer func() { _ = key.Close() }()

	if err := key.SetStringValue(c.appName, launchCommand); err != nil {
		return fmt.Errorf("set Run value: %w", err)
	}
	return nil
}

func (c *registryController) Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open Run key: %w", err)
	}
	defer func() { _ = key.Close() }()

	if err := key.DeleteValue(c.appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete Run value: %w", err)
	}
	return nil
}
