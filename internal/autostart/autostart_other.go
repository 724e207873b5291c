//go:build !linux && !darwin && !windows

package autostart

import "fmt"

type unsupportedController struct{}

func newController(string) Controller {
	return unsupportedController{}
}

func (unsupportedController) IsEnabled() bool { return false }

func (unsupportedController) Enable(string) error {
	return fmt.Errorf("autostart is not supported on this platform")
}

func (unsupportedController) Disable() error {
	return fmt.Errorf("autostart is not supported on this platform")
}
