//go:build !linux

package autostart

type unsupportedManager struct{}

// New returns a Manager whose mutating methods fail with ErrUnsupported.
func New() Manager { return unsupportedManager{} }

func (unsupportedManager) ServiceName() string { return ServiceName }

func (unsupportedManager) IsInstalled() (bool, error) { return false, nil }

func (unsupportedManager) Install(execPath, configPath string) error { return ErrUnsupported }

func (unsupportedManager) Uninstall() error { return ErrUnsupported }
