//go:build linux

package autostart

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

const unitPath = "/etc/systemd/system/pwrstat-exporter.service"

// linuxManager implements Manager for Linux using systemd.
type linuxManager struct {
	unitPath string
	run      func(name string, args ...string) error
}

// New returns a Manager that uses systemd for service management.
func New() Manager {
	return &linuxManager{
		unitPath: unitPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// ServiceName returns the systemd service name.
func (l *linuxManager) ServiceName() string { return ServiceName }

// IsInstalled checks whether the systemd unit file exists.
func (l *linuxManager) IsInstalled() (bool, error) {
	_, err := os.Stat(l.unitPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking unit file: %w", err)
	}
	return true, nil
}

// Install writes the systemd unit file, reloads the daemon, enables and starts the service.
func (l *linuxManager) Install(execPath, configPath string) error {
	if err := checkRoot(); err != nil {
		return err
	}

	unit := RenderUnit(execPath, configPath)
	if err := os.WriteFile(l.unitPath, []byte(unit), 0644); err != nil {
		return fmt.Errorf("writing unit file: %w", err)
	}

	commands := [][]string{
		{"systemctl", "daemon-reload"},
		{"systemctl", "enable", ServiceName},
		{"systemctl", "start", ServiceName},
	}
	for _, args := range commands {
		if err := l.run(args[0], args[1:]...); err != nil {
			return fmt.Errorf("running %s: %w", strings.Join(args, " "), err)
		}
	}

	return nil
}

// Uninstall stops, disables, and removes the systemd service.
func (l *linuxManager) Uninstall() error {
	if err := checkRoot(); err != nil {
		return err
	}

	// Ignore errors if the service is already inactive.
	_ = l.run("systemctl", "stop", ServiceName)
	_ = l.run("systemctl", "disable", ServiceName)

	if err := os.Remove(l.unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing unit file: %w", err)
	}

	_ = l.run("systemctl", "daemon-reload")
	return nil
}

func checkRoot() error {
	if unix.Geteuid() != 0 {
		return fmt.Errorf("installing the service requires root privileges\n\nRun with sudo:\n  sudo %s -install", os.Args[0])
	}
	return nil
}
