// Package autostart installs the exporter as a system service so it starts
// at boot next to the PowerPanel daemon.
package autostart

import (
	"errors"
	"strconv"
	"strings"
)

// ServiceName is the systemd unit name without the .service suffix.
const ServiceName = "pwrstat-exporter"

// ErrUnsupported is returned on platforms without a service manager integration.
var ErrUnsupported = errors.New("service installation is only supported on Linux with systemd")

// Manager provides platform-specific autostart installation.
type Manager interface {
	IsInstalled() (bool, error)
	Install(execPath, configPath string) error
	Uninstall() error
	ServiceName() string
}

// unitTemplate is the systemd unit file written during installation.
// pwrstat talks to pwrstatd over a root-owned socket, so the unit runs as root.
// ProtectSystem=strict leaves only LogsDirectory (/var/log/pwrstat-exporter)
// writable for logging.file.
const unitTemplate = `[Unit]
Description=Prometheus exporter for CyberPower UPS status
After=network-online.target pwrstatd.service
Wants=network-online.target

[Service]
Type=simple
ExecStart={execLine}
Restart=always
RestartSec=10
StandardOutput=journal
StandardError=journal
SyslogIdentifier=pwrstat-exporter

NoNewPrivileges=true
ProtectSystem=strict
ProtectHome=true
PrivateTmp=true
LogsDirectory=pwrstat-exporter

[Install]
WantedBy=multi-user.target
`

// RenderUnit returns the unit file content for the given binary and config
// file. An empty configPath omits the -config flag.
func RenderUnit(execPath, configPath string) string {
	args := []string{quoteArg(execPath)}
	if configPath != "" {
		args = append(args, "-config", quoteArg(configPath))
	}
	return strings.ReplaceAll(unitTemplate, "{execLine}", strings.Join(args, " "))
}

// quoteArg quotes s for an ExecStart line when it contains whitespace or quotes.
func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t\"'\\") {
		return s
	}
	return strconv.Quote(s)
}
