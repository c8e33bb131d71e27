package autostart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderUnit(t *testing.T) {
	tests := []struct {
		name       string
		execPath   string
		configPath string
		want       string
	}{
		{"binary only", "/usr/local/bin/pwrstat-exporter", "",
			"ExecStart=/usr/local/bin/pwrstat-exporter\n"},
		{"with config", "/usr/local/bin/pwrstat-exporter", "/etc/pwrstat-exporter/config.yaml",
			"ExecStart=/usr/local/bin/pwrstat-exporter -config /etc/pwrstat-exporter/config.yaml\n"},
		{"path with space", "/opt/ups tools/pwrstat-exporter", "",
			"ExecStart=\"/opt/ups tools/pwrstat-exporter\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := RenderUnit(tt.execPath, tt.configPath)
			assert.Contains(t, unit, tt.want)
			assert.NotContains(t, unit, "{execLine}")
			assert.True(t, strings.HasPrefix(unit, "[Unit]\n"))
			assert.Contains(t, unit, "WantedBy=multi-user.target\n")
		})
	}
}

func TestManagerServiceName(t *testing.T) {
	assert.Equal(t, "pwrstat-exporter", New().ServiceName())
}

func TestRenderUnit_LogsDirectory(t *testing.T) {
	unit := RenderUnit("/usr/local/bin/pwrstat-exporter", "")
	assert.Contains(t, unit, "ProtectSystem=strict\n")
	assert.Contains(t, unit, "LogsDirectory=pwrstat-exporter\n")
}
