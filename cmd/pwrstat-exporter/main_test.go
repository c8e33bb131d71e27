package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	installed    bool
	installedErr error
	installErr   error

	installs   [][2]string
	uninstalls int
}

func (f *fakeManager) IsInstalled() (bool, error) { return f.installed, f.installedErr }

func (f *fakeManager) Install(execPath, configPath string) error {
	f.installs = append(f.installs, [2]string{execPath, configPath})
	return f.installErr
}

func (f *fakeManager) Uninstall() error {
	f.uninstalls++
	return nil
}

func (f *fakeManager) ServiceName() string { return "pwrstat-exporter" }

func TestInstallService(t *testing.T) {
	tests := []struct {
		name      string
		installed bool
		want      string
	}{
		{"fresh", false, "Installed and started service pwrstat-exporter\n"},
		{"already installed", true,
			"Service pwrstat-exporter is already installed, rewriting unit\nInstalled and started service pwrstat-exporter\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := &fakeManager{installed: tt.installed}
			var out bytes.Buffer

			require.NoError(t, installService(mgr, "/usr/local/bin/pwrstat-exporter", "/etc/pwrstat-exporter/config.yaml", &out))
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, [][2]string{{"/usr/local/bin/pwrstat-exporter", "/etc/pwrstat-exporter/config.yaml"}}, mgr.installs)
		})
	}
}

func TestInstallService_Errors(t *testing.T) {
	t.Run("status check fails", func(t *testing.T) {
		mgr := &fakeManager{installedErr: errors.New("permission denied")}
		err := installService(mgr, "/bin/x", "", &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
		assert.Empty(t, mgr.installs)
	})
	t.Run("install fails", func(t *testing.T) {
		mgr := &fakeManager{installErr: errors.New("systemctl failed")}
		var out bytes.Buffer
		err := installService(mgr, "/bin/x", "", &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "installing pwrstat-exporter")
		assert.Empty(t, out.String())
	})
}

func TestUninstallService(t *testing.T) {
	t.Run("installed", func(t *testing.T) {
		mgr := &fakeManager{installed: true}
		var out bytes.Buffer
		require.NoError(t, uninstallService(mgr, &out))
		assert.Equal(t, 1, mgr.uninstalls)
		assert.Equal(t, "Removed service pwrstat-exporter\n", out.String())
	})
	t.Run("not installed", func(t *testing.T) {
		mgr := &fakeManager{}
		var out bytes.Buffer
		require.NoError(t, uninstallService(mgr, &out))
		assert.Zero(t, mgr.uninstalls)
		assert.Equal(t, "Service pwrstat-exporter is not installed\n", out.String())
	})
	t.Run("status check fails", func(t *testing.T) {
		mgr := &fakeManager{installedErr: errors.New("io error")}
		require.Error(t, uninstallService(mgr, &bytes.Buffer{}))
		assert.Zero(t, mgr.uninstalls)
	})
}
