package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	paths := []string{"/etc/pwrstat-exporter/config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pwrstat-exporter", "config.yaml"))
	}
	return paths
}
