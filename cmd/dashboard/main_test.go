package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server:\n  port: 9090\nanalysis:\n  buyer_policy: report\n"), 0644))

	tests := []struct {
		name         string
		args         []string
		expectErr    bool
		expectPort   int
		expectPolicy string
		expectInputs []string
	}{
		{
			name:         "file values",
			args:         []string{"-config", cfgPath},
			expectPort:   9090,
			expectPolicy: "report",
		},
		{
			name:         "flags override file",
			args:         []string{"-config", cfgPath, "-port", "8181", "-policy", "a", "-input", "/tmp/sales.csv"},
			expectPort:   8181,
			expectPolicy: "a",
			expectInputs: []string{"/tmp/sales.csv"},
		},
		{
			name:      "port out of range",
			args:      []string{"-config", cfgPath, "-port", "70000"},
			expectErr: true,
		},
		{
			name:      "missing config file",
			args:      []string{"-config", filepath.Join(dir, "absent.yaml")},
			expectErr: true,
		},
		{
			name:      "unknown flag",
			args:      []string{"-verbose"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			cfg, err := loadConfig(tt.args, &stderr)

			if tt.expectErr {
				require.Error(t, err)
				assert.NotEmpty(t, stderr.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectPort, cfg.Server.Port)
			assert.Equal(t, tt.expectPolicy, cfg.Analysis.BuyerPolicy)
			assert.Equal(t, tt.expectInputs, cfg.Data.Inputs)
		})
	}
}
