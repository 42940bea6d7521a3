package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "yaml extension", path: "config.yaml", wantErr: false},
		{name: "yml extension", path: "config.yml", wantErr: false},
		{name: "uppercase extension", path: "config.YAML", wantErr: false},
		{name: "wrong extension", path: "config.json", wantErr: true},
		{name: "no extension", path: "config", wantErr: true},
		{name: "traversal pattern", path: "../config.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateConfigPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()

	got, err := ValidateOutputPath(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	_, err = ValidateOutputPath(filepath.Join(dir, "missing", "report.csv"))
	assert.Error(t, err)

	_, err = ValidateOutputPath("../report.csv")
	assert.Error(t, err)
}

func TestValidateInputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scan.xml")
	require.NoError(t, os.WriteFile(file, []byte("<report/>"), 0o600))

	got, err := ValidateInputPath(file)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	_, err = ValidateInputPath(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)

	_, err = ValidateInputPath(dir)
	assert.Error(t, err)
}
