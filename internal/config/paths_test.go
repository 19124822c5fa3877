package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "pics")

	paths := NewPaths(base, DataConfig{AssetsDir: abs})

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, DefaultDataDir), paths.DataDir)
	assert.Equal(t, filepath.Join(base, DefaultReportsDir), paths.ReportsDir)
	assert.Equal(t, abs, paths.AssetsDir)
	assert.Equal(t, filepath.Join(base, DefaultReportsDir, ReportHTMLName), paths.GetReportPath(ReportHTMLName))
	assert.Equal(t, filepath.Join(abs, "stadium_map.png"), paths.GetAssetPath("stadium_map.png"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base, DataConfig{})

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)
	assert.False(t, FileExists(paths.AssetsDir))
}

func TestInputCandidates(t *testing.T) {
	paths := NewPaths("/opt/strykers", DataConfig{})

	t.Run("configured list wins", func(t *testing.T) {
		got := paths.InputCandidates([]string{"x.csv"})
		assert.Equal(t, []string{"x.csv"}, got)
	})

	t.Run("built-in names", func(t *testing.T) {
		got := paths.InputCandidates(nil)
		require.Len(t, got, len(DefaultInputCandidates)*3)
		assert.Equal(t, DefaultInputCandidates[0], got[0])
		assert.Equal(t, filepath.Join("/opt/strykers", DefaultInputCandidates[0]), got[len(DefaultInputCandidates)])
		assert.Equal(t, filepath.Join("/opt/strykers", DefaultDataDir, FallbackInputName), got[len(got)-1])
	})
}
