package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	AssetsDir     string
	LogsDir       string
}

// GetPaths resolves data against the executable location
func GetPaths(data DataConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(filepath.Dir(exe), data), nil
}

// NewPaths resolves the data layout against baseDir. Absolute entries in
// data are used as-is.
func NewPaths(baseDir string, data DataConfig) *Paths {
	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       resolve(data.DataDir, DefaultDataDir),
		ReportsDir:    resolve(data.ReportsDir, DefaultReportsDir),
		AssetsDir:     resolve(data.AssetsDir, DefaultAssetsDir),
		LogsDir:       filepath.Join(baseDir, DefaultLogsDir),
	}
}

// EnsureDirectories creates the output directories if they don't exist.
// The data and assets directories are inputs and are never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Default().Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// InputCandidates returns the ordered list of CSV locations to try. When
// configured is empty the built-in names are tried first in the working
// directory, then next to the executable, then in the data directory.
func (p *Paths) InputCandidates(configured []string) []string {
	if len(configured) > 0 {
		return append([]string(nil), configured...)
	}

	candidates := make([]string, 0, len(DefaultInputCandidates)*3)
	candidates = append(candidates, DefaultInputCandidates...)
	for _, name := range DefaultInputCandidates {
		candidates = append(candidates, filepath.Join(p.ExecutableDir, name))
	}
	for _, name := range DefaultInputCandidates {
		candidates = append(candidates, filepath.Join(p.DataDir, name))
	}
	return candidates
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetAssetPath returns the path for an optional image asset
func (p *Paths) GetAssetPath(filename string) string {
	return filepath.Join(p.AssetsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved layout
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("assets", p.AssetsDir),
			slog.String("logs", p.LogsDir),
		))
}
