package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"strykerscli/internal/config"
)

// Manager provides file management operations
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(m.resolvePath(path))
	return err == nil
}

// ReadFile reads the entire content of a file
func (m *Manager) ReadFile(path string) ([]byte, error) {
	fullPath := m.resolvePath(path)

	slog.Debug("Reading file",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.ReadFile(fullPath)
}

// WriteFile writes data through a temporary file and renames it into place,
// so readers never observe a partially written report.
func (m *Manager) WriteFile(path string, data []byte) (string, error) {
	fullPath := m.resolvePath(path)

	slog.Info("Writing file",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return fullPath, nil
}

// resolvePath maps "reports/", "assets/" and "logs/" prefixes to the
// configured directories; other relative paths hang off the executable dir.
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	clean := filepath.ToSlash(path)
	switch {
	case strings.HasPrefix(clean, "reports/"):
		return m.paths.GetReportPath(strings.TrimPrefix(clean, "reports/"))
	case strings.HasPrefix(clean, "assets/"):
		return m.paths.GetAssetPath(strings.TrimPrefix(clean, "assets/"))
	case strings.HasPrefix(clean, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(clean, "logs/"))
	default:
		return filepath.Join(m.paths.ExecutableDir, path)
	}
}
