package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// DataFormatVersion is the version of the ticket export layout
	DataFormatVersion = "v1"

	// APIVersion is the version of the dashboard JSON and WebSocket messages
	APIVersion = "v1"
)

// Set at build time with -ldflags "-X strykerscli/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// BuildInfo identifies the running binary in health responses
type BuildInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuiltAt    string `json:"built_at"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	DataFormat string `json:"data_format"`
	APIVersion string `json:"api_version"`
}

// GetBuildInfo describes the running binary
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:    Version,
		Commit:     GitCommit,
		BuiltAt:    BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		DataFormat: DataFormatVersion,
		APIVersion: APIVersion,
	}
}

// GetVersionString returns the one-line -version output
func GetVersionString() string {
	if GitCommit == "unknown" {
		return fmt.Sprintf("Strykers Pulse v%s", Version)
	}
	return fmt.Sprintf("Strykers Pulse v%s (%s, built %s)", Version, GitCommit, BuildTime)
}
