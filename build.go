//go:build ignore

// build.go - Strykers Pulse Build System
// Usage: go run build.go [-target=TARGET]
// Targets: all, dashboard, report, clean, test, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "strykerscli"

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	GOOS    string
	GOARCH  string
}

var (
	rootDir string
	distDir string

	// Executable names (key = source dir name, value = output name)
	executables = map[string]string{
		"dashboard": "strykers-dashboard",
		"report":    "strykers-report",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s; run the build from the module root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	goos := flag.String("os", runtime.GOOS, "Target operating system")
	goarch := flag.String("arch", runtime.GOARCH, "Target architecture")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{Verbose: *verbose, GOOS: *goos, GOARCH: *goarch}

	switch *target {
	case "all":
		buildAll(ctx)
	case "dashboard", "report":
		buildExecutable(*target, ctx)
	case "clean":
		clean(ctx.Verbose)
	case "test":
		runTests(ctx.Verbose)
	case "release":
		buildRelease(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      Strykers Pulse - Build System       " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

// Build all executables and stage the runtime files next to them
func buildAll(ctx *BuildContext) {
	printInfo("Building all components...")

	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}

	for name := range executables {
		buildExecutable(name, ctx)
	}

	stageRuntimeFiles(ctx.Verbose)
	printSuccess("All components built successfully!")
}

// Build a specific executable
func buildExecutable(name string, ctx *BuildContext) {
	exeName := executables[name]
	if ctx.GOOS == "windows" {
		exeName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s for %s/%s...", name, ctx.GOOS, ctx.GOARCH))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitCommit())

	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + name}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+ctx.GOOS, "GOARCH="+ctx.GOARCH)
	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
}

// gitCommit returns the short HEAD hash, or "unknown" outside a checkout
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// stageRuntimeFiles copies the example config and the report images into
// dist so the binaries run from there unchanged
func stageRuntimeFiles(verbose bool) {
	for _, dir := range []string{"reports", "assets", "logs"} {
		if err := os.MkdirAll(filepath.Join(distDir, dir), 0755); err != nil {
			printWarning(fmt.Sprintf("Failed to create %s: %v", dir, err))
		}
	}

	src := filepath.Join(rootDir, "configs", "config.example.yaml")
	if _, err := os.Stat(src); err == nil {
		dest := filepath.Join(distDir, "configs", "config.example.yaml")
		if err := copyFile(src, dest); err != nil {
			printWarning(fmt.Sprintf("Failed to copy example config: %v", err))
		} else if verbose {
			printInfo("Copied " + dest)
		}
	}

	assets, _ := filepath.Glob(filepath.Join(rootDir, "assets", "*.png"))
	for _, asset := range assets {
		dest := filepath.Join(distDir, "assets", filepath.Base(asset))
		if err := copyFile(asset, dest); err != nil {
			printWarning(fmt.Sprintf("Failed to copy %s: %v", asset, err))
		} else if verbose {
			printInfo("Copied " + dest)
		}
	}
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}

func clean(verbose bool) {
	printInfo("Cleaning build artifacts...")

	if err := os.RemoveAll(distDir); err != nil && !os.IsNotExist(err) {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
		return
	}
	if verbose {
		printInfo("Removed " + distDir)
	}

	printSuccess("Build artifacts cleaned")
}

// Run tests
func runTests(verbose bool) {
	printInfo("Running Go tests...")

	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}

	printSuccess("All tests passed")
}

// Build release version
func buildRelease(ctx *BuildContext) {
	printInfo("Building release version...")

	clean(ctx.Verbose)
	buildAll(ctx)

	versionFile := filepath.Join(distDir, "VERSION.txt")
	content := fmt.Sprintf("Strykers Pulse\nCommit: %s\nBuilt: %s\nPlatform: %s/%s\n",
		gitCommit(), time.Now().Format("2006-01-02 15:04:05"), ctx.GOOS, ctx.GOARCH)
	if err := os.WriteFile(versionFile, []byte(content), 0644); err != nil {
		printWarning(fmt.Sprintf("Failed to write version file: %v", err))
	}

	printSuccess("Release build completed")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-os=GOOS] [-arch=GOARCH]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all        Build both executables into dist/ (default)")
	fmt.Println("  dashboard  Build the dashboard server")
	fmt.Println("  report     Build the static report generator")
	fmt.Println("  clean      Remove dist/")
	fmt.Println("  test       Run the Go tests with the race detector")
	fmt.Println("  release    Clean, build all and write VERSION.txt")
}
