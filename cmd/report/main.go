package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"strykerscli/internal/analytics"
	"strykerscli/internal/config"
	"strykerscli/internal/dataprocessing"
	apperrors "strykerscli/internal/errors"
	"strykerscli/internal/exporter"
	"strykerscli/internal/files"
	"strykerscli/internal/finance"
	"strykerscli/internal/infrastructure"
	"strykerscli/internal/pipeline"
	"strykerscli/internal/report"
	"strykerscli/internal/services"
	"strykerscli/pkg/contracts"
	"strykerscli/pkg/contracts/domain"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// salesFileName is the derived sales export written next to the CSV tables
const salesFileName = "derived_sales.csv"

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	if v = strings.TrimSpace(v); v == "" {
		return errors.New("empty value")
	}
	*s = append(*s, v)
	return nil
}

// options are the parsed command line flags
type options struct {
	inputs     stringList
	out        string
	policy     domain.BuyerPolicy
	assets     string
	xlsx       string
	csvDir     string
	pdf        string
	chrome     string
	configFile string
	version    bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// parseFlags parses args. Errors have already been reported to stderr.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	var policy string

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Var(&opts.inputs, "input", "candidate transaction CSV path, tried in order (repeatable)")
	fs.StringVar(&opts.out, "out", "", "output HTML path (default reports dir/"+config.ReportHTMLName+")")
	fs.StringVar(&policy, "policy", string(domain.PolicyReport), "buyer segmentation policy: report|b or dashboard|a")
	fs.StringVar(&opts.assets, "assets", "", "directory holding the optional report images (default assets dir)")
	fs.StringVar(&opts.xlsx, "xlsx", "", "also write the aggregate tables as an XLSX workbook to this path")
	fs.StringVar(&opts.csvDir, "csv", "", "also write the aggregate tables and derived sales as CSV files into this directory")
	fs.StringVar(&opts.pdf, "pdf", "", "also print the report to PDF at this path (needs Chrome)")
	fs.StringVar(&opts.chrome, "chrome", "", "Chrome executable for -pdf (default: auto-detect)")
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (default: config.yaml lookup)")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(stderr, err)
		return nil, err
	}

	p, err := domain.ParseBuyerPolicy(policy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	opts.policy = p
	return opts, nil
}

// run is main without the process exit
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetVersionString())
		return exitOK
	}

	var cfg *config.Config
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return exitError
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitError
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths(cfg.Data)
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return exitError
	}

	// A one-shot run has no scrape endpoint; metrics stay in-process.
	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.MetricExporter = "none"
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		return exitError
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		logger.Error("Failed to create metrics", slog.String("error", err.Error()))
		return exitError
	}

	g := &generator{
		cfg:     cfg,
		paths:   paths,
		opts:    opts,
		files:   files.NewManager(paths),
		metrics: metrics,
		logger:  logger,
	}
	written, err := g.generate(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			logger.Error("Transaction data not found", slog.String("error", err.Error()))
		} else {
			logger.Error("Report generation failed", slog.String("error", err.Error()))
		}
		return exitError
	}

	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return exitOK
}

// generator produces the report and its optional companions
type generator struct {
	cfg     *config.Config
	paths   *config.Paths
	opts    *options
	files   *files.Manager
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// generate runs the pipeline and writes every requested output, returning
// the written paths in order
func (g *generator) generate(ctx context.Context) ([]string, error) {
	params := finance.ParamsFromConfig(g.cfg.Finance)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	inputs := []string(g.opts.inputs)
	if len(inputs) == 0 {
		inputs = g.cfg.Data.Inputs
	}

	runID := uuid.NewString()
	loader := dataprocessing.NewLoader(files.NewDiscovery(""), g.logger)
	runner := pipeline.NewRunner(loader, g.metrics, g.logger)
	res, err := runner.Run(ctx, runID, g.paths.InputCandidates(inputs), pipeline.Request{
		Policy:   g.opts.policy,
		Analysis: analytics.OptionsFromConfig(g.cfg.Analysis),
		Params:   params,
	})
	if err != nil {
		return nil, err
	}

	html, err := g.renderHTML(res)
	if err != nil {
		return nil, err
	}
	infrastructure.RecordReportRendered(ctx, g.metrics, "html")

	var written []string
	out, err := g.write(g.outputPath(g.opts.out, g.paths.GetReportPath(config.ReportHTMLName)), html)
	if err != nil {
		return nil, err
	}
	written = append(written, out)

	tables := exporter.BuildTables(res.Summary, res.Projection)

	if g.opts.xlsx != "" {
		var buf bytes.Buffer
		if err := exporter.WriteXLSX(&buf, tables); err != nil {
			return written, err
		}
		path, err := g.write(g.outputPath(g.opts.xlsx, ""), buf.Bytes())
		if err != nil {
			return written, err
		}
		infrastructure.RecordReportRendered(ctx, g.metrics, "xlsx")
		written = append(written, path)
	}

	if g.opts.csvDir != "" {
		paths, err := g.exportCSV(ctx, g.outputPath(g.opts.csvDir, ""), tables, res.Dataset.Sales)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
		infrastructure.RecordReportRendered(ctx, g.metrics, "csv")
	}

	if g.opts.pdf != "" {
		printer := report.NewPDFPrinter(config.DefaultPDFRenderTimeout, g.opts.chrome, g.logger)
		pdf, err := printer.Print(ctx, html)
		if err != nil {
			return written, err
		}
		path, err := g.write(g.outputPath(g.opts.pdf, ""), pdf)
		if err != nil {
			return written, err
		}
		infrastructure.RecordReportRendered(ctx, g.metrics, "pdf")
		written = append(written, path)
	}

	g.logger.InfoContext(infrastructure.WithRunID(ctx, runID), "Report generated",
		slog.String("source", res.Dataset.Source.Path),
		slog.String("policy", string(res.Policy)),
		slog.Int("sales", res.Dataset.Stats.Kept),
		slog.Int("excluded", res.Dataset.Stats.Excluded()),
		slog.Any("outputs", written))
	return written, nil
}

// renderHTML renders the self-contained report with its embedded images
func (g *generator) renderHTML(res *pipeline.Result) ([]byte, error) {
	renderer, err := report.NewRenderer()
	if err != nil {
		return nil, err
	}

	assetsDir := g.paths.AssetsDir
	if g.opts.assets != "" {
		assetsDir = g.opts.assets
	}

	opts := report.Options{
		Title:       config.AppName,
		Subtitle:    "Secondary Ticket Sales Analysis",
		Policy:      res.Policy,
		Source:      res.Dataset.Source.Name,
		RunID:       res.RunID,
		GeneratedAt: time.Now(),
		Assets:      report.LoadAssets(assetsDir, report.AssetNames(assetsDir, config.DefaultAssetNames), g.logger),
	}

	var buf bytes.Buffer
	if err := renderer.RenderReport(&buf, services.BuildReportData(res, opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportCSV writes one file per aggregate table plus the derived sales
func (g *generator) exportCSV(ctx context.Context, dir string, tables []exporter.Table, sales []domain.Sale) ([]string, error) {
	exp := exporter.NewAggregateExporter(exporter.NewCSVWriter(g.paths, g.logger), g.logger)

	written, err := exp.ExportTables(ctx, dir, tables)
	if err != nil {
		return written, err
	}
	path, err := exp.ExportSales(ctx, filepath.Join(dir, salesFileName), sales)
	if err != nil {
		return written, err
	}
	return append(written, path), nil
}

func (g *generator) write(path string, data []byte) (string, error) {
	written, err := g.files.WriteFile(path, data)
	if err != nil {
		return "", apperrors.NewStorageError("failed to write "+path, err)
	}
	return written, nil
}

// outputPath makes a flag path absolute against the working directory so
// it is not re-rooted under the executable directory.
func (g *generator) outputPath(flagValue, fallback string) string {
	if flagValue == "" {
		return fallback
	}
	if abs, err := filepath.Abs(flagValue); err == nil {
		return abs
	}
	return flagValue
}
