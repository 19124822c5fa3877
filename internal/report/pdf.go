package report

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"strykerscli/internal/errors"
)

// PDFPrinter prints rendered HTML to PDF with headless Chrome
type PDFPrinter struct {
	timeout  time.Duration
	execPath string
	logger   *slog.Logger
}

// NewPDFPrinter creates a printer. execPath may be empty to let chromedp
// locate the browser.
func NewPDFPrinter(timeout time.Duration, execPath string, logger *slog.Logger) *PDFPrinter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFPrinter{
		timeout:  timeout,
		execPath: execPath,
		logger:   logger.With(slog.String("component", "pdf_printer")),
	}
}

// allocatorOptions are the headless Chrome flags used for printing
func (p *PDFPrinter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
	)
	if p.execPath != "" {
		opts = append(opts, chromedp.ExecPath(p.execPath))
	}
	return opts
}

// Print renders html through Chrome and returns the PDF bytes. The document
// is loaded from a temporary file so embedded data URIs need no server.
func (p *PDFPrinter) Print(ctx context.Context, html []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "strykers-pdf-*")
	if err != nil {
		return nil, errors.NewStorageError("failed to create temp dir for PDF", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "report.html")
	if err := os.WriteFile(htmlPath, html, 0600); err != nil {
		return nil, errors.NewStorageError("failed to stage report HTML", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, p.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(htmlPath)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, errors.NewRenderError("failed to print PDF via headless Chrome", err)
	}

	p.logger.InfoContext(ctx, "Printed PDF",
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return pdf, nil
}
