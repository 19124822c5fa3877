package report

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"strykerscli/internal/analytics"
	"strykerscli/internal/dataprocessing"
	"strykerscli/internal/errors"
	"strykerscli/internal/finance"
	"strykerscli/pkg/contracts/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Options carry everything about a rendering that is not data. There is
// no package-level presentation state.
type Options struct {
	Title       string
	Subtitle    string
	Policy      domain.BuyerPolicy
	Source      string
	RunID       string
	GeneratedAt time.Time
	Assets      []Asset
}

// Data is the input of the static report
type Data struct {
	Options    Options
	Summary    *analytics.Summary
	Projection *finance.Projection
	Stats      dataprocessing.DeriveStats
}

// DashboardPage is the input of the interactive dashboard page
type DashboardPage struct {
	Data
	Filters  analytics.FilterOptions
	Selected analytics.Filter
	// SelectedCategories is Selected.Categories as strings for the form
	SelectedCategories []string
}

// Renderer executes the embedded templates
type Renderer struct {
	report    *template.Template
	dashboard *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	parse := func(page string) (*template.Template, error) {
		return template.New(page).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/partials.html.tmpl", "templates/"+page)
	}

	report, err := parse("report.html.tmpl")
	if err != nil {
		return nil, errors.NewRenderError("failed to parse report template", err)
	}
	dashboard, err := parse("dashboard.html.tmpl")
	if err != nil {
		return nil, errors.NewRenderError("failed to parse dashboard template", err)
	}
	return &Renderer{report: report, dashboard: dashboard}, nil
}

// RenderReport writes the self-contained static report. Output is buffered
// so a template failure never leaves a partial document in w.
func (r *Renderer) RenderReport(w io.Writer, data Data) error {
	return execute(w, r.report, "report.html.tmpl", data)
}

// RenderDashboard writes the interactive dashboard page
func (r *Renderer) RenderDashboard(w io.Writer, page DashboardPage) error {
	categories := make([]string, len(page.Selected.Categories))
	for i, c := range page.Selected.Categories {
		categories[i] = string(c)
	}
	page.SelectedCategories = categories
	return execute(w, r.dashboard, "dashboard.html.tmpl", page)
}

func execute(w io.Writer, t *template.Template, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.NewRenderError("failed to render "+name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errors.NewStorageError("failed to write "+name, err)
	}
	return nil
}
