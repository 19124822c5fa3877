package report

import (
	"encoding/base64"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"strykerscli/internal/files"
)

// Asset is an image embedded into the report as a data URI. A missing or
// unreadable file leaves Found false and the template renders a placeholder.
type Asset struct {
	Name    string
	Title   string
	Found   bool
	DataURI template.URL
}

// LoadAssets reads each named image from dir. Missing files are not errors.
func LoadAssets(dir string, names []string, logger *slog.Logger) []Asset {
	if logger == nil {
		logger = slog.Default()
	}

	assets := make([]Asset, 0, len(names))
	for _, name := range names {
		a := Asset{Name: name, Title: assetTitle(name)}

		data, err := os.ReadFile(filepath.Join(dir, name))
		switch {
		case !files.IsImage(name):
			logger.Warn("Skipping asset with unsupported type", slog.String("asset", name))
		case err != nil:
			logger.Debug("Asset not found, rendering placeholder",
				slog.String("asset", name),
				slog.String("dir", dir))
		default:
			a.Found = true
			a.DataURI = template.URL("data:" + files.ImageMIMEType(name) + ";base64," + base64.StdEncoding.EncodeToString(data))
		}
		assets = append(assets, a)
	}
	return assets
}

// AssetNames returns defaults followed by any other images found in dir,
// sorted by name. An unreadable dir yields just the defaults.
func AssetNames(dir string, defaults []string) []string {
	names := append([]string(nil), defaults...)

	found, err := files.NewDiscovery("").FindImageFiles(dir)
	if err != nil {
		return names
	}

	known := make(map[string]bool, len(defaults))
	for _, name := range defaults {
		known[name] = true
	}
	for _, f := range found {
		if !known[f.Name] {
			names = append(names, f.Name)
		}
	}
	return names
}

// assetTitle turns "atp_by_category.png" into "Atp By Category"
func assetTitle(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	words := strings.FieldsFunc(stem, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
