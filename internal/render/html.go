package render

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gvmreport/gvmreport/internal/report"
	"github.com/gvmreport/gvmreport/pkg/logger"
	"github.com/gvmreport/gvmreport/pkg/pathutil"
)

//go:embed templates/*
var templateFS embed.FS

func init() {
	Register("html", func(log logger.Logger) (Renderer, error) {
		return &HTMLRenderer{logger: log}, nil
	})
}

// HTMLRenderer writes a standalone HTML document. The built-in template can
// be replaced with an external one via SetTemplate.
type HTMLRenderer struct {
	logger       logger.Logger
	templatePath string
}

// Name returns the format identifier.
func (r *HTMLRenderer) Name() string { return "html" }

// Description returns a human-readable description of the format.
func (r *HTMLRenderer) Description() string {
	return "Standalone HTML document"
}

// SetTemplate replaces the built-in template with an external template file.
func (r *HTMLRenderer) SetTemplate(path string) {
	r.templatePath = path
}

// templateData holds all data for the report template.
type templateData struct {
	RunID       string
	GeneratedAt time.Time
	Sources     []string
	Tables      []report.Table
}

// Render writes the tables to outputPath.
func (r *HTMLRenderer) Render(tables []report.Table, meta Metadata, outputPath string) (err error) {
	validPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	tmpl, err := r.parseTemplate()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(validPath), 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(validPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	data := templateData{
		RunID:       meta.RunID,
		GeneratedAt: meta.GeneratedAt,
		Sources:     meta.Sources,
		Tables:      tables,
	}
	if err := tmpl.ExecuteTemplate(file, "report.html", data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	r.logger.Info("Wrote HTML report", "path", validPath, "tables", len(tables), "run_id", meta.RunID)
	return nil
}

func (r *HTMLRenderer) parseTemplate() (*template.Template, error) {
	tmpl := template.New("report").Funcs(templateFuncs())
	if r.templatePath != "" {
		parsed, err := tmpl.ParseFiles(r.templatePath)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", r.templatePath, err)
		}
		// ExecuteTemplate looks the template up by base name.
		if parsed.Lookup("report.html") == nil {
			if _, err := parsed.New("report.html").AddParseTree("report.html", parsed.Lookup(filepath.Base(r.templatePath)).Tree); err != nil {
				return nil, fmt.Errorf("loading template %s: %w", r.templatePath, err)
			}
		}
		return parsed, nil
	}
	parsed, err := tmpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return parsed, nil
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"riskClass": func(level string) string {
			switch level {
			case "critical", "high", "medium", "low", "none":
				return fmt.Sprintf("risk-%s", level)
			default:
				return ""
			}
		},
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"title": cases.Title(language.English).String,
	}
}
