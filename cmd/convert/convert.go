// Package convert implements the convert command, which turns scanner XML
// reports into the selected output format.
package convert

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gvmreport/gvmreport/internal/aggregate"
	"github.com/gvmreport/gvmreport/internal/config"
	"github.com/gvmreport/gvmreport/internal/filter"
	"github.com/gvmreport/gvmreport/internal/grouping"
	"github.com/gvmreport/gvmreport/internal/models"
	"github.com/gvmreport/gvmreport/internal/normalize"
	"github.com/gvmreport/gvmreport/internal/parser"
	"github.com/gvmreport/gvmreport/internal/render"
	"github.com/gvmreport/gvmreport/internal/report"
	"github.com/gvmreport/gvmreport/pkg/logger"
	"github.com/gvmreport/gvmreport/pkg/pathutil"
)

// Options represents convert command options.
type Options struct {
	ConfigPath    string
	Inputs        string
	Output        string
	Format        string
	ReportType    string
	MinLevel      string
	ExcludeLevels string
	Template      string
	Tables        string
	SkipMissingID bool
}

// Run executes the convert command.
func Run(args []string) error {
	opts := &Options{}

	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.Inputs, "input", "", "Input XML report files (comma-separated)")
	fs.StringVar(&opts.Output, "output", "", "Output file path")
	fs.StringVar(&opts.Format, "format", "", "Output format (see the formats command)")
	fs.StringVar(&opts.ReportType, "type", "", "Report type (vulnerability, host, or full)")
	fs.StringVar(&opts.MinLevel, "min-level", "", "Minimum risk level (none, low, medium, high, critical)")
	fs.StringVar(&opts.ExcludeLevels, "exclude-levels", "", "Risk levels to drop (comma-separated)")
	fs.StringVar(&opts.Template, "template", "", "External HTML template file")
	fs.StringVar(&opts.Tables, "tables", "", "Tables to include (summary, vulnerabilities, hosts)")
	fs.BoolVar(&opts.SkipMissingID, "skip-missing-id", false, "Skip records without an id instead of aborting")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: gvmreport convert [options] [input files...]

Convert scanner XML reports into a vulnerability report.

Options:`)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, `
Examples:
  gvmreport convert --output report.xlsx scan.xml
  gvmreport convert --format html --type host scan-1.xml scan-2.xml
  gvmreport convert --config report.yaml
  gvmreport convert --min-level high --output critical.csv --format csv scan.xml`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := buildConfig(opts, fs.Args())
	if err != nil {
		return err
	}

	return Convert(cfg, logger.GetGlobalLogger())
}

// buildConfig merges the config file, flags, and positional inputs. Flags
// win over the file.
func buildConfig(opts *Options, extraInputs []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigPath != "" {
		validPath, err := pathutil.ValidateConfigPath(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		cfg, err = config.LoadConfig(validPath)
		if err != nil {
			return nil, err
		}
	}

	if opts.Inputs != "" {
		cfg.Inputs = splitList(opts.Inputs)
	}
	cfg.Inputs = append(cfg.Inputs, extraInputs...)
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.ReportType != "" {
		cfg.ReportType = opts.ReportType
	}
	if opts.MinLevel != "" {
		cfg.MinLevel = opts.MinLevel
	}
	if opts.ExcludeLevels != "" {
		cfg.ExcludeLevels = splitList(opts.ExcludeLevels)
	}
	if opts.Template != "" {
		cfg.Template = opts.Template
	}
	if opts.Tables != "" {
		cfg.Tables = splitList(opts.Tables)
	}
	if opts.SkipMissingID {
		cfg.SkipMissingID = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Convert runs the full pipeline for one conversion: parse, normalize,
// filter, group, aggregate, build tables, render.
func Convert(cfg *config.Config, log logger.Logger) error {
	runID := uuid.New().String()
	log = log.With("run_id", runID)

	thresholds, err := cfg.ThresholdValues()
	if err != nil {
		return err
	}
	findingFilter, err := filter.New(cfg.FilterOptions())
	if err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}

	normalizer := normalize.NewNormalizer(thresholds, log)
	findings := make([]*models.Finding, 0)
	for _, input := range cfg.Inputs {
		parsed, err := parseFile(input, normalizer, cfg.SkipMissingID, log)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", input, err)
		}
		findings = append(findings, parsed...)
	}
	log.Info("Parsed scan reports",
		"files", len(cfg.Inputs),
		"findings", len(findings),
		"vulnerabilities", len(normalizer.Vulnerabilities()),
		"hosts", len(normalizer.Hosts()))

	kept := findingFilter.Apply(findings)
	if dropped := len(findings) - len(kept); dropped > 0 {
		log.Info("Filtered findings", "dropped", dropped, "kept", len(kept))
	}

	sel := cfg.Selection()
	in := report.Input{RunID: runID, GeneratedAt: time.Now().UTC()}

	if sel.Summary || sel.ByVulnerability {
		groups, err := grouping.GroupFindings(kept, grouping.ModeByVulnerability)
		if err != nil {
			return err
		}
		in.ByVulnerability, in.Totals = aggregate.Aggregate(groups, thresholds)
	}
	if sel.ByHost {
		groups, err := grouping.GroupFindings(kept, grouping.ModeByHost)
		if err != nil {
			return err
		}
		var totals aggregate.Totals
		in.ByHost, totals = aggregate.Aggregate(groups, thresholds)
		if !sel.Summary && !sel.ByVulnerability {
			in.Totals = totals
		}
	}

	tables := report.Build(in, sel)

	renderer, err := render.GetRenderer(cfg.Format, log)
	if err != nil {
		return err
	}
	if cfg.Template != "" {
		tr, ok := renderer.(render.TemplateRenderer)
		if !ok {
			return fmt.Errorf("format %s does not support external templates", cfg.Format)
		}
		tr.SetTemplate(cfg.Template)
	}

	meta := render.Metadata{RunID: runID, GeneratedAt: in.GeneratedAt, Sources: cfg.Inputs}
	if err := renderer.Render(tables, meta, cfg.Output); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	log.Info("Conversion complete", "output", cfg.Output, "format", cfg.Format, "tables", len(tables))
	return nil
}

// parseFile reads every result record from one report file and normalizes
// it into a finding. Records without an id abort the run unless
// skipMissingID is set.
func parseFile(path string, normalizer *normalize.Normalizer, skipMissingID bool, log logger.Logger) ([]*models.Finding, error) {
	validPath, err := pathutil.ValidateInputPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(validPath) //nolint:gosec // Path validated above
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	findings := make([]*models.Finding, 0)
	reader := parser.NewRecordReader(f)
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return findings, nil
		}
		if err != nil {
			if skipMissingID && parser.IsMissingIdentifier(err) {
				log.Warn("Skipping record without id", "file", path, "error", err)
				continue
			}
			return nil, err
		}

		finding, err := normalizer.Normalize(rec)
		if err != nil {
			if skipMissingID && parser.IsMissingIdentifier(err) {
				log.Warn("Skipping record without id", "file", path, "error", err)
				continue
			}
			return nil, err
		}
		findings = append(findings, finding)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
