// Package config provides configuration loading and validation for gvmreport.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gvmreport/gvmreport/internal/filter"
	"github.com/gvmreport/gvmreport/internal/models"
	"github.com/gvmreport/gvmreport/internal/report"
)

// Report types select which grouping drives the report.
const (
	ReportTypeVulnerability = "vulnerability"
	ReportTypeHost          = "host"
	ReportTypeFull          = "full"
)

// Config represents the complete configuration for a conversion run.
// Values given on the command line override values from the file.
type Config struct {
	Thresholds    *ThresholdConfig `yaml:"thresholds,omitempty"`
	Output        string           `yaml:"output"`
	Format        string           `yaml:"format"`
	ReportType    string           `yaml:"report_type,omitempty"`
	MinLevel      string           `yaml:"min_level,omitempty"`
	Template      string           `yaml:"template,omitempty"`
	Inputs        []string         `yaml:"inputs"`
	ExcludeLevels []string         `yaml:"exclude_levels,omitempty"`
	Tables        []string         `yaml:"tables,omitempty"`
	Filters       FilterConfig     `yaml:"filters,omitempty"`
	SkipMissingID bool             `yaml:"skip_missing_id,omitempty"`
}

// ThresholdConfig overrides the default risk-level cutoffs.
type ThresholdConfig struct {
	Low      *float64 `yaml:"low,omitempty"`
	Medium   *float64 `yaml:"medium,omitempty"`
	High     *float64 `yaml:"high,omitempty"`
	Critical *float64 `yaml:"critical,omitempty"`
}

// FilterConfig narrows which findings make it into the report.
type FilterConfig struct {
	IncludeNetworks []string `yaml:"include_networks,omitempty"`
	ExcludeNetworks []string `yaml:"exclude_networks,omitempty"`
	IncludeNames    []string `yaml:"include_names,omitempty"`
	ExcludeNames    []string `yaml:"exclude_names,omitempty"`
	IncludeCVEs     []string `yaml:"include_cves,omitempty"`
	ExcludeCVEs     []string `yaml:"exclude_cves,omitempty"`
}

// DefaultConfig returns the configuration used when no file or flags
// override it.
func DefaultConfig() *Config {
	return &Config{
		Format:     "xlsx",
		ReportType: ReportTypeVulnerability,
		MinLevel:   string(models.RiskNone),
	}
}

// LoadConfig reads and parses a YAML configuration file. Validation is
// deferred to the caller so command-line flags can fill in the gaps first.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted source (config file)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	return config, nil
}

// Validate ensures the configuration is complete and consistent.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Format == "" {
		return fmt.Errorf("output format is required")
	}

	switch c.ReportType {
	case ReportTypeVulnerability, ReportTypeHost, ReportTypeFull:
	default:
		return fmt.Errorf("report_type must be %q, %q, or %q, got %q",
			ReportTypeVulnerability, ReportTypeHost, ReportTypeFull, c.ReportType)
	}

	if c.MinLevel != "" {
		if _, err := models.ParseRiskLevel(c.MinLevel); err != nil {
			return fmt.Errorf("min_level: %w", err)
		}
	}
	for _, level := range c.ExcludeLevels {
		if _, err := models.ParseRiskLevel(level); err != nil {
			return fmt.Errorf("exclude_levels: %w", err)
		}
	}
	for _, table := range c.Tables {
		switch table {
		case "summary", "vulnerabilities", "hosts":
		default:
			return fmt.Errorf("unknown table %q (want summary, vulnerabilities, or hosts)", table)
		}
	}

	if _, err := c.ThresholdValues(); err != nil {
		return err
	}

	return nil
}

// Selection derives which tables to build. An explicit tables list wins;
// otherwise the report type decides.
func (c *Config) Selection() report.Selection {
	if len(c.Tables) > 0 {
		var sel report.Selection
		for _, table := range c.Tables {
			switch table {
			case "summary":
				sel.Summary = true
			case "vulnerabilities":
				sel.ByVulnerability = true
			case "hosts":
				sel.ByHost = true
			}
		}
		return sel
	}

	switch c.ReportType {
	case ReportTypeHost:
		return report.Selection{Summary: true, ByHost: true}
	case ReportTypeFull:
		return report.DefaultSelection()
	default:
		return report.Selection{Summary: true, ByVulnerability: true}
	}
}

// MinRiskLevel resolves the configured minimum level, defaulting to none.
func (c *Config) MinRiskLevel() models.RiskLevel {
	if c.MinLevel == "" {
		return models.RiskNone
	}
	level, err := models.ParseRiskLevel(c.MinLevel)
	if err != nil {
		return models.RiskNone
	}
	return level
}

// ThresholdValues resolves the risk-level cutoffs, applying any overrides
// to the defaults.
func (c *Config) ThresholdValues() (models.Thresholds, error) {
	thresholds := models.DefaultThresholds()
	if c.Thresholds != nil {
		if c.Thresholds.Low != nil {
			thresholds.Low = *c.Thresholds.Low
		}
		if c.Thresholds.Medium != nil {
			thresholds.Medium = *c.Thresholds.Medium
		}
		if c.Thresholds.High != nil {
			thresholds.High = *c.Thresholds.High
		}
		if c.Thresholds.Critical != nil {
			thresholds.Critical = *c.Thresholds.Critical
		}
	}
	if err := thresholds.Validate(); err != nil {
		return models.Thresholds{}, fmt.Errorf("thresholds: %w", err)
	}
	return thresholds, nil
}

// FilterOptions assembles the filter options from the configured levels
// and filter lists.
func (c *Config) FilterOptions() filter.Options {
	excluded := make([]models.RiskLevel, 0, len(c.ExcludeLevels))
	for _, level := range c.ExcludeLevels {
		excluded = append(excluded, models.RiskLevel(level))
	}
	return filter.Options{
		MinLevel:            models.RiskLevel(c.MinLevel),
		ExcludeLevels:       excluded,
		IncludeNetworks:     c.Filters.IncludeNetworks,
		ExcludeNetworks:     c.Filters.ExcludeNetworks,
		IncludeNamePatterns: c.Filters.IncludeNames,
		ExcludeNamePatterns: c.Filters.ExcludeNames,
		IncludeCVEs:         c.Filters.IncludeCVEs,
		ExcludeCVEs:         c.Filters.ExcludeCVEs,
	}
}
