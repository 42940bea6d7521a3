// Package models contains the canonical data structures produced by the
// gvmreport parsing and aggregation pipeline.
package models

import (
	"fmt"
	"regexp"
	"time"
)

// QoD is the scanner's quality-of-detection for a finding.
type QoD struct {
	Value int
	Type  string
}

// Finding is one reported occurrence of a Vulnerability on a Host. It is
// built once by the normalizer and read-only afterward.
type Finding struct {
	ID               string
	Vulnerability    *Vulnerability
	Host             *Host
	Port             Port
	Threat           ThreatLevel
	Severity         *float64
	Risk             RiskLevel
	QoD              QoD
	Details          map[string]string
	Description      string
	Comment          string
	Owner            string
	ScanNVTVersion   string
	OriginalThreat   ThreatLevel
	OriginalSeverity *float64
	Created          time.Time
	Modified         time.Time
}

// Validate checks the normalizer's output contract: a finding always
// resolves to exactly one vulnerability and one host, carries a threat
// from the fixed enumeration, and a severity within [0.0, 10.0] when
// present.
func (f *Finding) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("finding missing required field: id")
	}
	if f.Vulnerability == nil {
		return fmt.Errorf("finding %s missing required field: vulnerability", f.ID)
	}
	if f.Host == nil {
		return fmt.Errorf("finding %s missing required field: host", f.ID)
	}
	if _, ok := ParseThreatLevel(string(f.Threat)); !ok {
		return fmt.Errorf("finding %s has invalid threat level %q", f.ID, f.Threat)
	}
	if f.Severity != nil && (*f.Severity < 0.0 || *f.Severity > 10.0) {
		return fmt.Errorf("finding %s severity %.2f outside [0.0, 10.0]", f.ID, *f.Severity)
	}
	return nil
}

var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Installed version: +([0-9][0-9a-zA-Z.\-_]*)`),
	regexp.MustCompile(`EOL version: +([0-9][0-9a-zA-Z.\-_]*)`),
}

// DetectedVersion extracts the product version from the finding's per-port
// detection output, when the scanner reported one.
func (f *Finding) DetectedVersion() string {
	for _, pat := range versionPatterns {
		if m := pat.FindStringSubmatch(f.Port.Result); m != nil {
			return m[1]
		}
	}
	return ""
}
