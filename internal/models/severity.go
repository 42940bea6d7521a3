package models

import (
	"fmt"
	"strings"
)

// RiskLevel is the categorical severity bucket derived from a numeric score.
type RiskLevel string

// Risk levels as constants for type safety and consistency.
const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels returns all risk levels ordered from critical down to none,
// which is the order report rows are emitted in.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskCritical, RiskHigh, RiskMedium, RiskLow, RiskNone}
}

// Rank returns a sortable weight for the level; higher is more severe.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// ParseRiskLevel resolves a level name or its single-letter shorthand
// (c, h, m, l, n) as used by the command line.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "critical":
		return RiskCritical, nil
	case "h", "high":
		return RiskHigh, nil
	case "m", "medium":
		return RiskMedium, nil
	case "l", "low":
		return RiskLow, nil
	case "n", "none":
		return RiskNone, nil
	default:
		return "", fmt.Errorf("unknown risk level: %q", s)
	}
}

// ThreatLevel is the categorical threat as reported by the scanner.
type ThreatLevel string

// Threat levels of the scanner's fixed enumeration.
const (
	ThreatNone     ThreatLevel = "None"
	ThreatLog      ThreatLevel = "Log"
	ThreatLow      ThreatLevel = "Low"
	ThreatMedium   ThreatLevel = "Medium"
	ThreatHigh     ThreatLevel = "High"
	ThreatCritical ThreatLevel = "Critical"
)

// ParseThreatLevel resolves a reported threat string. The second return
// value is false when the input is not part of the enumeration.
func ParseThreatLevel(s string) (ThreatLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ThreatNone, true
	case "log":
		return ThreatLog, true
	case "low":
		return ThreatLow, true
	case "medium":
		return ThreatMedium, true
	case "high":
		return ThreatHigh, true
	case "critical":
		return ThreatCritical, true
	default:
		return "", false
	}
}

// ThreatLevel maps a risk bucket onto the reported-threat enumeration.
// Log has no numeric equivalent and is only ever reported explicitly.
func (l RiskLevel) ThreatLevel() ThreatLevel {
	switch l {
	case RiskCritical:
		return ThreatCritical
	case RiskHigh:
		return ThreatHigh
	case RiskMedium:
		return ThreatMedium
	case RiskLow:
		return ThreatLow
	default:
		return ThreatNone
	}
}

// Thresholds holds the score cutoffs used to bucket severity scores.
// Each field is the inclusive lower bound of its bucket, except that a
// score equal to None (0.0) still classifies as none.
type Thresholds struct {
	Low      float64
	Medium   float64
	High     float64
	Critical float64
}

// DefaultThresholds returns the standard CVSS-style cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.0, Medium: 4.0, High: 7.0, Critical: 9.0}
}

// Validate ensures the cutoffs are ordered and within the CVSS range.
func (t Thresholds) Validate() error {
	if t.Low < 0 || t.Critical > 10 {
		return fmt.Errorf("thresholds must lie within [0.0, 10.0]")
	}
	if t.Low > t.Medium || t.Medium > t.High || t.High > t.Critical {
		return fmt.Errorf("thresholds must be ordered: low <= medium <= high <= critical")
	}
	return nil
}

// Level buckets a severity score. An absent score and a score of exactly
// 0.0 both classify as none.
func (t Thresholds) Level(score *float64) RiskLevel {
	if score == nil {
		return RiskNone
	}
	s := *score
	switch {
	case s <= t.Low:
		return RiskNone
	case s < t.Medium:
		return RiskLow
	case s < t.High:
		return RiskMedium
	case s < t.Critical:
		return RiskHigh
	default:
		return RiskCritical
	}
}
