// Package grouping partitions findings by vulnerability or host identity.
package grouping

import (
	"errors"
	"fmt"

	"github.com/gvmreport/gvmreport/internal/models"
)

// Mode selects the grouping dimension.
type Mode string

// Grouping modes.
const (
	ModeByVulnerability Mode = "vulnerability"
	ModeByHost          Mode = "host"
)

// ParseMode resolves a mode name or its single-letter shorthand.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "v", "vulnerability":
		return ModeByVulnerability, nil
	case "h", "host":
		return ModeByHost, nil
	default:
		return "", fmt.Errorf("unknown grouping mode: %q", s)
	}
}

// Group is the set of findings sharing one grouping key. Exactly one of
// Vulnerability and Host is set, matching the mode the group was built
// under. Groups are immutable once built.
type Group struct {
	Vulnerability *models.Vulnerability
	Host          *models.Host
	Findings      []*models.Finding
}

// Name returns the group identity's natural sort label: the vulnerability
// name or the hostname.
func (g *Group) Name() string {
	if g.Vulnerability != nil {
		return g.Vulnerability.Name
	}
	if g.Host != nil {
		return g.Host.Hostname
	}
	return ""
}

// InvariantViolationError reports a finding that reached grouping without
// a resolved vulnerability or host. It indicates a normalizer defect and
// is always fatal.
type InvariantViolationError struct {
	FindingID string
	Missing   string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("finding %s reached grouping without a resolved %s", e.FindingID, e.Missing)
}

// IsInvariantViolation checks whether the error is an InvariantViolationError.
func IsInvariantViolation(err error) bool {
	var v *InvariantViolationError
	return errors.As(err, &v)
}

// GroupFindings partitions findings by the mode's identity key. Every
// finding lands in exactly one group; groups appear in first-encounter
// order and findings keep their encounter order within a group.
func GroupFindings(findings []*models.Finding, mode Mode) ([]*Group, error) {
	switch mode {
	case ModeByVulnerability, ModeByHost:
	default:
		return nil, fmt.Errorf("unknown grouping mode: %q", mode)
	}

	var groups []*Group
	byVuln := make(map[*models.Vulnerability]*Group)
	byHost := make(map[models.HostKey]*Group)

	for _, f := range findings {
		if f.Vulnerability == nil {
			return nil, &InvariantViolationError{FindingID: f.ID, Missing: "vulnerability"}
		}
		if f.Host == nil {
			return nil, &InvariantViolationError{FindingID: f.ID, Missing: "host"}
		}

		var g *Group
		switch mode {
		case ModeByVulnerability:
			g = byVuln[f.Vulnerability]
			if g == nil {
				g = &Group{Vulnerability: f.Vulnerability}
				byVuln[f.Vulnerability] = g
				groups = append(groups, g)
			}
		case ModeByHost:
			key := f.Host.Key()
			g = byHost[key]
			if g == nil {
				g = &Group{Host: f.Host}
				byHost[key] = g
				groups = append(groups, g)
			}
		}
		g.Findings = append(g.Findings, f)
	}

	return groups, nil
}
