// Package aggregate computes per-group and report-wide statistics and
// orders groups deterministically.
package aggregate

import (
	"sort"

	"github.com/gvmreport/gvmreport/internal/grouping"
	"github.com/gvmreport/gvmreport/internal/models"
)

// Stats holds the derived statistics for one group.
type Stats struct {
	ByRisk          map[models.RiskLevel]int
	MaxSeverity     *float64
	Risk            models.RiskLevel
	Hosts           []string
	Ports           []string
	Vulnerabilities []string
	FindingCount    int
}

// AggregatedGroup pairs a group with its statistics.
type AggregatedGroup struct {
	Group *grouping.Group
	Stats Stats
}

// Totals holds report-wide statistics across all groups.
type Totals struct {
	ByRisk   map[models.RiskLevel]int
	Findings int
}

// Aggregate computes statistics for every group and report-wide totals,
// then sorts the groups: maximum severity descending, finding count
// descending, identity name ascending. The ordering is deterministic for
// set-equal inputs regardless of encounter order.
func Aggregate(groups []*grouping.Group, thresholds models.Thresholds) ([]AggregatedGroup, Totals) {
	totals := Totals{ByRisk: make(map[models.RiskLevel]int)}

	aggregated := make([]AggregatedGroup, 0, len(groups))
	for _, g := range groups {
		stats := computeStats(g, thresholds)
		totals.Findings += stats.FindingCount
		for level, count := range stats.ByRisk {
			totals.ByRisk[level] += count
		}
		aggregated = append(aggregated, AggregatedGroup{Group: g, Stats: stats})
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return less(&aggregated[i], &aggregated[j])
	})

	return aggregated, totals
}

func computeStats(g *grouping.Group, thresholds models.Thresholds) Stats {
	stats := Stats{
		ByRisk:       make(map[models.RiskLevel]int),
		FindingCount: len(g.Findings),
	}

	hosts := make(map[string]bool)
	ports := make(map[string]bool)
	vulns := make(map[string]bool)

	for _, f := range g.Findings {
		stats.ByRisk[f.Risk]++
		if f.Severity != nil && (stats.MaxSeverity == nil || *f.Severity > *stats.MaxSeverity) {
			stats.MaxSeverity = f.Severity
		}
		hosts[f.Host.Hostname] = true
		ports[f.Port.String()] = true
		if f.Vulnerability.OID != "" {
			vulns[f.Vulnerability.OID] = true
		}
	}

	stats.Risk = thresholds.Level(stats.MaxSeverity)
	if g.Vulnerability != nil {
		stats.Hosts = sortedKeys(hosts)
	}
	if g.Host != nil {
		stats.Ports = sortedKeys(ports)
		stats.Vulnerabilities = sortedKeys(vulns)
	}

	return stats
}

// less orders groups by maximum severity descending, then finding count
// descending, then identity name ascending, with the identity key as a
// last resort so the order is total.
func less(a, b *AggregatedGroup) bool {
	sa, sb := severityOrAbsent(a.Stats.MaxSeverity), severityOrAbsent(b.Stats.MaxSeverity)
	if sa != sb {
		return sa > sb
	}
	if a.Stats.FindingCount != b.Stats.FindingCount {
		return a.Stats.FindingCount > b.Stats.FindingCount
	}
	if a.Group.Name() != b.Group.Name() {
		return a.Group.Name() < b.Group.Name()
	}
	return identityKey(a.Group) < identityKey(b.Group)
}

// severityOrAbsent maps an absent maximum below any real score.
func severityOrAbsent(s *float64) float64 {
	if s == nil {
		return -1
	}
	return *s
}

func identityKey(g *grouping.Group) string {
	if g.Vulnerability != nil {
		return g.Vulnerability.OID
	}
	if g.Host != nil {
		return g.Host.AssetID + "\x00" + g.Host.Hostname
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
