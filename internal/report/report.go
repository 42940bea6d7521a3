// Package report builds render-agnostic tables from aggregated scan data.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gvmreport/gvmreport/internal/aggregate"
	"github.com/gvmreport/gvmreport/internal/models"
)

// Table is one renderable table. Every row has exactly one cell per column.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Selection controls which tables Build produces.
type Selection struct {
	ByVulnerability bool
	ByHost          bool
	Summary         bool
}

// DefaultSelection selects every table.
func DefaultSelection() Selection {
	return Selection{ByVulnerability: true, ByHost: true, Summary: true}
}

// Any reports whether at least one table is selected.
func (s Selection) Any() bool {
	return s.ByVulnerability || s.ByHost || s.Summary
}

// Input carries the aggregated data a report is built from.
type Input struct {
	RunID           string
	GeneratedAt     time.Time
	ByVulnerability []aggregate.AggregatedGroup
	ByHost          []aggregate.AggregatedGroup
	Totals          aggregate.Totals
}

const noCVSS = "No CVSS"

// Build produces the selected tables. Group ordering is preserved from
// aggregation, so the output is deterministic for identical input.
func Build(in Input, sel Selection) []Table {
	tables := make([]Table, 0, 3)
	if sel.Summary {
		tables = append(tables, summaryTable(in))
	}
	if sel.ByVulnerability {
		tables = append(tables, vulnerabilityTable(in.ByVulnerability))
	}
	if sel.ByHost {
		tables = append(tables, hostTable(in.ByHost))
	}
	return tables
}

func vulnerabilityTable(groups []aggregate.AggregatedGroup) Table {
	t := Table{
		Name:    "Vulnerabilities",
		Columns: []string{"Vulnerability", "Family", "Risk Level", "CVSS", "Findings", "Affected Hosts", "Solution"},
		Rows:    make([][]string, 0, len(groups)),
	}
	for _, g := range groups {
		v := g.Group.Vulnerability
		t.Rows = append(t.Rows, []string{
			v.Name,
			v.Family,
			string(g.Stats.Risk),
			formatScore(v.CVSSBase),
			fmt.Sprintf("%d", g.Stats.FindingCount),
			fmt.Sprintf("%d", len(g.Stats.Hosts)),
			v.Solution,
		})
	}
	return t
}

func hostTable(groups []aggregate.AggregatedGroup) Table {
	t := Table{
		Name:    "Hosts",
		Columns: []string{"Host", "Asset ID", "Vulnerabilities", "Highest Risk", "Open Ports", "Detected Versions"},
		Rows:    make([][]string, 0, len(groups)),
	}
	for _, g := range groups {
		h := g.Group.Host
		t.Rows = append(t.Rows, []string{
			h.Hostname,
			h.AssetID,
			fmt.Sprintf("%d", len(g.Stats.Vulnerabilities)),
			string(g.Stats.Risk),
			strings.Join(g.Stats.Ports, ", "),
			strings.Join(detectedVersions(g.Group.Findings), ", "),
		})
	}
	return t
}

// summaryTable collapses the by-vulnerability aggregation per risk level:
// finding count, unique vulnerabilities, and the union of affected hosts,
// followed by a grand-total row.
func summaryTable(in Input) Table {
	type bucket struct {
		findings int
		vulns    int
		hosts    map[string]bool
	}
	buckets := make(map[models.RiskLevel]*bucket)
	for _, level := range models.RiskLevels() {
		buckets[level] = &bucket{hosts: make(map[string]bool)}
	}

	allHosts := make(map[string]bool)
	for _, g := range in.ByVulnerability {
		b := buckets[g.Stats.Risk]
		b.findings += g.Stats.FindingCount
		b.vulns++
		for _, h := range g.Stats.Hosts {
			b.hosts[h] = true
			allHosts[h] = true
		}
	}

	t := Table{
		Name:    "Summary",
		Columns: []string{"Risk Level", "Findings", "Vulnerabilities", "Affected Hosts"},
		Rows:    make([][]string, 0, len(buckets)+1),
	}
	totalVulns := 0
	for _, level := range models.RiskLevels() {
		b := buckets[level]
		totalVulns += b.vulns
		t.Rows = append(t.Rows, []string{
			string(level),
			fmt.Sprintf("%d", b.findings),
			fmt.Sprintf("%d", b.vulns),
			fmt.Sprintf("%d", len(b.hosts)),
		})
	}
	t.Rows = append(t.Rows, []string{
		"Total",
		fmt.Sprintf("%d", in.Totals.Findings),
		fmt.Sprintf("%d", totalVulns),
		fmt.Sprintf("%d", len(allHosts)),
	})
	return t
}

func detectedVersions(findings []*models.Finding) []string {
	seen := make(map[string]bool)
	versions := make([]string, 0)
	for _, f := range findings {
		if v := f.DetectedVersion(); v != "" && !seen[v] {
			seen[v] = true
			versions = append(versions, v)
		}
	}
	sort.Strings(versions)
	return versions
}

func formatScore(score *float64) string {
	if score == nil {
		return noCVSS
	}
	return fmt.Sprintf("%.1f", *score)
}
