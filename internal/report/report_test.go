package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvmreport/gvmreport/internal/aggregate"
	"github.com/gvmreport/gvmreport/internal/grouping"
	"github.com/gvmreport/gvmreport/internal/models"
)

func score(v float64) *float64 {
	return &v
}

func buildInput(t *testing.T) Input {
	t.Helper()

	v1 := &models.Vulnerability{
		OID:      "1.3.6.1.4.1.25623.1.0.100",
		Name:     "OpenSSL End of Life",
		Family:   "General",
		CVSSBase: score(9.5),
		Solution: "Upgrade OpenSSL",
	}
	v2 := &models.Vulnerability{OID: "oid-2", Name: "TCP timestamps", Family: "General"}

	hostA := &models.Host{AssetID: "asset-a", Hostname: "a.example.com", Address: "10.0.0.1"}
	hostB := &models.Host{AssetID: "asset-b", Hostname: "b.example.com", Address: "10.0.0.2"}

	https := models.Port{Number: 443, Protocol: "tcp", Result: "Installed version: 1.0.2\nEOL version: 1.0.2"}

	findings := []*models.Finding{
		{ID: "f-1", Vulnerability: v1, Host: hostA, Port: https, Threat: models.ThreatHigh, Severity: score(9.5), Risk: models.RiskCritical},
		{ID: "f-2", Vulnerability: v1, Host: hostB, Port: https, Threat: models.ThreatHigh, Severity: score(9.5), Risk: models.RiskCritical},
		{ID: "f-3", Vulnerability: v2, Host: hostA, Port: models.Port{Protocol: "tcp"}, Threat: models.ThreatLog, Risk: models.RiskNone},
	}

	byVuln, err := grouping.GroupFindings(findings, grouping.ModeByVulnerability)
	require.NoError(t, err)
	byHost, err := grouping.GroupFindings(findings, grouping.ModeByHost)
	require.NoError(t, err)

	thresholds := models.DefaultThresholds()
	vulnAgg, totals := aggregate.Aggregate(byVuln, thresholds)
	hostAgg, _ := aggregate.Aggregate(byHost, thresholds)

	return Input{
		RunID:           "run-1",
		GeneratedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ByVulnerability: vulnAgg,
		ByHost:          hostAgg,
		Totals:          totals,
	}
}

func TestBuildSelection(t *testing.T) {
	in := buildInput(t)

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"all tables", DefaultSelection(), []string{"Summary", "Vulnerabilities", "Hosts"}},
		{"vulnerabilities only", Selection{ByVulnerability: true}, []string{"Vulnerabilities"}},
		{"hosts only", Selection{ByHost: true}, []string{"Hosts"}},
		{"summary only", Selection{Summary: true}, []string{"Summary"}},
		{"nothing selected", Selection{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := Build(in, tt.sel)
			names := make([]string, 0, len(tables))
			for _, table := range tables {
				names = append(names, table.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestVulnerabilityTable(t *testing.T) {
	tables := Build(buildInput(t), Selection{ByVulnerability: true})
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, []string{"Vulnerability", "Family", "Risk Level", "CVSS", "Findings", "Affected Hosts", "Solution"}, table.Columns)
	require.Len(t, table.Rows, 2)

	// Critical vulnerability sorts first.
	assert.Equal(t, []string{"OpenSSL End of Life", "General", "critical", "9.5", "2", "2", "Upgrade OpenSSL"}, table.Rows[0])
	assert.Equal(t, "TCP timestamps", table.Rows[1][0])
	assert.Equal(t, "none", table.Rows[1][2])
	assert.Equal(t, "No CVSS", table.Rows[1][3])
}

func TestHostTable(t *testing.T) {
	tables := Build(buildInput(t), Selection{ByHost: true})
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, []string{"Host", "Asset ID", "Vulnerabilities", "Highest Risk", "Open Ports", "Detected Versions"}, table.Columns)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "a.example.com", table.Rows[0][0])
	assert.Equal(t, "asset-a", table.Rows[0][1])
	assert.Equal(t, "2", table.Rows[0][2])
	assert.Equal(t, "critical", table.Rows[0][3])
	assert.Equal(t, "443/tcp, general/tcp", table.Rows[0][4])
	assert.Equal(t, "1.0.2", table.Rows[0][5])

	assert.Equal(t, "b.example.com", table.Rows[1][0])
}

func TestSummaryTable(t *testing.T) {
	tables := Build(buildInput(t), Selection{Summary: true})
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, []string{"Risk Level", "Findings", "Vulnerabilities", "Affected Hosts"}, table.Columns)
	// One row per risk level, critical first, plus the total row.
	require.Len(t, table.Rows, 6)

	assert.Equal(t, []string{"critical", "2", "1", "2"}, table.Rows[0])
	assert.Equal(t, []string{"high", "0", "0", "0"}, table.Rows[1])
	assert.Equal(t, []string{"medium", "0", "0", "0"}, table.Rows[2])
	assert.Equal(t, []string{"low", "0", "0", "0"}, table.Rows[3])
	assert.Equal(t, []string{"none", "1", "1", "1"}, table.Rows[4])
	assert.Equal(t, []string{"Total", "3", "2", "2"}, table.Rows[5])
}

func TestBuildEmptyInput(t *testing.T) {
	tables := Build(Input{Totals: aggregate.Totals{}}, DefaultSelection())
	require.Len(t, tables, 3)

	summary := tables[0]
	require.Len(t, summary.Rows, 6)
	assert.Equal(t, []string{"Total", "0", "0", "0"}, summary.Rows[5])

	assert.Empty(t, tables[1].Rows)
	assert.Empty(t, tables[2].Rows)
}

func TestRowsMatchColumnCount(t *testing.T) {
	for _, table := range Build(buildInput(t), DefaultSelection()) {
		for i, row := range table.Rows {
			assert.Len(t, row, len(table.Columns), "table %s row %d", table.Name, i)
		}
	}
}
