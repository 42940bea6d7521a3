package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvmreport/gvmreport/internal/models"
)

func makeFinding(name, address string, risk models.RiskLevel, cves ...string) *models.Finding {
	refs := make([]models.Reference, 0, len(cves))
	for _, cve := range cves {
		refs = append(refs, models.Reference{Type: "cve", ID: cve})
	}
	return &models.Finding{
		ID:            "f-" + name,
		Vulnerability: &models.Vulnerability{OID: "oid-" + name, Name: name, References: refs},
		Host:          &models.Host{Hostname: address, Address: address},
		Risk:          risk,
	}
}

func TestFilterMinLevel(t *testing.T) {
	f, err := New(Options{MinLevel: models.RiskMedium})
	require.NoError(t, err)

	assert.True(t, f.Match(makeFinding("a", "10.0.0.1", models.RiskCritical)))
	assert.True(t, f.Match(makeFinding("b", "10.0.0.1", models.RiskMedium)))
	assert.False(t, f.Match(makeFinding("c", "10.0.0.1", models.RiskLow)))
	assert.False(t, f.Match(makeFinding("d", "10.0.0.1", models.RiskNone)))
}

func TestFilterMinLevelShorthand(t *testing.T) {
	f, err := New(Options{MinLevel: "m"})
	require.NoError(t, err)
	assert.False(t, f.Match(makeFinding("a", "10.0.0.1", models.RiskLow)))

	_, err = New(Options{MinLevel: "severe"})
	require.Error(t, err)
}

func TestFilterExcludeLevels(t *testing.T) {
	f, err := New(Options{ExcludeLevels: []models.RiskLevel{models.RiskNone, models.RiskLow}})
	require.NoError(t, err)

	assert.True(t, f.Match(makeFinding("a", "10.0.0.1", models.RiskHigh)))
	assert.False(t, f.Match(makeFinding("b", "10.0.0.1", models.RiskLow)))
	assert.False(t, f.Match(makeFinding("c", "10.0.0.1", models.RiskNone)))
}

func TestFilterNetworks(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		address string
		want    bool
	}{
		{"include CIDR match", Options{IncludeNetworks: []string{"10.0.0.0/24"}}, "10.0.0.7", true},
		{"include CIDR miss", Options{IncludeNetworks: []string{"10.0.0.0/24"}}, "10.0.1.7", false},
		{"include single address", Options{IncludeNetworks: []string{"192.168.1.5"}}, "192.168.1.5", true},
		{"exclude CIDR match", Options{ExcludeNetworks: []string{"10.0.0.0/24"}}, "10.0.0.7", false},
		{"exclude wins over include", Options{IncludeNetworks: []string{"10.0.0.0/16"}, ExcludeNetworks: []string{"10.0.5.0/24"}}, "10.0.5.1", false},
		{"non-IP address fails include list", Options{IncludeNetworks: []string{"10.0.0.0/24"}}, "gateway.local", false},
		{"non-IP address passes exclude-only list", Options{ExcludeNetworks: []string{"10.0.0.0/24"}}, "gateway.local", true},
		{"no network options", Options{}, "gateway.local", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(makeFinding("x", tt.address, models.RiskHigh)))
		})
	}
}

func TestFilterInvalidNetwork(t *testing.T) {
	_, err := New(Options{IncludeNetworks: []string{"10.0.0.0/40"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include networks")

	_, err = New(Options{ExcludeNetworks: []string{"not-an-address"}})
	require.Error(t, err)
}

func TestFilterNamePatterns(t *testing.T) {
	f, err := New(Options{
		IncludeNamePatterns: []string{"(?i)openssl", "(?i)apache"},
		ExcludeNamePatterns: []string{"Deprecated"},
	})
	require.NoError(t, err)

	assert.True(t, f.Match(makeFinding("OpenSSL End of Life", "10.0.0.1", models.RiskHigh)))
	assert.True(t, f.Match(makeFinding("Apache HTTPD Outdated", "10.0.0.1", models.RiskHigh)))
	assert.False(t, f.Match(makeFinding("TCP Timestamps", "10.0.0.1", models.RiskHigh)))
	assert.False(t, f.Match(makeFinding("OpenSSL Deprecated Cipher", "10.0.0.1", models.RiskHigh)))
}

func TestFilterInvalidPattern(t *testing.T) {
	_, err := New(Options{IncludeNamePatterns: []string{"("}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include name patterns")
}

func TestFilterCVEs(t *testing.T) {
	f, err := New(Options{IncludeCVEs: []string{"cve-2021-44228"}})
	require.NoError(t, err)

	// CVE matching is case-insensitive on both sides.
	assert.True(t, f.Match(makeFinding("log4shell", "10.0.0.1", models.RiskCritical, "CVE-2021-44228")))
	assert.False(t, f.Match(makeFinding("other", "10.0.0.1", models.RiskCritical, "CVE-2020-1472")))
	assert.False(t, f.Match(makeFinding("none", "10.0.0.1", models.RiskCritical)))

	f, err = New(Options{ExcludeCVEs: []string{"CVE-2020-1472"}})
	require.NoError(t, err)
	assert.False(t, f.Match(makeFinding("zerologon", "10.0.0.1", models.RiskCritical, "cve-2020-1472")))
	assert.True(t, f.Match(makeFinding("none", "10.0.0.1", models.RiskCritical)))
}

func TestFilterApplyPreservesOrder(t *testing.T) {
	f, err := New(Options{MinLevel: models.RiskMedium})
	require.NoError(t, err)

	findings := []*models.Finding{
		makeFinding("first", "10.0.0.1", models.RiskCritical),
		makeFinding("dropped", "10.0.0.1", models.RiskLow),
		makeFinding("second", "10.0.0.1", models.RiskMedium),
	}
	kept := f.Apply(findings)
	require.Len(t, kept, 2)
	assert.Equal(t, "first", kept[0].Vulnerability.Name)
	assert.Equal(t, "second", kept[1].Vulnerability.Name)
}

func TestFilterEmptyOptionsKeepsEverything(t *testing.T) {
	f, err := New(Options{})
	require.NoError(t, err)

	findings := []*models.Finding{
		makeFinding("a", "10.0.0.1", models.RiskNone),
		makeFinding("b", "host.local", models.RiskCritical),
	}
	assert.Len(t, f.Apply(findings), 2)
}
