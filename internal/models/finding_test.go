package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFinding() *Finding {
	return &Finding{
		ID:            "r-1",
		Vulnerability: &Vulnerability{OID: "1.3.6.1.4.1.25623.1.0.1"},
		Host:          &Host{Hostname: "web01"},
		Threat:        ThreatHigh,
		Severity:      score(7.5),
		Risk:          RiskHigh,
	}
}

func TestFindingValidate(t *testing.T) {
	tests := []struct {
		mutate  func(*Finding)
		name    string
		wantErr string
	}{
		{name: "valid finding", mutate: func(_ *Finding) {}},
		{
			name:    "missing id",
			mutate:  func(f *Finding) { f.ID = "" },
			wantErr: "missing required field: id",
		},
		{
			name:    "missing vulnerability",
			mutate:  func(f *Finding) { f.Vulnerability = nil },
			wantErr: "missing required field: vulnerability",
		},
		{
			name:    "missing host",
			mutate:  func(f *Finding) { f.Host = nil },
			wantErr: "missing required field: host",
		},
		{
			name:    "threat outside enumeration",
			mutate:  func(f *Finding) { f.Threat = "Severe" },
			wantErr: "invalid threat level",
		},
		{
			name:    "severity above range",
			mutate:  func(f *Finding) { f.Severity = score(10.1) },
			wantErr: "outside [0.0, 10.0]",
		},
		{
			name:    "severity below range",
			mutate:  func(f *Finding) { f.Severity = score(-0.5) },
			wantErr: "outside [0.0, 10.0]",
		},
		{
			name:   "absent severity is fine",
			mutate: func(f *Finding) { f.Severity = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFinding()
			tt.mutate(f)
			err := f.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDetectedVersion(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{name: "installed version", result: "Installed version: 2.4.49\nFixed version: 2.4.51", want: "2.4.49"},
		{name: "eol version", result: "EOL version:  7.4.3", want: "7.4.3"},
		{name: "no version", result: "Banner: Apache", want: ""},
		{name: "empty result", result: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFinding()
			f.Port.Result = tt.result
			assert.Equal(t, tt.want, f.DetectedVersion())
		})
	}
}

func TestVulnerabilityCVEs(t *testing.T) {
	v := &Vulnerability{
		OID: "1.3.6.1.4.1.25623.1.0.1",
		References: []Reference{
			{Type: "cve", ID: "cve-2021-41773"},
			{Type: "url", ID: "https://example.com/advisory"},
			{Type: "CVE", ID: "CVE-2021-42013"},
		},
	}

	assert.Equal(t, []string{"CVE-2021-41773", "CVE-2021-42013"}, v.CVEs())
	assert.Empty(t, (&Vulnerability{}).CVEs())
}

func TestVulnerabilityTag(t *testing.T) {
	v := &Vulnerability{Tags: map[string]string{"solution_type": "VendorFix"}}
	assert.Equal(t, "VendorFix", v.Tag("solution_type"))
	assert.Equal(t, "", v.Tag("missing"))
	assert.Equal(t, "", (&Vulnerability{}).Tag("solution_type"))
}
