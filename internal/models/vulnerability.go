package models

import "strings"

// Reference is one external reference reported for a vulnerability.
type Reference struct {
	Type string
	ID   string
}

// Vulnerability is a distinct detectable issue (NVT), identified by its
// scanner-assigned oid. One instance is shared by reference across all
// findings that report the same oid within a run.
type Vulnerability struct {
	OID          string
	Name         string
	Family       string
	CVSSBase     *float64
	Solution     string
	SolutionType string
	Tags         map[string]string
	References   []Reference
}

// CVEs returns the CVE identifiers among the references, uppercased, in
// reference order.
func (v *Vulnerability) CVEs() []string {
	var cves []string
	for _, ref := range v.References {
		if strings.EqualFold(ref.Type, "cve") {
			cves = append(cves, strings.ToUpper(ref.ID))
		}
	}
	return cves
}

// Tag returns the named tag value, or "" when absent.
func (v *Vulnerability) Tag(name string) string {
	if v.Tags == nil {
		return ""
	}
	return v.Tags[name]
}
