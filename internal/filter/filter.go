// Package filter drops normalized findings that fall outside the
// configured scope before grouping.
package filter

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/gvmreport/gvmreport/internal/models"
)

// Options selects which findings survive filtering. Include lists admit
// only matching findings when non-empty; exclude lists always drop
// matching findings. Exclusion wins over inclusion.
type Options struct {
	MinLevel            models.RiskLevel
	ExcludeLevels       []models.RiskLevel
	IncludeNetworks     []string
	ExcludeNetworks     []string
	IncludeNamePatterns []string
	ExcludeNamePatterns []string
	IncludeCVEs         []string
	ExcludeCVEs         []string
}

// Filter applies compiled filter options to findings.
type Filter struct {
	minRank         int
	excludedLevels  map[models.RiskLevel]bool
	includeNetworks []netip.Prefix
	excludeNetworks []netip.Prefix
	includeNames    []*regexp.Regexp
	excludeNames    []*regexp.Regexp
	includeCVEs     map[string]bool
	excludeCVEs     map[string]bool
}

// New compiles the options into a filter. Invalid networks or name
// patterns are reported up front rather than at match time.
func New(opts Options) (*Filter, error) {
	f := &Filter{
		excludedLevels: make(map[models.RiskLevel]bool),
		includeCVEs:    make(map[string]bool),
		excludeCVEs:    make(map[string]bool),
	}

	if opts.MinLevel != "" {
		level, err := models.ParseRiskLevel(string(opts.MinLevel))
		if err != nil {
			return nil, fmt.Errorf("minimum level: %w", err)
		}
		f.minRank = level.Rank()
	}
	for _, level := range opts.ExcludeLevels {
		parsed, err := models.ParseRiskLevel(string(level))
		if err != nil {
			return nil, fmt.Errorf("excluded level: %w", err)
		}
		f.excludedLevels[parsed] = true
	}

	var err error
	if f.includeNetworks, err = parseNetworks(opts.IncludeNetworks); err != nil {
		return nil, fmt.Errorf("include networks: %w", err)
	}
	if f.excludeNetworks, err = parseNetworks(opts.ExcludeNetworks); err != nil {
		return nil, fmt.Errorf("exclude networks: %w", err)
	}
	if f.includeNames, err = compilePatterns(opts.IncludeNamePatterns); err != nil {
		return nil, fmt.Errorf("include name patterns: %w", err)
	}
	if f.excludeNames, err = compilePatterns(opts.ExcludeNamePatterns); err != nil {
		return nil, fmt.Errorf("exclude name patterns: %w", err)
	}

	for _, cve := range opts.IncludeCVEs {
		f.includeCVEs[strings.ToUpper(cve)] = true
	}
	for _, cve := range opts.ExcludeCVEs {
		f.excludeCVEs[strings.ToUpper(cve)] = true
	}

	return f, nil
}

// Match reports whether the finding survives the filter.
func (f *Filter) Match(finding *models.Finding) bool {
	if finding.Risk.Rank() < f.minRank {
		return false
	}
	if f.excludedLevels[finding.Risk] {
		return false
	}
	if !f.matchNetwork(finding.Host.Address) {
		return false
	}
	if !f.matchName(finding.Vulnerability.Name) {
		return false
	}
	return f.matchCVEs(finding.Vulnerability.CVEs())
}

// Apply returns the findings that survive the filter, in input order.
func (f *Filter) Apply(findings []*models.Finding) []*models.Finding {
	kept := make([]*models.Finding, 0, len(findings))
	for _, finding := range findings {
		if f.Match(finding) {
			kept = append(kept, finding)
		}
	}
	return kept
}

func (f *Filter) matchNetwork(address string) bool {
	if len(f.includeNetworks) == 0 && len(f.excludeNetworks) == 0 {
		return true
	}
	addr, err := netip.ParseAddr(address)
	if err != nil {
		// Non-IP addresses cannot satisfy an include list.
		return len(f.includeNetworks) == 0
	}
	for _, prefix := range f.excludeNetworks {
		if prefix.Contains(addr) {
			return false
		}
	}
	if len(f.includeNetworks) == 0 {
		return true
	}
	for _, prefix := range f.includeNetworks {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func (f *Filter) matchName(name string) bool {
	for _, pat := range f.excludeNames {
		if pat.MatchString(name) {
			return false
		}
	}
	if len(f.includeNames) == 0 {
		return true
	}
	for _, pat := range f.includeNames {
		if pat.MatchString(name) {
			return true
		}
	}
	return false
}

func (f *Filter) matchCVEs(cves []string) bool {
	for _, cve := range cves {
		if f.excludeCVEs[cve] {
			return false
		}
	}
	if len(f.includeCVEs) == 0 {
		return true
	}
	for _, cve := range cves {
		if f.includeCVEs[cve] {
			return true
		}
	}
	return false
}

// parseNetworks accepts CIDR prefixes and bare addresses; a bare address
// becomes a single-host prefix.
func parseNetworks(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.ContainsRune(entry, '/') {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("parsing network %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix)
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("parsing address %q: %w", entry, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", pat, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
