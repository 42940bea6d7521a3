// Package normalize maps raw result records onto the canonical finding
// model, interning vulnerabilities and hosts per run.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/gvmreport/gvmreport/internal/models"
	"github.com/gvmreport/gvmreport/internal/parser"
	"github.com/gvmreport/gvmreport/pkg/logger"
)

// Normalizer converts RawRecords into Findings. It owns the run-scoped
// intern tables for vulnerabilities and hosts: one instance per report
// run, never shared across runs.
type Normalizer struct {
	thresholds models.Thresholds
	vulns      map[string]*models.Vulnerability
	hosts      map[models.HostKey]*models.Host
	logger     logger.Logger
}

// NewNormalizer creates a normalizer with fresh intern tables.
func NewNormalizer(thresholds models.Thresholds, log logger.Logger) *Normalizer {
	return &Normalizer{
		thresholds: thresholds,
		vulns:      make(map[string]*models.Vulnerability),
		hosts:      make(map[models.HostKey]*models.Host),
		logger:     log,
	}
}

// Vulnerabilities returns the interned vulnerabilities in no particular order.
func (n *Normalizer) Vulnerabilities() []*models.Vulnerability {
	out := make([]*models.Vulnerability, 0, len(n.vulns))
	for _, v := range n.vulns {
		out = append(out, v)
	}
	return out
}

// Hosts returns the interned hosts in no particular order.
func (n *Normalizer) Hosts() []*models.Host {
	out := make([]*models.Host, 0, len(n.hosts))
	for _, h := range n.hosts {
		out = append(out, h)
	}
	return out
}

// Normalize converts one raw record into a finding, interning its
// vulnerability and host. A record without an identifier yields a
// MissingIdentifierError and leaves the intern tables untouched.
func (n *Normalizer) Normalize(rec *parser.RawRecord) (*models.Finding, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return nil, &parser.MissingIdentifierError{}
	}

	severity := n.resolveSeverity(rec)
	risk := n.thresholds.Level(severity)

	f := &models.Finding{
		ID:             rec.ID,
		Vulnerability:  n.internVulnerability(rec),
		Host:           n.internHost(rec),
		Threat:         n.resolveThreat(rec.Threat, risk),
		Severity:       severity,
		Risk:           risk,
		Description:    rec.Description,
		Comment:        rec.Comment,
		Owner:          rec.Owner,
		ScanNVTVersion: rec.ScanNVTVersion,
		Created:        parseTime(rec.CreationTime),
		Modified:       parseTime(rec.ModificationTime),
	}

	port, err := models.ParsePort(rec.Port, rec.Description)
	f.Port = port
	if err == nil {
		f.Host.ObservePort(port)
	} else if rec.Port != "" {
		n.logger.Debug("unparseable port on record", "record", rec.ID, "port", rec.Port)
	}

	if rec.QoD.Value != "" {
		if v, err := strconv.Atoi(rec.QoD.Value); err == nil {
			f.QoD = models.QoD{Value: v, Type: rec.QoD.Type}
		}
	}

	if len(rec.Detection.Details) > 0 {
		f.Details = make(map[string]string, len(rec.Detection.Details))
		for _, d := range rec.Detection.Details {
			f.Details[d.Name] = d.Value
		}
	}

	if t, ok := models.ParseThreatLevel(rec.OriginalThreat); ok {
		f.OriginalThreat = t
	}
	f.OriginalSeverity = parseScore(rec.OriginalSeverity)

	return f, nil
}

// internVulnerability returns the run's canonical instance for the
// record's oid, creating it from this record on first sight. First-seen
// field values win; later records for the same oid are not merged.
func (n *Normalizer) internVulnerability(rec *parser.RawRecord) *models.Vulnerability {
	oid := rec.NVT.OID
	if v, ok := n.vulns[oid]; ok {
		return v
	}

	name := rec.NVT.Name
	if name == "" {
		name = rec.Name
	}

	v := &models.Vulnerability{
		OID:          oid,
		Name:         name,
		Family:       rec.NVT.Family,
		CVSSBase:     parseScore(rec.NVT.CVSSBase),
		Solution:     rec.NVT.Solution.Text,
		SolutionType: rec.NVT.Solution.Type,
		Tags:         parseTags(rec.NVT.Tags),
	}
	for _, ref := range rec.NVT.Refs {
		v.References = append(v.References, models.Reference{Type: ref.Type, ID: ref.ID})
	}

	n.vulns[oid] = v
	return v
}

// internHost returns the run's canonical instance for the record's host
// identity: (asset id, hostname), degrading to the hostname alone when no
// asset id was reported.
func (n *Normalizer) internHost(rec *parser.RawRecord) *models.Host {
	hostname := rec.Host.Hostname
	if hostname == "" {
		hostname = rec.Host.Address
	}

	key := models.HostKey{AssetID: rec.Host.Asset.ID, Hostname: hostname}
	if h, ok := n.hosts[key]; ok {
		return h
	}

	h := &models.Host{
		AssetID:  rec.Host.Asset.ID,
		Hostname: hostname,
		Address:  rec.Host.Address,
	}
	n.hosts[key] = h
	return h
}

// resolveSeverity applies the precedence: explicit severity, highest nvt
// severities score, cvss_base, absent.
func (n *Normalizer) resolveSeverity(rec *parser.RawRecord) *float64 {
	if s := parseScore(rec.Severity); s != nil {
		return s
	}

	var best *float64
	consider := func(s *float64) {
		if s != nil && (best == nil || *s > *best) {
			best = s
		}
	}
	for _, entry := range rec.NVT.Severities.Entries {
		consider(parseScore(entry.Score))
	}
	consider(parseScore(rec.NVT.Severities.Score))
	if best != nil {
		return best
	}

	return parseScore(rec.NVT.CVSSBase)
}

func (n *Normalizer) resolveThreat(reported string, risk models.RiskLevel) models.ThreatLevel {
	if t, ok := models.ParseThreatLevel(reported); ok {
		return t
	}
	return risk.ThreatLevel()
}

// parseScore parses a severity score, treating anything non-numeric or
// outside [0.0, 10.0] as absent.
func parseScore(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0.0 || v > 10.0 {
		return nil
	}
	return &v
}

// parseTags splits the nvt tag string, a pipe-separated list of
// name=value pairs.
func parseTags(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, "|") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			continue
		}
		tags[name] = value
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
