package parser

import "strings"

// RawRecord is one per-finding result element exactly as it appears in the
// report document. Every field except the record id is optional; absent
// elements stay at their zero value. RawRecords are ephemeral and are
// consumed by the normalizer.
type RawRecord struct {
	ID               string       `xml:"id,attr"`
	Name             string       `xml:"name"`
	Owner            string       `xml:"owner>name"`
	CreationTime     string       `xml:"creation_time"`
	ModificationTime string       `xml:"modification_time"`
	Comment          string       `xml:"comment"`
	Detection        RawDetection `xml:"detection"`
	Host             RawHost      `xml:"host"`
	Port             string       `xml:"port"`
	NVT              RawNVT       `xml:"nvt"`
	ScanNVTVersion   string       `xml:"scan_nvt_version"`
	Threat           string       `xml:"threat"`
	Severity         string       `xml:"severity"`
	QoD              RawQoD       `xml:"qod"`
	Description      string       `xml:"description"`
	OriginalThreat   string       `xml:"original_threat"`
	OriginalSeverity string       `xml:"original_severity"`
}

// RawHost carries the host element: the address as character data plus the
// asset id and hostname children.
type RawHost struct {
	Address  string   `xml:",chardata"`
	Asset    RawAsset `xml:"asset"`
	Hostname string   `xml:"hostname"`
}

// RawAsset is the asset child of a host element.
type RawAsset struct {
	ID string `xml:"asset_id,attr"`
}

// RawNVT is the nvt block of a result record.
type RawNVT struct {
	OID        string        `xml:"oid,attr"`
	Type       string        `xml:"type"`
	Name       string        `xml:"name"`
	Family     string        `xml:"family"`
	CVSSBase   string        `xml:"cvss_base"`
	Severities RawSeverities `xml:"severities"`
	Tags       string        `xml:"tags"`
	Solution   RawSolution   `xml:"solution"`
	Refs       []RawRef      `xml:"refs>ref"`
}

// RawSeverities is the severities container under an nvt block.
type RawSeverities struct {
	Score   string        `xml:"score,attr"`
	Entries []RawSeverity `xml:"severity"`
}

// RawSeverity is one severity entry with its origin, date, score and
// vector value.
type RawSeverity struct {
	Type   string `xml:"type,attr"`
	Origin string `xml:"origin"`
	Date   string `xml:"date"`
	Score  string `xml:"score"`
	Value  string `xml:"value"`
}

// RawSolution is the nvt solution with its type attribute.
type RawSolution struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// RawRef is one reference entry of an nvt block.
type RawRef struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

// RawQoD is the quality-of-detection element.
type RawQoD struct {
	Value string `xml:"value"`
	Type  string `xml:"type"`
}

// RawDetection holds the detection details reported for a record.
type RawDetection struct {
	Details []RawDetail `xml:"result>details>detail"`
}

// RawDetail is one name/value detection detail pair.
type RawDetail struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

// tidy strips the indentation whitespace that character-data fields pick
// up from pretty-printed documents.
func (r *RawRecord) tidy() {
	r.ID = strings.TrimSpace(r.ID)
	r.Host.Address = strings.TrimSpace(r.Host.Address)
	r.Host.Hostname = strings.TrimSpace(r.Host.Hostname)
	r.Port = strings.TrimSpace(r.Port)
	r.Threat = strings.TrimSpace(r.Threat)
	r.Severity = strings.TrimSpace(r.Severity)
	r.NVT.CVSSBase = strings.TrimSpace(r.NVT.CVSSBase)
	r.NVT.Solution.Text = strings.TrimSpace(r.NVT.Solution.Text)
	r.NVT.Tags = strings.TrimSpace(r.NVT.Tags)
	r.OriginalThreat = strings.TrimSpace(r.OriginalThreat)
	r.OriginalSeverity = strings.TrimSpace(r.OriginalSeverity)
	r.QoD.Value = strings.TrimSpace(r.QoD.Value)
	r.QoD.Type = strings.TrimSpace(r.QoD.Type)
	for i := range r.NVT.Severities.Entries {
		e := &r.NVT.Severities.Entries[i]
		e.Score = strings.TrimSpace(e.Score)
		e.Value = strings.TrimSpace(e.Value)
	}
}
