package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Port is one observed port on a host. Number 0 means the finding applies
// to the host in general rather than a specific port.
type Port struct {
	Number   int
	Protocol string
	Result   string
}

// ParsePort parses the scanner's "number/protocol" port notation, e.g.
// "443/tcp" or "general/tcp". The result text accompanies the port so the
// per-port detection output stays attached to it.
func ParsePort(raw, result string) (Port, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Port{Result: result}, fmt.Errorf("empty port")
	}

	numPart := raw
	proto := ""
	if idx := strings.IndexByte(raw, '/'); idx >= 0 {
		numPart = raw[:idx]
		proto = raw[idx+1:]
	}

	p := Port{Protocol: proto, Result: result}
	if numPart == "general" {
		return p, nil
	}

	n, err := strconv.Atoi(numPart)
	if err != nil || n < 0 || n > 65535 {
		return Port{Result: result}, fmt.Errorf("invalid port %q", raw)
	}
	p.Number = n
	return p, nil
}

// String renders the port back in "number/protocol" notation.
func (p Port) String() string {
	num := "general"
	if p.Number != 0 {
		num = strconv.Itoa(p.Number)
	}
	if p.Protocol == "" {
		return num
	}
	return num + "/" + p.Protocol
}

// HostKey is the intern-table identity of a host. When the scanner did not
// assign an asset id the identity degrades to the hostname alone.
type HostKey struct {
	AssetID  string
	Hostname string
}

// Host is one scanned asset. One instance is shared by reference across
// all findings observed on the same host within a run.
type Host struct {
	AssetID  string
	Hostname string
	Address  string
	Ports    []Port
}

// Key returns the intern-table identity of the host.
func (h *Host) Key() HostKey {
	return HostKey{AssetID: h.AssetID, Hostname: h.Hostname}
}

// ObservePort records a port on the host, keeping the list distinct by
// number and protocol.
func (h *Host) ObservePort(p Port) {
	for _, existing := range h.Ports {
		if existing.Number == p.Number && existing.Protocol == p.Protocol {
			return
		}
	}
	h.Ports = append(h.Ports, p)
}
