package netbox

import (
	"encoding/json"
	"fmt"
	"strings"

	"agent-reconciler/core/reconcile"
	"agent-reconciler/core/utils"
)

type named struct {
	Name string `json:"name"`
}

type address struct {
	Address string `json:"address"`
	DNSName string `json:"dns_name"`
}

// recordPayload is the subset of an enriched device or VM we read.
type recordPayload struct {
	ID         any             `json:"id"`
	Name       string          `json:"name"`
	Status     json.RawMessage `json:"status"`
	Site       *named          `json:"site"`
	Platform   *named          `json:"platform"`
	PrimaryIP  *address        `json:"primary_ip"`
	PrimaryIP4 *address        `json:"primary_ip4"`
	PrimaryIP6 *address        `json:"primary_ip6"`
	Interfaces []struct {
		IPAddresses []address `json:"ip_addresses"`
	} `json:"interfaces"`
}

func decodeRecord(raw json.RawMessage) (recordPayload, error) {
	var p recordPayload
	if err := decodeInto(raw, &p); err != nil {
		return recordPayload{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return p, nil
}

// ToRecords converts enriched device or VM payloads into records of kind,
// keeping order. Undecodable payloads become records with only Raw set.
func ToRecords(raws []json.RawMessage, kind reconcile.Kind) []reconcile.InfraRecord {
	out := make([]reconcile.InfraRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := ToRecord(raw, kind)
		if err != nil {
			rec = reconcile.InfraRecord{Kind: kind, Status: reconcile.InfraUnknown, Raw: raw}
		}
		out = append(out, rec)
	}
	return out
}

// ToRecord converts one enriched device or VM payload.
func ToRecord(raw json.RawMessage, kind reconcile.Kind) (reconcile.InfraRecord, error) {
	p, err := decodeRecord(raw)
	if err != nil {
		return reconcile.InfraRecord{}, err
	}

	rec := reconcile.InfraRecord{
		Kind:   kind,
		Name:   strings.TrimSpace(p.Name),
		Status: normalizeStatus(statusValue(p.Status)),
		Raw:    raw,
	}
	if p.ID != nil {
		rec.ID = utils.ToString(p.ID)
	}
	if p.Site != nil {
		rec.Site = p.Site.Name
	}
	if p.Platform != nil {
		rec.Platform = p.Platform.Name
	}

	var addrs []address
	for _, primary := range []*address{p.PrimaryIP, p.PrimaryIP4, p.PrimaryIP6} {
		if primary != nil {
			addrs = append(addrs, *primary)
		}
	}
	for _, iface := range p.Interfaces {
		addrs = append(addrs, iface.IPAddresses...)
	}

	rec.IPs = make([]string, 0, len(addrs))
	seenIP := make(map[string]bool)
	seenDNS := make(map[string]bool)
	for _, a := range addrs {
		if ip := stripCIDR(a.Address); ip != "" && !seenIP[ip] {
			seenIP[ip] = true
			rec.IPs = append(rec.IPs, ip)
		}
		if dns := strings.TrimSpace(a.DNSName); dns != "" && !seenDNS[dns] {
			seenDNS[dns] = true
			rec.DNSNames = append(rec.DNSNames, dns)
		}
	}
	return rec, nil
}

// statusValue reads a status given as {"value": "active"} or "active".
func statusValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func normalizeStatus(s string) reconcile.InfraStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return reconcile.InfraActive
	case "offline", "failed", "decommissioning":
		return reconcile.InfraOffline
	default:
		return reconcile.InfraUnknown
	}
}

func stripCIDR(addr string) string {
	addr = strings.TrimSpace(addr)
	if i := strings.IndexByte(addr, '/'); i >= 0 {
		addr = addr[:i]
	}
	return addr
}

// Statistics summarizes a set of device or VM payloads.
type Statistics struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySite     map[string]int `json:"by_site"`
	ByPlatform map[string]int `json:"by_platform"`
}

// Stats counts records by status, site and platform. Missing values are
// counted as "unknown".
func Stats(raws []json.RawMessage) Statistics {
	st := Statistics{
		Total:      len(raws),
		ByStatus:   make(map[string]int),
		BySite:     make(map[string]int),
		ByPlatform: make(map[string]int),
	}
	for _, raw := range raws {
		p, _ := decodeRecord(raw)
		st.ByStatus[orUnknown(statusValue(p.Status))]++
		site, platform := "", ""
		if p.Site != nil {
			site = p.Site.Name
		}
		if p.Platform != nil {
			platform = p.Platform.Name
		}
		st.BySite[orUnknown(site)]++
		st.ByPlatform[orUnknown(platform)]++
	}
	return st
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
