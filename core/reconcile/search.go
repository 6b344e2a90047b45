package reconcile

import "fmt"

// SearchResult lists every record carrying a given address.
type SearchResult struct {
	IP      string        `json:"ip"`
	Agents  []AgentRecord `json:"agents"`
	Devices []InfraRecord `json:"devices"`
	VMs     []InfraRecord `json:"vms"`
}

// Total returns the number of records found.
func (r *SearchResult) Total() int {
	return len(r.Agents) + len(r.Devices) + len(r.VMs)
}

// SearchByIP finds agents, devices and VMs whose normalized address set
// contains ip. Any population may be empty or nil.
func SearchByIP(ip string, agents []AgentRecord, devices, vms []InfraRecord) (*SearchResult, error) {
	want, ok := NormalizeIP(ip)
	if !ok {
		return nil, fmt.Errorf("invalid IP address %q", ip)
	}

	result := &SearchResult{
		IP:      want,
		Agents:  make([]AgentRecord, 0),
		Devices: make([]InfraRecord, 0),
		VMs:     make([]InfraRecord, 0),
	}

	for _, a := range agents {
		if hasIP(a.IPs, want) {
			result.Agents = append(result.Agents, a)
		}
	}
	result.Devices = filterByIP(devices, want, result.Devices)
	result.VMs = filterByIP(vms, want, result.VMs)
	return result, nil
}

func filterByIP(records []InfraRecord, ip string, out []InfraRecord) []InfraRecord {
	for _, r := range records {
		if hasIP(r.IPs, ip) {
			out = append(out, r)
		}
	}
	return out
}

// hasIP reports whether any of raws normalizes to ip. Malformed entries
// are skipped.
func hasIP(raws []string, ip string) bool {
	for _, raw := range raws {
		if got, ok := NormalizeIP(raw); ok && got == ip {
			return true
		}
	}
	return false
}
