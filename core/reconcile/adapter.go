package reconcile

import "strings"

// AgentIdentity projects an agent into the comparison shape. Malformed
// addresses are dropped and reported; they never fail the projection.
func AgentIdentity(a AgentRecord) (Identity, []Diagnostic) {
	id := Identity{Kind: KindAgent, ID: strings.TrimSpace(a.ID)}
	var diags []Diagnostic

	if id.ID == "" {
		id.Skipped = true
		diags = append(diags, invalidInput(KindAgent, "", "agent %q has no identifier", a.Name))
	}

	id.Hostnames = hostnameSet(a.Name)
	if len(id.Hostnames) == 0 {
		diags = append(diags, invalidInput(KindAgent, id.ID, "agent has no usable hostname (raw %q)", a.Name))
	}

	id.IPs, diags = ipSet(KindAgent, id.ID, a.IPs, diags)
	return id, diags
}

// InfraIdentity projects a device or VM into the comparison shape.
// Hostnames are the record name plus any DNS names on its addresses.
func InfraIdentity(r InfraRecord) (Identity, []Diagnostic) {
	id := Identity{Kind: r.Kind, ID: strings.TrimSpace(r.ID)}
	var diags []Diagnostic

	if id.ID == "" {
		id.Skipped = true
		diags = append(diags, invalidInput(r.Kind, "", "%s %q has no identifier", r.Kind, r.Name))
	}

	id.Hostnames = hostnameSet(r.Name, r.DNSNames...)
	id.IPs, diags = ipSet(r.Kind, id.ID, r.IPs, diags)
	return id, diags
}

// hostnameSet normalizes name and its aliases into an ordered set without
// the sentinel.
func hostnameSet(name string, aliases ...string) []string {
	var out []string
	seen := make(map[string]struct{}, len(aliases)+1)
	for _, raw := range append([]string{name}, aliases...) {
		h := NormalizeHostname(raw)
		if h == NoHostname {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// ipSet normalizes addresses into an ordered set, appending a diagnostic
// for every address that does not parse.
func ipSet(kind Kind, id string, raws []string, diags []Diagnostic) ([]string, []Diagnostic) {
	var out []string
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ip, ok := NormalizeIP(raw)
		if !ok {
			diags = append(diags, invalidInput(kind, id, "invalid IP address %q ignored", raw))
			continue
		}
		if _, dup := seen[ip]; dup {
			continue
		}
		seen[ip] = struct{}{}
		out = append(out, ip)
	}
	return out, diags
}
