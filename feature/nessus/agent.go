package nessus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agent-reconciler/core/reconcile"
	"agent-reconciler/core/utils"
)

// agentPayload is the subset of a Nessus agent object we read.
// Numeric fields are decoded as json.Number.
type agentPayload struct {
	ID          any               `json:"id"`
	Name        string            `json:"name"`
	IP          any               `json:"ip"`
	Platform    string            `json:"platform"`
	Status      string            `json:"status"`
	LastConnect any               `json:"last_connect"`
	Groups      []json.RawMessage `json:"groups"`
	Version     string            `json:"version"`
	CoreVersion string            `json:"core_version"`
}

func (p agentPayload) version() string {
	if p.Version != "" {
		return p.Version
	}
	return p.CoreVersion
}

// ToRecords converts raw agent payloads into agent records, keeping order.
// Payloads that cannot be decoded become records with only Raw set, which
// the reconciliation engine reports as malformed.
func ToRecords(raws []json.RawMessage) []reconcile.AgentRecord {
	out := make([]reconcile.AgentRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := ToRecord(raw)
		if err != nil {
			rec = reconcile.AgentRecord{Raw: raw, Status: reconcile.AgentUnknown}
		}
		out = append(out, rec)
	}
	return out
}

// ToRecord converts one raw agent payload.
func ToRecord(raw json.RawMessage) (reconcile.AgentRecord, error) {
	p, err := decodePayload(raw)
	if err != nil {
		return reconcile.AgentRecord{}, err
	}

	rec := reconcile.AgentRecord{
		Name:     strings.TrimSpace(p.Name),
		Status:   normalizeStatus(p.Status),
		Platform: strings.TrimSpace(p.Platform),
		Groups:   groupNames(p.Groups),
		IPs:      addresses(p.IP),
		Raw:      raw,
	}
	if p.ID != nil {
		rec.ID = utils.ToString(p.ID)
	}
	if epoch := utils.ToInt(p.LastConnect); epoch > 0 {
		seen := time.Unix(int64(epoch), 0).UTC()
		rec.LastSeen = &seen
	}
	return rec, nil
}

func decodePayload(raw json.RawMessage) (agentPayload, error) {
	var p agentPayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return agentPayload{}, fmt.Errorf("failed to decode agent: %w", err)
	}
	return p, nil
}

func normalizeStatus(s string) reconcile.AgentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return reconcile.AgentOnline
	case "offline":
		return reconcile.AgentOffline
	default:
		return reconcile.AgentUnknown
	}
}

// groupNames accepts groups as plain strings or as {"name": ...} objects.
func groupNames(groups []json.RawMessage) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		var name string
		if err := json.Unmarshal(g, &name); err != nil {
			var obj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(g, &obj); err != nil {
				continue
			}
			name = obj.Name
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// addresses reads the ip field, which is a string (possibly comma
// separated) or a list of strings.
func addresses(v any) []string {
	var raw []string
	switch ip := v.(type) {
	case nil:
	case string:
		raw = strings.FieldsFunc(ip, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	case []any:
		for _, item := range ip {
			raw = append(raw, utils.ToString(item))
		}
	default:
		raw = append(raw, utils.ToString(ip))
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
