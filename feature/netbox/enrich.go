package netbox

import (
	"bytes"
	"encoding/json"
	"fmt"

	"agent-reconciler/core/utils"
)

const (
	assignedDeviceInterface = "dcim.interface"
	assignedVMInterface     = "virtualization.vminterface"
)

type objectRef struct {
	ID any `json:"id"`
}

type interfacePayload struct {
	ID             any        `json:"id"`
	Device         *objectRef `json:"device"`
	VirtualMachine *objectRef `json:"virtual_machine"`
}

type ipPayload struct {
	AssignedObjectType string `json:"assigned_object_type"`
	AssignedObjectID   any    `json:"assigned_object_id"`
}

func decodeInto(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func idString(v any) string {
	if v == nil {
		return ""
	}
	return utils.ToString(v)
}

// groupIPs indexes IP addresses by the id of the interface of objectType
// they are assigned to.
func groupIPs(ips []json.RawMessage, objectType string) map[string][]json.RawMessage {
	out := make(map[string][]json.RawMessage)
	for _, raw := range ips {
		var ip ipPayload
		if err := decodeInto(raw, &ip); err != nil {
			continue
		}
		if ip.AssignedObjectType != objectType {
			continue
		}
		if id := idString(ip.AssignedObjectID); id != "" {
			out[id] = append(out[id], raw)
		}
	}
	return out
}

// groupInterfaces indexes interfaces by their parent device or VM id and
// attaches each interface's IP addresses under "ip_addresses".
func groupInterfaces(ifaces []json.RawMessage, ips map[string][]json.RawMessage, vm bool) (map[string][]json.RawMessage, error) {
	out := make(map[string][]json.RawMessage)
	for _, raw := range ifaces {
		var iface interfacePayload
		if err := decodeInto(raw, &iface); err != nil {
			continue
		}
		parent := iface.Device
		if vm {
			parent = iface.VirtualMachine
		}
		if parent == nil {
			continue
		}
		parentID := idString(parent.ID)
		if parentID == "" {
			continue
		}

		enriched, err := attach(raw, "ip_addresses", ips[idString(iface.ID)])
		if err != nil {
			return nil, err
		}
		out[parentID] = append(out[parentID], enriched)
	}
	return out, nil
}

// enrich attaches grouped interfaces to every record under "interfaces".
// Records without interfaces get an empty list.
func enrich(records []json.RawMessage, ifaces map[string][]json.RawMessage) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(records))
	for _, raw := range records {
		var ref objectRef
		if err := decodeInto(raw, &ref); err != nil {
			out = append(out, raw)
			continue
		}
		enriched, err := attach(raw, "interfaces", ifaces[idString(ref.ID)])
		if err != nil {
			return nil, err
		}
		out = append(out, enriched)
	}
	return out, nil
}

// attach sets key on the JSON object raw to the list children.
func attach(raw json.RawMessage, key string, children []json.RawMessage) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return raw, nil
	}
	if children == nil {
		children = make([]json.RawMessage, 0)
	}
	list, err := json.Marshal(children)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	obj[key] = list

	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record with %s: %w", key, err)
	}
	return b, nil
}
