package planner

import (
	"bytes"
	"encoding/json"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// wireRoot is the top-level input document shape.
type wireRoot struct {
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Plays     []wirePlay      `json:"plays"`
	Variables types.Vars      `json:"variables,omitempty"`
	Inventory json.RawMessage `json:"inventory,omitempty"`
}

type wirePlay struct {
	Name     string          `json:"name"`
	Hosts    json.RawMessage `json:"hosts"`
	Tasks    []types.Task    `json:"tasks"`
	Handlers []types.Handler `json:"handlers,omitempty"`
	Vars     types.Vars      `json:"vars,omitempty"`
}

// wireHostObject is the extended-inventory per-host shape; only the fields
// the planner actually consumes are decoded.
type wireHostObject struct {
	Address string     `json:"address,omitempty"`
	Port    int        `json:"port,omitempty"`
	User    string     `json:"user,omitempty"`
	Groups  []string   `json:"groups,omitempty"`
	Vars    types.Vars `json:"vars,omitempty"`
}

type wireGroupObject struct {
	Hosts []string   `json:"hosts,omitempty"`
	Vars  types.Vars `json:"vars,omitempty"`
}

// DecodeInput parses a raw input document into a Playbook and Inventory,
// absorbing the producer quirks documented in the wire format document and SPEC_FULL.md:
// hosts as string/array/null, a duplicate top-level "inventory" key, a
// missing inventory section, and legacy-vs-extended inventory shapes.
func DecodeInput(raw []byte) (types.Playbook, types.Inventory, error) {
	raw = renameFirstDuplicateInventoryKey(raw)

	var root wireRoot
	if err := json.Unmarshal(raw, &root); err != nil {
		return types.Playbook{}, types.Inventory{}, &types.SerializationError{Cause: err}
	}

	plays := make([]types.Play, 0, len(root.Plays))
	for _, wp := range root.Plays {
		hosts, err := decodeHosts(wp.Hosts)
		if err != nil {
			return types.Playbook{}, types.Inventory{}, &types.SerializationError{Cause: err}
		}
		plays = append(plays, types.Play{
			Name:     wp.Name,
			Hosts:    hosts,
			Tasks:    wp.Tasks,
			Handlers: wp.Handlers,
			Vars:     wp.Vars,
		})
	}

	pb := types.Playbook{Plays: plays, Variables: root.Variables}

	inv, err := decodeInventory(root.Inventory)
	if err != nil {
		return types.Playbook{}, types.Inventory{}, err
	}

	return pb, inv, nil
}

// decodeHosts parses a play's "hosts" field, which may be a JSON string, an
// array of strings, or absent/null (defaulting to ["localhost"]).
func decodeHosts(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []string{"localhost"}, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	return nil, &types.SerializationError{Cause: jsonShapeError("hosts must be a string, array of strings, or null")}
}

type jsonShapeError string

func (e jsonShapeError) Error() string { return string(e) }

// decodeInventory parses the optional "inventory" section, handling both
// the legacy shape (hosts: []string, groups: map[string][]string) and the
// extended shape (hosts/groups as objects keyed by name, plus host_facts).
func decodeInventory(raw json.RawMessage) (types.Inventory, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return types.NewEmptyInventory(), nil
	}

	var shape struct {
		Hosts     json.RawMessage        `json:"hosts"`
		Groups    json.RawMessage        `json:"groups"`
		Vars      types.Vars             `json:"vars"`
		Variables types.Vars             `json:"variables"`
		HostVars  map[string]types.Vars  `json:"host_vars"`
		HostFacts map[string]types.Vars  `json:"host_facts"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return types.Inventory{}, &types.SerializationError{Cause: err}
	}

	hosts, groups, err := decodeHostsAndGroups(shape.Hosts, shape.Groups)
	if err != nil {
		return types.Inventory{}, err
	}

	vars := shape.Vars
	if vars == nil {
		vars = shape.Variables
	}
	if vars == nil {
		vars = types.Vars{}
	}

	hostFacts := shape.HostFacts
	if hostFacts == nil {
		hostFacts = map[string]types.Vars{}
	}

	return types.Inventory{
		Hosts:     hosts,
		Groups:    groups,
		Vars:      vars,
		HostFacts: hostFacts,
		HostVars:  shape.HostVars,
	}, nil
}

func decodeHostsAndGroups(hostsRaw, groupsRaw json.RawMessage) ([]string, map[string][]string, error) {
	var hosts []string

	// Legacy: array of host names.
	var legacyHosts []string
	if len(hostsRaw) > 0 && json.Unmarshal(hostsRaw, &legacyHosts) == nil {
		hosts = legacyHosts
	} else {
		// Extended: map of name -> host object.
		var extendedHosts map[string]wireHostObject
		if len(hostsRaw) > 0 {
			if err := json.Unmarshal(hostsRaw, &extendedHosts); err != nil {
				return nil, nil, &types.SerializationError{Cause: err}
			}
		}
		for name := range extendedHosts {
			hosts = append(hosts, name)
		}
	}

	groups := map[string][]string{}

	var legacyGroups map[string][]string
	if len(groupsRaw) > 0 && json.Unmarshal(groupsRaw, &legacyGroups) == nil {
		groups = legacyGroups
	} else if len(groupsRaw) > 0 {
		var extendedGroups map[string]wireGroupObject
		if err := json.Unmarshal(groupsRaw, &extendedGroups); err != nil {
			return nil, nil, &types.SerializationError{Cause: err}
		}
		for name, g := range extendedGroups {
			groups[name] = g.Hosts
		}
	}

	return hosts, groups, nil
}

// renameFirstDuplicateInventoryKey handles the legacy-producer bug where the
// input document contains two top-level "inventory" keys: the first
// occurrence is renamed to "old_inventory" so json.Unmarshal parses the
// second (authoritative) one, matching the documented wire format exactly. This is a
// string-level rewrite, not a JSON-aware one, mirroring the upstream CLI's
// own preprocessing step.
func renameFirstDuplicateInventoryKey(raw []byte) []byte {
	const key = `"inventory"`
	first := bytes.Index(raw, []byte(key))
	if first < 0 {
		return raw
	}
	second := bytes.Index(raw[first+len(key):], []byte(key))
	if second < 0 {
		return raw // only one occurrence; nothing to rename
	}

	out := make([]byte, 0, len(raw)+4)
	out = append(out, raw[:first]...)
	out = append(out, []byte(`"old_inventory"`)...)
	out = append(out, raw[first+len(key):]...)
	return out
}
