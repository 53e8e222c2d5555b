package types

// Inventory is the parsed, read-only fleet definition: hosts, groups, and
// variables, plus optional per-host facts gathered by an upstream producer.
//
// The wire format accepts two shapes (legacy and extended, see
// internal/planner/input.go): this struct is the single normalized form
// both shapes are adapted into before planning begins.
type Inventory struct {
	Hosts     []string               `json:"hosts"`
	Groups    map[string][]string    `json:"groups"`
	Vars      Vars                   `json:"vars,omitempty"`
	HostFacts map[string]Vars        `json:"host_facts,omitempty"`
	HostVars  map[string]Vars        `json:"host_vars,omitempty"`
}

// NewEmptyInventory synthesizes the default inventory used when the input
// document omits one entirely.
func NewEmptyInventory() Inventory {
	return Inventory{
		Hosts:     []string{"localhost"},
		Groups:    map[string][]string{},
		Vars:      Vars{},
		HostFacts: map[string]Vars{},
	}
}

// FactsFor returns the fact bag for a host, or nil if none is recorded.
func (inv Inventory) FactsFor(host string) Vars {
	if inv.HostFacts == nil {
		return nil
	}
	return inv.HostFacts[host]
}
