package planner

import (
	"fmt"
	"strings"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

func groupID(i int) string { return fmt.Sprintf("group-%d", i) }

var binaryEligibleModules = map[string]bool{
	"file": true, "copy": true, "template": true, "shell": true, "command": true,
	"package": true, "service": true, "user": true, "group": true, "cron": true,
}

var binaryBlockedModules = map[string]bool{
	"pause": true, "prompt": true, "vars_prompt": true,
}

var networkOpModules = map[string]int{
	"copy": 2, "template": 2, "fetch": 2,
}

// networkOps returns the network-operation weight of a module.
func networkOps(module string) int {
	if n, ok := networkOpModules[module]; ok {
		return n
	}
	return 1
}

// IsTaskBinarySuitable implements the single-task suitability test.
func IsTaskBinarySuitable(t types.TaskPlan) (bool, string) {
	if !binaryEligibleModules[t.Module] {
		return false, "module not eligible for binary deployment: " + t.Module
	}
	if t.RiskLevel == types.RiskCritical {
		return false, "task risk level is critical"
	}
	if binaryBlockedModules[t.Module] {
		return false, "module requires interactive execution: " + t.Module
	}
	if _, ok := t.Args["delegate_to"]; ok {
		return false, "task delegates to another host"
	}
	if _, ok := t.Args["local_action"]; ok {
		return false, "task uses local_action"
	}
	for _, c := range t.Conditions {
		if c.Kind == types.ConditionWhen && strings.Contains(c.Expression, "hostvars") {
			return false, "when condition references hostvars"
		}
	}
	return true, ""
}

func hostsOverlap(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, h := range a {
		set[h] = true
	}
	for _, h := range b {
		if set[h] {
			return true
		}
	}
	return false
}

// resourcePathArg extracts the resource-identifying path for conflict
// detection, preferring dest, then path, then src.
func resourcePathArg(t types.TaskPlan) (string, bool) {
	for _, key := range []string{"dest", "path", "src"} {
		if v, ok := t.Args[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func hasResourceConflict(a, b types.TaskPlan) bool {
	if ap, ok := resourcePathArg(a); ok {
		if bp, ok := resourcePathArg(b); ok && ap == bp {
			return true
		}
	}
	if a.Module == "service" && b.Module == "service" {
		aName, aok := a.Args["name"].(string)
		bName, bok := b.Args["name"].(string)
		if aok && bok && aName == bName {
			return true
		}
	}
	return false
}

func shareTag(a, b types.TaskPlan) bool {
	for _, ta := range a.Tags {
		for _, tb := range b.Tags {
			if ta == tb {
				return true
			}
		}
	}
	return false
}

func copyServicePair(a, b types.TaskPlan) bool {
	return (a.Module == "copy" && b.Module == "service") || (b.Module == "copy" && a.Module == "service")
}

func packageServicePair(a, b types.TaskPlan) bool {
	return (a.Module == "package" && b.Module == "service") || (b.Module == "package" && a.Module == "service")
}

func interferes(a, b types.TaskPlan) bool {
	for _, dep := range a.Dependencies {
		if dep == b.ID {
			return true
		}
	}
	for _, dep := range b.Dependencies {
		if dep == a.ID {
			return true
		}
	}
	for _, n := range a.Notify {
		if strings.Contains(b.Name, n) {
			return true
		}
	}
	for _, n := range b.Notify {
		if strings.Contains(a.Name, n) {
			return true
		}
	}
	return false
}

// CanGroupTasks implements the pairwise grouping predicate.
func CanGroupTasks(a, b types.TaskPlan) bool {
	if !hostsOverlap(a.Hosts, b.Hosts) {
		return false
	}
	if hasResourceConflict(a, b) {
		return false
	}
	if shareTag(a, b) || copyServicePair(a, b) || packageServicePair(a, b) {
		return true
	}
	return !interferes(a, b)
}

// SuitabilityGroup is one greedy-grouped cluster of binary-eligible tasks.
type SuitabilityGroup struct {
	ID    string
	Tasks []types.TaskPlan
}

// SuitabilityAnalysis is the result of the greedy grouping pass.
type SuitabilityAnalysis struct {
	Groups     []SuitabilityGroup
	Rejections map[string]string // task id -> reason
}

// AnalyzeBinarySuitability runs the greedy seed-and-retain grouping pass
// over tasks. The algorithm is deterministic but order-sensitive to
// the input task sequence, per the wire format document's documented open question.
func AnalyzeBinarySuitability(tasks []types.TaskPlan) SuitabilityAnalysis {
	result := SuitabilityAnalysis{Rejections: make(map[string]string)}
	grouped := make(map[string]bool, len(tasks))
	groupIdx := 0

	for _, seed := range tasks {
		if grouped[seed.ID] {
			continue
		}
		if ok, reason := IsTaskBinarySuitable(seed); !ok {
			result.Rejections[seed.ID] = reason
			continue
		}

		members := []types.TaskPlan{seed}
		grouped[seed.ID] = true

		for _, u := range tasks {
			if grouped[u.ID] {
				continue
			}
			if ok, _ := IsTaskBinarySuitable(u); !ok {
				continue
			}
			if CanGroupTasks(seed, u) {
				members = append(members, u)
				grouped[u.ID] = true
			}
		}

		if len(members) >= 2 {
			result.Groups = append(result.Groups, SuitabilityGroup{
				ID:    groupID(groupIdx),
				Tasks: members,
			})
			groupIdx++
			continue
		}

		totalNetOps := 0
		for _, m := range members {
			totalNetOps += networkOps(m.Module)
		}
		if totalNetOps >= 3 {
			result.Groups = append(result.Groups, SuitabilityGroup{
				ID:    groupID(groupIdx),
				Tasks: members,
			})
			groupIdx++
		} else {
			// Undo the speculative grouping and mark the seed rejected.
			for _, m := range members {
				grouped[m.ID] = false
			}
			grouped[seed.ID] = true
			result.Rejections[seed.ID] = "insufficient network operations"
		}
	}

	return result
}
