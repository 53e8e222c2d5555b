package planner

import "github.com/rustle-plan/rustle-plan/internal/types"

var lowRiskModules = map[string]bool{
	"debug":  true,
	"assert": true,
	"fail":   true,
	"meta":   true,
}

var highRiskModules = map[string]bool{
	"service": true,
	"systemd": true,
	"package": true,
	"yum":     true,
	"apt":     true,
}

var criticalRiskModules = map[string]bool{
	"shell":   true,
	"command": true,
	"raw":     true,
}

// ClassifyRisk maps a module name to its risk tier. Anything not
// explicitly Low, High, or Critical is Medium, including unknown modules.
func ClassifyRisk(module string) types.RiskLevel {
	switch {
	case lowRiskModules[module]:
		return types.RiskLow
	case highRiskModules[module]:
		return types.RiskHigh
	case criticalRiskModules[module]:
		return types.RiskCritical
	default:
		return types.RiskMedium
	}
}

// parallelSafeHighRisk lists the (currently empty in practice) High-risk
// modules allowed to run in parallel.
var parallelSafeHighRisk = map[string]bool{
	"debug":  true,
	"assert": true,
	"meta":   true,
}

// CanRunParallel derives the parallel-safe flag for a task's module.
func CanRunParallel(module string) bool {
	risk := ClassifyRisk(module)
	switch risk {
	case types.RiskCritical:
		return false
	case types.RiskHigh:
		return parallelSafeHighRisk[module]
	default:
		return true
	}
}
