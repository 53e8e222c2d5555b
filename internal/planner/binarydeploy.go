package planner

import (
	"encoding/json"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

const (
	fixedBinaryTransferCost = 2.0
	mib                     = 1024 * 1024
	kib                     = 1024
)

var factsRequiredByModule = map[string][]string{
	"package":  {"ansible_pkg_mgr", "ansible_os_family"},
	"service":  {"ansible_service_mgr"},
	"file":     {"ansible_user_uid", "ansible_user_gid"},
	"copy":     {"ansible_user_uid", "ansible_user_gid"},
	"template": {"ansible_user_uid", "ansible_user_gid"},
}

// DeploymentOption customizes a PlanBinaryDeployments run.
type DeploymentOption func(*deploymentSettings)

type deploymentSettings struct {
	fileContents map[string][]byte
	force        bool
}

// WithFileContents supplies the actual bytes of files a "copy"/"template"
// task would ship, keyed by source path, so the size estimator can refine
// its estimate with a real dry-compression pass instead of the flat
// heuristic. Callers that don't have file bytes on hand (the common case)
// omit this and get the flat heuristic.
func WithFileContents(contents map[string][]byte) DeploymentOption {
	return func(s *deploymentSettings) { s.fileContents = contents }
}

// WithForceBinary bypasses the group-size threshold and the should-deploy
// benefit check, deploying every group that is still binary-compatible and
// has at least one network operation to amortize. It does not bypass either
// of those two hard correctness gates: a group with no compatible modules
// or no network ops can never become a binary deployment regardless.
func WithForceBinary(force bool) DeploymentOption {
	return func(s *deploymentSettings) { s.force = force }
}

// PlanBinaryDeployments runs the Binary Deployment Planner over the
// groups the Suitability Analyzer produced, deciding which qualify and
// constructing their deployment descriptors. Groups are built fresh from
// the play's TaskPlans, not reused from the Strategy Planner's batches.
func PlanBinaryDeployments(groups []SuitabilityGroup, planHosts []string, inv types.Inventory, binaryThreshold int, opts ...DeploymentOption) []types.BinaryDeployment {
	settings := &deploymentSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	var deployments []types.BinaryDeployment

	for _, g := range groups {
		if !settings.force && len(g.Tasks) < binaryThreshold {
			continue
		}
		if !allModulesBinaryCompatible(g.Tasks) {
			continue
		}

		sshOps := 0
		for _, t := range g.Tasks {
			sshOps += networkOps(t.Module)
		}
		if sshOps == 0 {
			continue
		}
		benefit := (float64(sshOps) - fixedBinaryTransferCost) / float64(sshOps)
		if !settings.force && benefit <= 0.5 {
			continue
		}

		deployments = append(deployments, buildDeployment(g, planHosts, inv, settings))
	}

	return optimizeDeployments(deployments)
}

func allModulesBinaryCompatible(tasks []types.TaskPlan) bool {
	for _, t := range tasks {
		if !binaryEligibleModules[t.Module] {
			return false
		}
	}
	return true
}

func buildDeployment(g SuitabilityGroup, planHosts []string, inv types.Inventory, settings *deploymentSettings) types.BinaryDeployment {
	taskIDs := make([]string, 0, len(g.Tasks))
	moduleSet := make(map[string]bool)
	var groupHosts []string
	hostSeen := make(map[string]bool)
	for _, t := range g.Tasks {
		taskIDs = append(taskIDs, t.ID)
		moduleSet[t.Module] = true
		for _, h := range t.Hosts {
			if !hostSeen[h] {
				hostSeen[h] = true
				groupHosts = append(groupHosts, h)
			}
		}
	}

	modules := make([]string, 0, len(moduleSet))
	for m := range moduleSet {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	targetHosts := intersectPreservingOrder(planHosts, groupHosts)

	embedded := buildEmbeddedData(g)
	reqs := determineCompilationRequirements(targetHosts, inv)

	estimatedSize := EstimateCompressedSize(g.Tasks, embedded.StaticFiles, settings.fileContents)

	return types.BinaryDeployment{
		ID:                      g.ID,
		TargetHosts:             targetHosts,
		BinaryName:              "rustle-runner-" + g.ID,
		TaskIDs:                 taskIDs,
		Modules:                 modules,
		EmbeddedData:            embedded,
		ExecutionMode:           types.ModeController,
		EstimatedSizeBytes:      estimatedSize,
		CompilationRequirements: reqs,
	}
}

func intersectPreservingOrder(ordered, set []string) []string {
	present := make(map[string]bool, len(set))
	for _, s := range set {
		present[s] = true
	}
	var out []string
	for _, o := range ordered {
		if present[o] {
			out = append(out, o)
		}
	}
	return out
}

func buildEmbeddedData(g SuitabilityGroup) types.BinaryEmbeddedData {
	planJSON := map[string]any{
		"group_id": g.ID,
		"tasks": taskIDsOf(g.Tasks),
		"hosts": hostsOf(g.Tasks),
	}

	var staticFiles []types.EmbeddedFile
	variables := types.Vars{}
	factsSet := make(map[string]bool)

	for _, t := range g.Tasks {
		if t.Module == "copy" || t.Module == "template" {
			src, srcOK := t.StringArg("src")
			dest, destOK := t.StringArg("dest")
			if srcOK && destOK {
				staticFiles = append(staticFiles, types.EmbeddedFile{
					SourcePath: src,
					DestPath:   dest,
				})
			}
		}

		for key, v := range t.Args {
			if s, ok := v.(string); ok && strings.Contains(s, "{{") && strings.Contains(s, "}}") {
				variables[key] = s
			}
		}

		for _, fact := range factsRequiredByModule[t.Module] {
			factsSet[fact] = true
		}
	}

	facts := make([]string, 0, len(factsSet))
	for f := range factsSet {
		facts = append(facts, f)
	}
	sort.Strings(facts)

	planBytes, _ := json.Marshal(planJSON)
	var planMap types.Vars
	_ = json.Unmarshal(planBytes, &planMap)

	return types.BinaryEmbeddedData{
		ExecutionPlan: planMap,
		StaticFiles:   staticFiles,
		Variables:     variables,
		FactsRequired: facts,
	}
}

func taskIDsOf(tasks []types.TaskPlan) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func hostsOf(tasks []types.TaskPlan) []string {
	seen := make(map[string]bool)
	var hosts []string
	for _, t := range tasks {
		for _, h := range t.Hosts {
			if !seen[h] {
				seen[h] = true
				hosts = append(hosts, h)
			}
		}
	}
	return hosts
}

func determineCompilationRequirements(targetHosts []string, inv types.Inventory) types.CompilationRequirements {
	arch := "x86_64"
	osName := "linux"

	for _, h := range targetHosts {
		facts := inv.FactsFor(h)
		if facts == nil {
			continue
		}
		if a, ok := facts["ansible_architecture"].(string); ok {
			arch = mapArch(a)
		}
		if s, ok := facts["ansible_system"].(string); ok {
			osName = mapOS(s)
		}
		break
	}

	currentArch := mapArch(runtime.GOARCH)
	currentOS := runtime.GOOS

	return types.CompilationRequirements{
		TargetArch:    arch,
		TargetOS:      osName,
		ToolchainVer:  "",
		CrossCompile:  arch != currentArch || osName != currentOS,
		StaticLinking: true,
	}
}

func mapArch(a string) string {
	switch a {
	case "aarch64", "arm64":
		return "aarch64"
	case "x86_64", "amd64":
		return "x86_64"
	case "i386", "i686", "386":
		return "i686"
	default:
		return "x86_64"
	}
}

func mapOS(s string) string {
	switch s {
	case "Darwin", "darwin":
		return "macos"
	case "Linux", "linux":
		return "linux"
	case "Windows", "windows":
		return "windows"
	default:
		return "linux"
	}
}

// optimizeDeployments sorts by estimated size descending and drops entries
// with identical target_hosts.
func optimizeDeployments(deployments []types.BinaryDeployment) []types.BinaryDeployment {
	sort.SliceStable(deployments, func(i, j int) bool {
		return deployments[i].EstimatedSizeBytes > deployments[j].EstimatedSizeBytes
	})

	seen := make(map[string]bool)
	var out []types.BinaryDeployment
	for _, d := range deployments {
		key := strings.Join(d.TargetHosts, ",")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

// EstimateCompressedSize returns the deployment's estimated binary size.
// Absent real file bytes it falls back to the flat heuristic: 5MiB base,
// plus 1KiB per task, plus 10KiB per embedded static file. When the
// caller supplies file contents via WithFileContents, it instead runs a
// cheap zstd dry-compression pass over the concatenated static file
// bytes and folds the compressed size into the estimate, which is more
// accurate whenever the embedded payload is dominated by a few large
// files rather than many small ones.
func EstimateCompressedSize(tasks []types.TaskPlan, staticFiles []types.EmbeddedFile, fileContents map[string][]byte) int64 {
	base := int64(5*mib) + int64(len(tasks))*int64(kib)

	if len(fileContents) == 0 {
		return base + int64(len(staticFiles))*int64(10*kib)
	}

	var raw []byte
	matched := 0
	for _, f := range staticFiles {
		if content, ok := fileContents[f.SourcePath]; ok {
			raw = append(raw, content...)
			matched++
		}
	}
	unmatched := len(staticFiles) - matched
	if len(raw) == 0 {
		return base + int64(unmatched)*int64(10*kib)
	}

	compressed := dryCompress(raw)
	return base + int64(len(compressed)) + int64(unmatched)*int64(10*kib)
}

func dryCompress(raw []byte) []byte {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return raw
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil)
}

// EstimateCompilationTime computes the compile-time estimate:
// 30s + 100ms per task across all deployments.
func EstimateCompilationTime(deployments []types.BinaryDeployment) time.Duration {
	total := 0
	for _, d := range deployments {
		total += len(d.TaskIDs)
	}
	return 30*time.Second + time.Duration(total)*100*time.Millisecond
}
