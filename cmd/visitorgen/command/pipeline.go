package command

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/diagnostic"
	"visitorgen/internal/gen"
	"visitorgen/internal/plan"
)

// pipeline is the result of one full configuration run, ready for code
// generation.
type pipeline struct {
	pkg  *analyze.PackageInfo
	plan *plan.Plan
}

// runPipeline loads the configuration, analyzes the subject package, and
// assembles the generation plan. Diagnostics print to the command's error
// stream; a non-nil error means generation must not proceed.
func runPipeline(cmd *cobra.Command) (*pipeline, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	pattern := loadPattern(configPath, cfg.Package)
	logger.Debug("loading subject package", zap.String("pattern", pattern))

	graph, err := analyze.NewAnalyzer().LoadPackages(pattern)
	if err != nil {
		return nil, err
	}

	pkg, err := subjectPackage(graph, pattern)
	if err != nil {
		return nil, err
	}

	model, diags := config.NewNormalizer(cfg, graph, pkg.Path).Normalize()
	printDiagnostics(cmd, diags)

	if diags.HasErrors() {
		return nil, fmt.Errorf("configuration has %d error(s)", len(diags.Errors))
	}

	p, diags := plan.NewBuilder(model).Build()
	printDiagnostics(cmd, diags)

	if diags.HasErrors() {
		return nil, fmt.Errorf("planning failed with %d error(s)", len(diags.Errors))
	}

	logger.Debug("plan assembled",
		zap.Int("drives", len(p.Drives)),
		zap.Int("visits", len(p.Visits)),
		zap.Int("groups", len(p.Groups)))

	return &pipeline{pkg: pkg, plan: p}, nil
}

// renderFile runs the pipeline through code generation without touching
// the disk.
func renderFile(cmd *cobra.Command) (*pipeline, *gen.GeneratedFile, error) {
	pipe, err := runPipeline(cmd)
	if err != nil {
		return nil, nil, err
	}

	file, err := gen.NewGenerator(gen.Config{Logger: logger}).Generate(pipe.plan)
	if err != nil {
		return nil, nil, err
	}

	return pipe, file, nil
}

// loadPattern rebases a relative package pattern onto the directory of
// the configuration file, so a run works from any working directory.
// Import-path patterns pass through untouched.
func loadPattern(configPath, pattern string) string {
	if !strings.HasPrefix(pattern, ".") {
		return pattern
	}

	joined := filepath.ToSlash(filepath.Join(filepath.Dir(configPath), pattern))
	if filepath.IsAbs(joined) || strings.HasPrefix(joined, "..") {
		return joined
	}

	return "./" + joined
}

// subjectPackage finds the loaded root package the pattern named. A
// single pattern normally resolves to exactly one package; directory
// patterns register under their import path, so the single-package case
// is matched by count.
func subjectPackage(graph *analyze.TypeGraph, pattern string) (*analyze.PackageInfo, error) {
	if pkg := graph.Packages[pattern]; pkg != nil {
		return pkg, nil
	}

	if len(graph.Packages) == 1 {
		for _, pkg := range graph.Packages {
			return pkg, nil
		}
	}

	paths := make([]string, 0, len(graph.Packages))
	for path := range graph.Packages {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return nil, fmt.Errorf("pattern %q matched %d packages (%s); the configuration needs exactly one subject package",
		pattern, len(paths), strings.Join(paths, ", "))
}

// printDiagnostics writes accumulated diagnostics to the command's error
// stream, worst first.
func printDiagnostics(cmd *cobra.Command, diags *diagnostic.Diagnostics) {
	out := cmd.ErrOrStderr()

	for _, d := range diags.Errors {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}
}
