package config

import (
	"fmt"
	"go/types"
	"strings"

	"visitorgen/internal/analyze"
	"visitorgen/internal/diagnostic"
	"visitorgen/internal/ident"
)

// Normalizer resolves a parsed Config against a type graph, producing
// the typed Model the planners consume.
type Normalizer struct {
	cfg     *Config
	graph   *analyze.TypeGraph
	pkg     *analyze.PackageInfo
	diags   *diagnostic.Diagnostics
	unionOK map[analyze.TypeID]bool
}

// NewNormalizer creates a Normalizer for one configuration and the graph
// its subject package was loaded into.
func NewNormalizer(cfg *Config, graph *analyze.TypeGraph, pkgPath string) *Normalizer {
	return &Normalizer{
		cfg:     cfg,
		graph:   graph,
		pkg:     graph.Packages[pkgPath],
		diags:   &diagnostic.Diagnostics{},
		unionOK: make(map[analyze.TypeID]bool),
	}
}

// Normalize resolves the whole configuration. Diagnostics accumulate and
// one bad entry never aborts its siblings; callers gate on HasErrors
// before handing the model to the planners.
func (n *Normalizer) Normalize() (*Model, *diagnostic.Diagnostics) {
	model := &Model{
		Graph:          n.graph,
		Output:         n.cfg.Output,
		ExcludedTypes:  make(map[analyze.TypeID]bool),
		ExcludedFields: make(map[analyze.TypeID]map[string]bool),
		Opaque:         make(map[analyze.TypeID]bool),
		Variants:       make(map[analyze.TypeID][]analyze.Implementer),
	}

	if n.pkg == nil {
		n.diags.AddError(diagnostic.CodeUnknownType,
			fmt.Sprintf("subject package %q is not in the loaded set", n.cfg.Package), "", "package")

		return model, n.diags
	}

	model.Package = n.pkg

	n.normalizeExcludes(model)
	n.normalizeOpaque(model)
	n.normalizeDrives(model)
	n.normalizeVisits(model)
	n.normalizeGroups(model)

	return model, n.diags
}

// normalizeExcludes resolves "Type" and "Type.Field" exclusion entries.
func (n *Normalizer) normalizeExcludes(model *Model) {
	for i, entry := range n.cfg.Exclude {
		path := fmt.Sprintf("exclude[%d]", i)

		typeName, fieldName, hasField := strings.Cut(entry, ".")
		if hasField && strings.Contains(fieldName, ".") {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax,
				fmt.Sprintf("expected Type or Type.Field, got %q", entry), "", path)

			continue
		}

		info := n.lookupType(typeName, "", path)
		if info == nil {
			continue
		}

		if !hasField {
			model.ExcludedTypes[info.ID] = true
			continue
		}

		if !hasFieldNamed(info, fieldName) {
			n.diags.AddErrorWithSuggestions(diagnostic.CodeUnknownType,
				fmt.Sprintf("type %s has no field %q", typeName, fieldName),
				"", path,
				Suggest(fieldName, fieldNames(info)))

			continue
		}

		if model.ExcludedFields[info.ID] == nil {
			model.ExcludedFields[info.ID] = make(map[string]bool)
		}

		model.ExcludedFields[info.ID][fieldName] = true
	}
}

// normalizeOpaque resolves the opaque type list.
func (n *Normalizer) normalizeOpaque(model *Model) {
	for i, entry := range n.cfg.Opaque {
		path := fmt.Sprintf("opaque[%d]", i)

		info := n.lookupType(entry, "", path)
		if info == nil {
			continue
		}

		model.Opaque[info.ID] = true
	}
}

// normalizeDrives resolves standalone drive declarations.
func (n *Normalizer) normalizeDrives(model *Model) {
	seen := make(map[string]bool)

	for i, entry := range n.cfg.Drive {
		path := fmt.Sprintf("drive[%d]", i)

		target, ok := n.resolveTarget(entry.Type, "", path, model)
		if !ok {
			continue
		}

		var modes []Mode

		for _, raw := range entry.Modes {
			mode, err := ParseMode(raw)
			if err != nil {
				n.diags.AddError(diagnostic.CodeBadTargetSyntax, err.Error(), "", path)
				continue
			}

			key := targetKey(target) + "/" + mode.String()
			if seen[key] {
				n.diags.AddError(diagnostic.CodeDuplicateTarget,
					fmt.Sprintf("duplicate %s-mode drive for %q", mode, entry.Type), "", path)

				continue
			}

			seen[key] = true
			modes = append(modes, mode)
		}

		if len(modes) == 0 {
			continue
		}

		model.Drives = append(model.Drives, DriveDecl{Target: target, Modes: modes})
	}
}

// normalizeVisits resolves per-visitor behavior declarations.
func (n *Normalizer) normalizeVisits(model *Model) {
	seenVisitors := make(map[analyze.TypeID]bool)

	for i := range n.cfg.Visit {
		entry := &n.cfg.Visit[i]
		subject := entry.Visitor
		base := fmt.Sprintf("visit[%d]", i)

		ok := true

		visitor := n.lookupType(entry.Visitor, subject, base)
		if visitor == nil {
			ok = false
		} else if visitor.Kind == analyze.TypeKindInterface {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax,
				fmt.Sprintf("visitor %s is an interface; the generated Visit method needs a concrete type", entry.Visitor),
				subject, base)

			ok = false
		} else if seenVisitors[visitor.ID] {
			n.diags.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("visitor %s already has a visit declaration", entry.Visitor), subject, base)

			ok = false
		} else {
			seenVisitors[visitor.ID] = true
		}

		mode, err := ParseMode(entry.Mode)
		if err != nil {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax, err.Error(), subject, base)
			ok = false
		}

		// Targets are normalized even when the header is bad, so one
		// run surfaces every problem in the declaration.
		targets := n.normalizeBehaviorList(entry.Targets, subject, base+".targets", model, false)

		if !ok {
			continue
		}

		model.Visits = append(model.Visits, VisitDecl{
			Visitor: visitor,
			Mode:    mode,
			Targets: targets,
		})
	}
}

// normalizeGroups resolves capability-group declarations.
func (n *Normalizer) normalizeGroups(model *Model) {
	seenNames := make(map[string]bool)

	for i := range n.cfg.Groups {
		g := &n.cfg.Groups[i]
		subject := g.Name
		base := fmt.Sprintf("groups[%d]", i)

		ok := true

		if !isGoIdent(g.Name) {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax,
				fmt.Sprintf("group needs a valid name, got %q", g.Name), subject, base)

			ok = false
		} else if seenNames[g.Name] {
			n.diags.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("duplicate group %q", g.Name), subject, base)

			ok = false
		} else {
			seenNames[g.Name] = true
		}

		if !isGoIdent(g.Marker) {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax,
				fmt.Sprintf("group %s needs a valid marker interface name, got %q", g.Name, g.Marker),
				subject, base)

			ok = false
		} else if n.declaredName(g.Marker) {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax,
				fmt.Sprintf("marker %s collides with a type already declared in package %s", g.Marker, n.pkg.Path),
				subject, base)

			ok = false
		}

		requests := n.normalizeRequests(g, subject, base)
		if len(requests) == 0 {
			n.diags.AddError(diagnostic.CodeEmptyGroup,
				fmt.Sprintf("group %s declares no visitor traits", g.Name), subject, base)

			ok = false
		}

		participants := n.normalizeBehaviorList(g.Participants, subject, base+".participants", model, true)
		if len(participants) == 0 {
			n.diags.AddWarning(diagnostic.CodeEmptyGroup,
				fmt.Sprintf("group %s has no participants", g.Name), subject, base)
		}

		if !ok {
			continue
		}

		model.Groups = append(model.Groups, GroupDecl{
			Name:         g.Name,
			Marker:       g.Marker,
			Visitors:     requests,
			Participants: participants,
		})
	}
}

// normalizeRequests parses and checks the visitor-trait requests of one
// group. At most one trait per traversal mode: hook method names carry
// only the mode suffix, so a second same-mode trait would collide.
func (n *Normalizer) normalizeRequests(g *GroupEntry, subject, base string) []VisitorRequest {
	var requests []VisitorRequest

	seenMode := make(map[Mode]string)

	for ri, raw := range g.Visitors {
		path := fmt.Sprintf("%s.visitors[%d]", base, ri)

		req, err := ParseVisitorRequest(raw)
		if err != nil {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax, err.Error(), subject, path)
			continue
		}

		if prev, dup := seenMode[req.Mode]; dup {
			n.diags.AddError(diagnostic.CodeVisitorModeConflict,
				fmt.Sprintf("group %s already has a %s-mode visitor trait (%q); hook method names would collide",
					g.Name, req.Mode, prev),
				subject, path)

			continue
		}

		if n.declaredName(req.Trait) {
			n.diags.AddError(diagnostic.CodeBadVisitorSyntax,
				fmt.Sprintf("trait name %s collides with a type already declared in package %s", req.Trait, n.pkg.Path),
				subject, path)

			continue
		}

		seenMode[req.Mode] = raw
		requests = append(requests, req)
	}

	return requests
}

// normalizeBehaviorList resolves one ordered behavior declaration list.
// Group participant lists reject enter/exit (those are implicit in hook
// defaults); visit target lists reject override_skip.
func (n *Normalizer) normalizeBehaviorList(list TargetList, subject, base string, model *Model, group bool) []BehaviorTarget {
	var result []BehaviorTarget

	seenType := make(map[string]bool)
	seenFragment := make(map[string]bool)

	for ei, tagged := range list {
		path := fmt.Sprintf("%s[%d]", base, ei)

		behavior, err := ParseBehavior(tagged.Tag)
		if err != nil {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax, err.Error(), subject, path)
			continue
		}

		if group && (behavior == BehaviorEnter || behavior == BehaviorExit) {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax,
				"enter and exit are implicit in group hook defaults; tag the participant override instead",
				subject, path)

			continue
		}

		if !group && behavior == BehaviorOverrideSkip {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax,
				"override_skip is only valid in group participant lists", subject, path)

			continue
		}

		for _, raw := range tagged.Targets {
			target, ok := n.resolveTarget(raw, subject, path, model)
			if !ok {
				continue
			}

			// A typed Visit method dispatches through a type switch and
			// cannot case on open type parameters.
			if !group && (target.IsGeneric() || target.IsParam()) {
				n.diags.AddError(diagnostic.CodeBadTargetSyntax,
					fmt.Sprintf("generic target %q needs a capability group; a Visit method cannot switch on open type parameters", raw),
					subject, path)

				continue
			}

			// Group dispatch runs on dynamic types, so a union can only
			// be driven; behaviors belong on its variants.
			if group && behavior != BehaviorDrive &&
				target.Type != nil && target.Type.Kind == analyze.TypeKindInterface {
				n.diags.AddError(diagnostic.CodeUnionAmbiguous,
					fmt.Sprintf("union %s cannot take %s in a group; tag its variants instead", target.TypeName, behavior),
					subject, path)

				continue
			}

			if key := targetKey(target); seenType[key] {
				n.diags.AddError(diagnostic.CodeDuplicateTarget,
					fmt.Sprintf("duplicate target %q", raw), subject, path)

				continue
			} else {
				seenType[key] = true
			}

			if seenFragment[target.Fragment] {
				n.diags.AddError(diagnostic.CodeDuplicateTarget,
					fmt.Sprintf("name fragment %q of target %q is already taken in this declaration", target.Fragment, raw),
					subject, path)

				continue
			}

			seenFragment[target.Fragment] = true

			result = append(result, BehaviorTarget{Behavior: behavior, Target: target})
		}
	}

	return result
}

// resolveTarget parses one target descriptor, decides its name fragment,
// and resolves its type against the graph.
func (n *Normalizer) resolveTarget(raw, subject, path string, model *Model) (ResolvedTarget, bool) {
	parsed, err := ParseTarget(raw)
	if err != nil {
		n.diags.AddError(diagnostic.CodeBadTargetSyntax, err.Error(), subject, path)
		return ResolvedTarget{}, false
	}

	resolved := ResolvedTarget{Target: parsed}

	switch {
	case parsed.Name != "":
		resolved.Fragment = parsed.Name

	case parsed.IsParam():
		n.diags.AddError(diagnostic.CodeNameInference,
			fmt.Sprintf("cannot derive a method name for generic target %q; provide one by writing \"name: \" before it", raw),
			subject, path)

		return resolved, false

	default:
		frag, err := ident.Fragment(parsed.TypeName)
		if err != nil {
			n.diags.AddError(diagnostic.CodeNameInference, err.Error(), subject, path)
			return resolved, false
		}

		resolved.Fragment = frag
	}

	if parsed.IsParam() {
		// Matches through its constraint; there is no concrete type.
		return resolved, true
	}

	info := n.graph.Lookup(n.pkg.Path, parsed.TypeName)
	if info == nil {
		basic := basicType(parsed.TypeName)
		if basic == nil {
			n.diags.AddErrorWithSuggestions(diagnostic.CodeUnknownType,
				fmt.Sprintf("type %q not found in package %s", parsed.TypeName, n.pkg.Path),
				subject, path,
				Suggest(parsed.TypeName, n.graph.Names(n.pkg.Path)))

			return resolved, false
		}

		if parsed.IsGeneric() || len(parsed.TypeArgs) > 0 {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax,
				fmt.Sprintf("basic type %s cannot take generic parameters", parsed.TypeName), subject, path)

			return resolved, false
		}

		resolved.Type = basic

		return resolved, true
	}

	if len(info.TypeParams) != len(parsed.TypeArgs) {
		if info.IsGeneric() {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax,
				fmt.Sprintf("generic type %s must be written with its parameters, e.g. %q",
					parsed.TypeName, exampleGenericTarget(info)),
				subject, path)
		} else {
			n.diags.AddError(diagnostic.CodeBadTargetSyntax,
				fmt.Sprintf("type %s is not generic but was given type arguments", parsed.TypeName),
				subject, path)
		}

		return resolved, false
	}

	if info.Kind == analyze.TypeKindInterface && !n.resolveUnion(info, subject, path, model) {
		return resolved, false
	}

	resolved.Type = info

	return resolved, true
}

// resolveUnion discovers and caches the variant set of a union interface.
func (n *Normalizer) resolveUnion(info *analyze.TypeInfo, subject, path string, model *Model) bool {
	if ok, done := n.unionOK[info.ID]; done {
		return ok
	}

	iff, _ := info.GoType.Underlying().(*types.Interface)
	if iff == nil || iff.NumMethods() == 0 {
		n.diags.AddError(diagnostic.CodeUnionAmbiguous,
			fmt.Sprintf("interface %s has an empty method set and would match every value; unions need a marker method", info.ID.Name),
			subject, path)

		n.unionOK[info.ID] = false

		return false
	}

	variants := n.graph.Implementers(info)
	if len(variants) == 0 {
		n.diags.AddError(diagnostic.CodeUnionAmbiguous,
			fmt.Sprintf("union %s has no variants in package %s", info.ID.Name, n.pkg.Path),
			subject, path)

		n.unionOK[info.ID] = false

		return false
	}

	model.Variants[info.ID] = variants
	n.unionOK[info.ID] = true

	return true
}

// lookupType resolves a named type in the subject package, reporting an
// unknown-type error with suggestions when absent.
func (n *Normalizer) lookupType(name, subject, path string) *analyze.TypeInfo {
	if info := n.graph.Lookup(n.pkg.Path, name); info != nil {
		return info
	}

	n.diags.AddErrorWithSuggestions(diagnostic.CodeUnknownType,
		fmt.Sprintf("type %q not found in package %s", name, n.pkg.Path),
		subject, path,
		Suggest(name, n.graph.Names(n.pkg.Path)))

	return nil
}

// declaredName reports whether the subject package already declares a
// type with this name. Generated names must not collide with it. Names
// declared in the output file itself do not count, so regenerating over
// a previous run stays clean.
func (n *Normalizer) declaredName(name string) bool {
	info := n.graph.Lookup(n.pkg.Path, name)
	if info == nil {
		return false
	}

	return info.DeclFile != n.cfg.Output
}

// targetKey is the dedupe key of a resolved target within one list.
func targetKey(t ResolvedTarget) string {
	if t.Type != nil {
		return t.Type.ID.String()
	}

	return "param:" + t.ParamConstraint(t.TypeName)
}

// basicType resolves a predeclared basic type name such as "int".
func basicType(name string) *analyze.TypeInfo {
	obj, ok := types.Universe.Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}

	basic, ok := obj.Type().(*types.Basic)
	if !ok {
		return nil
	}

	if basic.Info()&types.IsUntyped != 0 {
		return nil
	}

	return &analyze.TypeInfo{
		ID:     analyze.TypeID{Name: name},
		Kind:   analyze.TypeKindBasic,
		GoType: basic,
	}
}

func hasFieldNamed(info *analyze.TypeInfo, name string) bool {
	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return true
		}
	}

	return false
}

func fieldNames(info *analyze.TypeInfo) []string {
	names := make([]string, len(info.Fields))
	for i := range info.Fields {
		names[i] = info.Fields[i].Name
	}

	return names
}

// exampleGenericTarget renders a corrected descriptor for a generic type
// used without parameters.
func exampleGenericTarget(info *analyze.TypeInfo) string {
	params := make([]string, len(info.TypeParams))
	for i, tp := range info.TypeParams {
		params[i] = tp.Name
	}

	joined := strings.Join(params, ", ")

	return fmt.Sprintf("for[%s] %s[%s]", joined, info.ID.Name, joined)
}
