package plan

import (
	"fmt"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/diagnostic"
)

// capEntry is one capability a declaration provides: a handled type and
// the behavior handling it.
type capEntry struct {
	key      analyze.TypeID
	behavior config.Behavior
	target   config.ResolvedTarget
}

// capabilityEntries flattens a behavior list into capability entries.
// Bare type parameters carry no concrete type and contribute nothing.
func capabilityEntries(list []config.BehaviorTarget) []capEntry {
	var entries []capEntry

	for _, bt := range list {
		if bt.Target.Type == nil {
			continue
		}

		entries = append(entries, capEntry{
			key:      capKey(bt.Target.Type),
			behavior: bt.Behavior,
			target:   bt.Target,
		})
	}

	return entries
}

// capKey is the identity a field type is matched under. Predeclared
// basics have no package, so they key by their universe name.
func capKey(t *analyze.TypeInfo) analyze.TypeID {
	if t.Kind == analyze.TypeKindBasic && t.ID.Name == "" {
		return analyze.TypeID{Name: t.BasicName()}
	}

	return t.ID
}

// checkCompleteness verifies that every type a declaration can reach
// while driving has an entry handling it. Driving a union checks the
// fields of variants that have no entry of their own; external types and
// type parameters are exempt leaves.
func (b *Builder) checkCompleteness(subject, path string, entries []capEntry, driving func(config.Behavior) bool) {
	index := make(map[analyze.TypeID]config.Behavior, len(entries))
	for _, e := range entries {
		index[e.key] = e.behavior
	}

	// One error per missing type, naming the first field that needs it.
	missing := make(map[analyze.TypeID]bool)
	done := make(map[analyze.TypeID]bool)

	localPkg := ""
	if b.model.Package != nil {
		localPkg = b.model.Package.Path
	}

	requireCore := func(owner *analyze.TypeInfo, fieldName string, core *analyze.TypeInfo) {
		if core == nil {
			return
		}

		switch core.Kind {
		case analyze.TypeKindExternal, analyze.TypeKindTypeParam, analyze.TypeKindUnknown:
			return
		}

		key := capKey(core)
		if _, ok := index[key]; ok || missing[key] {
			return
		}

		missing[key] = true

		b.diags.AddError(diagnostic.CodeUnresolvedCapability,
			fmt.Sprintf("no handling for %s, needed by %s",
				analyze.TypeString(core, localPkg), analyze.FieldPath(owner.ID.Name, fieldName)),
			subject, path)
	}

	checkFields := func(t *analyze.TypeInfo) {
		for _, f := range b.model.RetainedFields(t) {
			requireCore(t, f.Name, analyze.CoreType(f.Type))
		}
	}

	for _, e := range entries {
		if !driving(e.behavior) {
			continue
		}

		t := e.target.Type

		switch t.Kind {
		case analyze.TypeKindStruct:
			if !b.model.IsOpaque(t.ID) {
				checkFields(t)
			}

		case analyze.TypeKindInterface:
			for _, v := range b.model.RetainedVariants(t) {
				if _, ok := index[capKey(v.Type)]; ok {
					continue
				}

				// Variants without entries are driven implicitly, so
				// their fields must resolve too.
				if !done[v.Type.ID] {
					done[v.Type.ID] = true
					checkFields(v.Type)
				}
			}
		}
	}
}
