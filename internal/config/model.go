package config

import (
	"visitorgen/internal/analyze"
)

// Model is the normalized configuration: every descriptor parsed, every
// referenced type resolved against the type graph, every name fragment
// decided. Planners consume this model and never see YAML.
type Model struct {
	// Package is the subject package.
	Package *analyze.PackageInfo

	// Graph is the type graph the model was resolved against.
	Graph *analyze.TypeGraph

	// Output is the generated file name within the package directory.
	Output string

	// ExcludedTypes holds whole types and union variants that per-field
	// dispatch never forwards.
	ExcludedTypes map[analyze.TypeID]bool

	// ExcludedFields maps a type to its excluded field names.
	ExcludedFields map[analyze.TypeID]map[string]bool

	// Opaque holds types whose drive always succeeds with zero visits.
	Opaque map[analyze.TypeID]bool

	// Variants caches discovered union variants per interface type.
	Variants map[analyze.TypeID][]analyze.Implementer

	Drives []DriveDecl
	Visits []VisitDecl
	Groups []GroupDecl
}

// ResolvedTarget couples a parsed target descriptor with its resolved
// type and decided name fragment.
type ResolvedTarget struct {
	Target

	// Fragment is the method-name fragment, explicit or inferred.
	Fragment string

	// Type is the resolved subject type. Nil for bare-parameter targets
	// ("for[T Bound] T"), which match through their constraint instead.
	Type *analyze.TypeInfo
}

// BehaviorTarget is one resolved entry of a behavior declaration list.
type BehaviorTarget struct {
	Behavior Behavior
	Target   ResolvedTarget
}

// DriveDecl is one normalized standalone drive declaration.
type DriveDecl struct {
	Target ResolvedTarget
	Modes  []Mode
}

// VisitDecl is one normalized per-visitor behavior declaration.
type VisitDecl struct {
	// Visitor is the type in the subject package that receives the
	// generated Visit method.
	Visitor *analyze.TypeInfo

	Mode    Mode
	Targets []BehaviorTarget
}

// GroupDecl is one normalized capability group.
type GroupDecl struct {
	Name         string
	Marker       string
	Visitors     []VisitorRequest
	Participants []BehaviorTarget
}

// IsOpaque reports whether the type is configured opaque.
func (m *Model) IsOpaque(id analyze.TypeID) bool {
	return m.Opaque[id]
}

// Retained reports whether per-field dispatch forwards this field of the
// given owner type. Tag-excluded fields, configured exclusions, and
// fields whose core type is an excluded type are dropped.
func (m *Model) Retained(owner analyze.TypeID, f *analyze.FieldInfo) bool {
	if f.VisitTag() == "-" {
		return false
	}

	if m.ExcludedFields[owner][f.Name] {
		return false
	}

	if core := analyze.CoreType(f.Type); core != nil && core.IsNamed() && m.ExcludedTypes[core.ID] {
		return false
	}

	return true
}

// RetainedFields returns the fields of a struct type that per-field
// dispatch forwards, in declaration order.
func (m *Model) RetainedFields(t *analyze.TypeInfo) []*analyze.FieldInfo {
	var fields []*analyze.FieldInfo

	for i := range t.Fields {
		f := &t.Fields[i]
		if m.Retained(t.ID, f) {
			fields = append(fields, f)
		}
	}

	return fields
}

// RetainedVariants returns the union variants of an interface type that
// dispatch covers: discovered implementers minus excluded ones.
func (m *Model) RetainedVariants(t *analyze.TypeInfo) []analyze.Implementer {
	var variants []analyze.Implementer

	for _, impl := range m.Variants[t.ID] {
		if m.ExcludedTypes[impl.Type.ID] {
			continue
		}

		variants = append(variants, impl)
	}

	return variants
}
