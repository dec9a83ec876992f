package plan

import (
	"fmt"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/diagnostic"
	"visitorgen/internal/ident"
)

// Builder turns a normalized configuration model into a Plan. Problems
// accumulate as diagnostics; one bad declaration never aborts its
// siblings, and callers gate on HasErrors before generating.
type Builder struct {
	model *config.Model
	diags *diagnostic.Diagnostics

	// drives collects routines in discovery order: standalone
	// declarations first, then everything the visits and groups imply.
	drives []DrivePlan
	driven map[driveKey]bool
}

type driveKey struct {
	id   analyze.TypeID
	mode config.Mode
}

// NewBuilder creates a Builder over one normalized model.
func NewBuilder(model *config.Model) *Builder {
	return &Builder{
		model:  model,
		diags:  &diagnostic.Diagnostics{},
		driven: make(map[driveKey]bool),
	}
}

// Build assembles the full generation plan.
func (b *Builder) Build() (*Plan, *diagnostic.Diagnostics) {
	plan := &Plan{
		Package: b.model.Package,
		Output:  b.model.Output,
		Graph:   b.model.Graph,
	}

	for i := range b.model.Drives {
		decl := &b.model.Drives[i]
		path := fmt.Sprintf("drive[%d]", i)

		for _, mode := range decl.Modes {
			b.needDeclaredDrive(decl.Target, mode, path)
		}
	}

	for i := range b.model.Visits {
		decl := &b.model.Visits[i]
		if vp := b.buildVisit(decl, fmt.Sprintf("visit[%d]", i)); vp != nil {
			plan.Visits = append(plan.Visits, *vp)
		}
	}

	for i := range b.model.Groups {
		decl := &b.model.Groups[i]
		if gp := b.buildGroup(decl, fmt.Sprintf("groups[%d]", i)); gp != nil {
			plan.Groups = append(plan.Groups, *gp)
		}
	}

	plan.Drives = b.drives

	return plan, b.diags
}

// needDeclaredDrive handles a standalone drive declaration, which may
// legitimately name types the implied discovery would reject quietly.
func (b *Builder) needDeclaredDrive(target config.ResolvedTarget, mode config.Mode, path string) {
	t := target.Type
	if t == nil {
		b.diags.AddError(diagnostic.CodeBadTargetSyntax,
			fmt.Sprintf("cannot drive bare type parameter %q; drive a concrete type", target.Raw),
			"", path)

		return
	}

	switch t.Kind {
	case analyze.TypeKindStruct, analyze.TypeKindInterface:
		b.needDrive(target, mode)

	default:
		b.diags.AddWarning(diagnostic.CodeDriveLeaf,
			fmt.Sprintf("%s is a leaf; driving it visits nothing", target.Raw), "", path)
	}
}

// needDrive ensures a dispatch routine exists for one (type, mode) pair.
// Driving a union implies driving every retained variant, so variants
// join the worklist here.
func (b *Builder) needDrive(target config.ResolvedTarget, mode config.Mode) {
	t := target.Type
	if t == nil {
		return
	}

	key := driveKey{id: t.ID, mode: mode}
	if b.driven[key] {
		return
	}

	b.driven[key] = true

	dp := DrivePlan{
		Type:   t,
		Target: target,
		Mode:   mode,
	}

	if t.Kind == analyze.TypeKindInterface {
		dp.Union = true
		dp.FuncName = UnionDriveFunc(target.Fragment, mode)
		dp.Variants = b.model.RetainedVariants(t)

		b.drives = append(b.drives, dp)

		for _, v := range dp.Variants {
			if v.Type.IsGeneric() {
				continue
			}

			b.needDrive(variantTarget(v.Type), mode)
		}

		return
	}

	dp.FuncName = DriveMethod(mode)
	dp.Opaque = b.model.IsOpaque(t.ID)

	if !dp.Opaque {
		dp.Steps = b.fieldSteps(t, mode)
	}

	b.drives = append(b.drives, dp)
}

// variantTarget synthesizes a resolved target for a union variant that
// was never declared on its own.
func variantTarget(t *analyze.TypeInfo) config.ResolvedTarget {
	frag, err := ident.Fragment(t.ID.Name)
	if err != nil {
		frag = t.ID.Name
	}

	return config.ResolvedTarget{
		Target:   config.Target{Raw: t.ID.Name, TypeName: t.ID.Name},
		Fragment: frag,
		Type:     t,
	}
}
