package plan

import (
	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
)

// buildVisit plans one typed Visit method.
func (b *Builder) buildVisit(decl *config.VisitDecl, base string) *VisitPlan {
	subject := decl.Visitor.ID.Name

	vp := &VisitPlan{
		Visitor: decl.Visitor,
		Mode:    decl.Mode,
	}

	// Concrete cases keep declaration order; union cases trail them so
	// an interface arm can never shadow a variant's own arm.
	var concrete, unions []VisitCase

	for _, bt := range decl.Targets {
		t := bt.Target.Type

		c := VisitCase{
			Behavior: bt.Behavior,
			Target:   bt.Target,
			Hooks:    VisitHooks(bt.Target.Fragment),
		}

		isUnion := t != nil && t.Kind == analyze.TypeKindInterface
		c.Union = isUnion

		if visitDriving(bt.Behavior) {
			switch {
			case isUnion:
				c.DriveName = UnionDriveFunc(bt.Target.Fragment, decl.Mode)
				b.needDrive(bt.Target, decl.Mode)

			case t != nil && t.Kind == analyze.TypeKindStruct:
				c.DriveName = DriveMethod(decl.Mode)
				b.needDrive(bt.Target, decl.Mode)

			default:
				// Leaves drive nothing; enter and exit hooks still run.
			}
		}

		if isUnion {
			unions = append(unions, c)
		} else {
			concrete = append(concrete, c)
		}
	}

	vp.Cases = append(concrete, unions...)

	b.checkCompleteness(subject, base, capabilityEntries(decl.Targets), visitDriving)

	return vp
}

// visitDriving reports whether a behavior dispatches into the target's
// contents under a visit declaration. Override hands full control to the
// user hook, so it implies nothing.
func visitDriving(behavior config.Behavior) bool {
	switch behavior {
	case config.BehaviorDrive, config.BehaviorEnter, config.BehaviorExit:
		return true
	default:
		return false
	}
}
