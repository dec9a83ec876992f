package gen

import (
	"github.com/dave/jennifer/jen"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/plan"
)

// driveDecl emits one per-field dispatch routine: a method on struct
// targets, a package-level function on union targets.
func (g *Generator) driveDecl(f *jen.File, dp *plan.DrivePlan) {
	if dp.Union {
		g.unionDrive(f, dp)
		return
	}

	g.structDrive(f, dp)
}

// structDrive emits the DriveInner or DriveInnerMut method of one
// struct target. Retained fields are forwarded in declaration order and
// the first error stops the walk.
func (g *Generator) structDrive(f *jen.File, dp *plan.DrivePlan) {
	name := dp.Type.ID.Name

	switch {
	case dp.Opaque:
		f.Commentf("%s visits nothing. %s is opaque.", dp.FuncName, name)
	case dp.Mode == config.ModeMutate:
		f.Commentf("%s forwards the retained fields of %s by address in declaration order.", dp.FuncName, name)
	default:
		f.Commentf("%s forwards the retained fields of %s in declaration order.", dp.FuncName, name)
	}

	body := make([]jen.Code, 0, len(dp.Steps)+1)
	for i := range dp.Steps {
		body = append(body, g.stepStmt(&dp.Steps[i]))
	}

	body = append(body, jen.Return(jen.Nil()))

	f.Func().Params(receiver(dp.Type)).Id(dp.FuncName).
		Params(jen.Id("v").Qual(g.config.RuntimePath, "Visitor")).
		Error().
		Block(body...)
}

// stepStmt emits the forwarding statement of one retained field.
func (g *Generator) stepStmt(step *plan.FieldStep) jen.Code {
	field := jen.Id("x").Dot(step.Field.Name)

	switch step.Forward {
	case plan.ForwardValue:
		return visitStep(field)

	case plan.ForwardAddress:
		return visitStep(jen.Op("&").Add(field))

	case plan.ForwardPointer:
		return g.helperStep("DrivePtr", field)

	case plan.ForwardPointerDeref:
		return g.helperStep("DriveDeref", field)

	case plan.ForwardInterface:
		return jen.If(field.Clone().Op("!=").Nil()).Block(
			visitStep(jen.Id("x").Dot(step.Field.Name)),
		)

	case plan.ForwardSliceValues:
		return g.helperStep("DriveSlice", g.sliceExpr(step))

	case plan.ForwardSliceAddrs:
		return g.helperStep("DriveSliceMut", g.sliceExpr(step))

	case plan.ForwardSlicePtrs:
		return g.helperStep("DriveSlicePtr", g.sliceExpr(step))

	case plan.ForwardMapValues:
		return g.helperStep("DriveMap", field)

	case plan.ForwardMapPtrs:
		return g.helperStep("DriveMapPtr", field)

	case plan.ForwardMapCopies:
		return g.helperStep("DriveMapCopy", field)

	case plan.ForwardMapWriteback:
		return g.helperStep("DriveMapMut", field)

	default:
		return jen.Null()
	}
}

// sliceExpr builds the argument of a slice helper. Arrays are sliced so
// one helper covers both shapes.
func (g *Generator) sliceExpr(step *plan.FieldStep) *jen.Statement {
	field := jen.Id("x").Dot(step.Field.Name)

	if step.Field.Type.Kind == analyze.TypeKindArray {
		return field.Index(jen.Op(":"))
	}

	return field
}

// visitStep emits "if err := v.Visit(arg); err != nil { return err }".
func visitStep(arg jen.Code) jen.Code {
	return jen.If(
		jen.Err().Op(":=").Id("v").Dot("Visit").Call(arg),
		jen.Err().Op("!=").Nil(),
	).Block(
		jen.Return(jen.Err()),
	)
}

// helperStep emits a runtime helper call behind the same error check.
func (g *Generator) helperStep(helper string, arg jen.Code) jen.Code {
	return jen.If(
		jen.Err().Op(":=").Qual(g.config.RuntimePath, helper).Call(jen.Id("v"), arg),
		jen.Err().Op("!=").Nil(),
	).Block(
		jen.Return(jen.Err()),
	)
}

// unionDrive emits the package-level dispatch function of one union
// target. Variants not retained by the union fall through to the
// default arm and are skipped.
func (g *Generator) unionDrive(f *jen.File, dp *plan.DrivePlan) {
	name := dp.Type.ID.Name
	method := plan.DriveMethod(dp.Mode)

	f.Commentf("%s forwards the contents of a %s to v, dispatching on the variant.", dp.FuncName, name)

	arms := make([]jen.Code, 0, len(dp.Variants)+1)

	for _, variant := range dp.Variants {
		vname := variant.Type.ID.Name

		arms = append(arms, jen.Case(jen.Op("*").Id(vname)).Block(
			jen.Return(jen.Id("x").Dot(method).Call(jen.Id("v"))),
		))

		// A variant with value receivers can be stored by value; drive
		// a copy so its contents are still reached.
		if !variant.Pointer {
			arms = append(arms, jen.Case(jen.Id(vname)).Block(
				jen.Id("tmp").Op(":=").Id("x"),
				jen.Return(jen.Id("tmp").Dot(method).Call(jen.Id("v"))),
			))
		}
	}

	arms = append(arms, jen.Default().Block(jen.Return(jen.Nil())))

	f.Func().Id(dp.FuncName).
		Params(jen.Id("x").Id(name), jen.Id("v").Qual(g.config.RuntimePath, "Visitor")).
		Error().
		Block(
			jen.Switch(jen.Id("x").Op(":=").Id("x").Assert(jen.Id("type"))).Block(arms...),
		)
}
