package gen

import (
	"github.com/dave/jennifer/jen"

	"visitorgen/internal/config"
	"visitorgen/internal/plan"
)

// visitDecl emits the typed Visit method of one visitor. Concrete arms
// come before union arms so a variant never falls through to its union.
func (g *Generator) visitDecl(f *jen.File, vp *plan.VisitPlan) {
	name := vp.Visitor.ID.Name
	recv := shortRecv(name)

	arms := make([]jen.Code, 0, len(vp.Cases)+1)
	for i := range vp.Cases {
		c := &vp.Cases[i]
		arms = append(arms, jen.Case(caseType(c.Target, vp.Mode)).Block(g.visitArm(c, recv)...))
	}

	arms = append(arms, jen.Default().Block(jen.Return(jen.Nil())))

	f.Commentf("Visit dispatches value to the behavior declared for its type on %s.", name)
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("Visit").
		Params(jen.Id("value").Any()).
		Error().
		Block(
			jen.Switch(jen.Id("x").Op(":=").Id("value").Assert(jen.Id("type"))).Block(arms...),
		)
}

// visitArm builds the body of one switch arm.
func (g *Generator) visitArm(c *plan.VisitCase, recv string) []jen.Code {
	drive := driveCall(c, recv)

	switch c.Behavior {
	case config.BehaviorSkip:
		return []jen.Code{jen.Return(jen.Nil())}

	case config.BehaviorOverride:
		return []jen.Code{jen.Return(jen.Id(recv).Dot(c.Hooks.Visit).Call(jen.Id("x")))}

	case config.BehaviorEnter:
		body := []jen.Code{jen.Id(recv).Dot(c.Hooks.Enter).Call(jen.Id("x"))}
		if drive == nil {
			return append(body, jen.Return(jen.Nil()))
		}

		return append(body, jen.Return(drive))

	case config.BehaviorExit:
		if drive == nil {
			return []jen.Code{
				jen.Id(recv).Dot(c.Hooks.Exit).Call(jen.Id("x")),
				jen.Return(jen.Nil()),
			}
		}

		return []jen.Code{
			jen.If(jen.Err().Op(":=").Add(drive), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Err()),
			),
			jen.Id(recv).Dot(c.Hooks.Exit).Call(jen.Id("x")),
			jen.Return(jen.Nil()),
		}

	default: // drive
		if drive == nil {
			return []jen.Code{jen.Return(jen.Nil())}
		}

		return []jen.Code{jen.Return(drive)}
	}
}

// driveCall builds the dispatch expression of one case, or nil for
// leaves, which have no contents to forward.
func driveCall(c *plan.VisitCase, recv string) *jen.Statement {
	if c.DriveName == "" {
		return nil
	}

	if c.Union {
		return jen.Id(c.DriveName).Call(jen.Id("x"), jen.Id(recv))
	}

	return jen.Id("x").Dot(c.DriveName).Call(jen.Id(recv))
}
