package gen

import (
	"github.com/dave/jennifer/jen"

	"visitorgen/internal/config"
	"visitorgen/internal/plan"
)

// groupDecls emits everything one capability group declares: trait
// aliases, the marker interface, entry functions, wrapper adapters,
// hook interfaces, and the marker implementations of every node
// participant.
func (g *Generator) groupDecls(f *jen.File, gp *plan.GroupPlan) {
	for i := range gp.Requests {
		g.traitAlias(f, gp, &gp.Requests[i])
	}

	g.markerIface(f, gp)

	for i := range gp.Requests {
		g.entryFuncs(f, gp, &gp.Requests[i])
	}

	for i := range gp.Requests {
		g.wrapperDecl(f, gp, &gp.Requests[i])
	}

	for i := range gp.Participants {
		g.hookIfaces(f, gp, &gp.Participants[i])
	}

	for i := range gp.Participants {
		g.markerImpls(f, gp, &gp.Participants[i])
	}
}

// traitAlias emits the visitor trait of one request. The trait is an
// alias of any: behavior hooks are optional interfaces probed per
// participant, so the trait itself carries no methods.
func (g *Generator) traitAlias(f *jen.File, gp *plan.GroupPlan, req *plan.RequestPlan) {
	f.Commentf("%s is the %s traversal surface of the %s group. Hooks are optional interfaces probed per participant.", req.Trait, req.Mode, gp.Name)
	f.Type().Id(req.Trait).Op("=").Any()
}

// markerIface emits the group marker interface. Its unexported methods
// make membership closed: only generated participants can satisfy it.
func (g *Generator) markerIface(f *jen.File, gp *plan.GroupPlan) {
	methods := make([]jen.Code, 0, len(gp.Requests))

	for i := range gp.Requests {
		req := &gp.Requests[i]

		m := jen.Id(req.MarkerMethod).Params(jen.Id("v").Id(req.Trait))
		if !req.Infallible {
			m.Error()
		}

		methods = append(methods, m)
	}

	f.Commentf("%s is implemented by every participant of the %s group.", gp.Marker, gp.Name)
	f.Type().Id(gp.Marker).Interface(methods...)
}

// entryFuncs emits the three package-level entries of one request.
func (g *Generator) entryFuncs(f *jen.File, gp *plan.GroupPlan, req *plan.RequestPlan) {
	driverIface := "Driver"
	driveMethod := plan.DriveMethodRead

	if req.Mode == config.ModeMutate {
		driverIface = "DriverMut"
		driveMethod = plan.DriveMethodMutate
	}

	wrapper := jen.Op("&").Id(req.WrapperName).Values(jen.Dict{jen.Id("v"): jen.Id("v")})

	f.Commentf("%s walks x with v, dispatching the declared behavior of every participant it reaches.", req.EntryName)

	entry := f.Func().Id(req.EntryName).
		Params(jen.Id("v").Id(req.Trait), jen.Id("x").Id(gp.Marker))

	if req.Infallible {
		entry.Block(
			jen.Id("x").Dot(req.MarkerMethod).Call(jen.Id("v")),
		)
	} else {
		entry.Error().Block(
			jen.Return(jen.Id("x").Dot(req.MarkerMethod).Call(jen.Id("v"))),
		)
	}

	f.Commentf("%s forwards the contents of x to v without dispatching on x itself.", req.InnerName)

	inner := f.Func().Id(req.InnerName).
		Params(jen.Id("v").Id(req.Trait), jen.Id("x").Id(gp.Marker))

	probe := jen.List(jen.Id("d"), jen.Id("ok")).Op(":=").
		Id("x").Assert(jen.Qual(g.config.RuntimePath, driverIface))

	if req.Infallible {
		inner.Block(
			jen.If(probe, jen.Id("ok")).Block(
				jen.Id("_").Op("=").Id("d").Dot(driveMethod).Call(wrapper),
			),
		)
	} else {
		inner.Error().Block(
			jen.If(probe, jen.Id("ok")).Block(
				jen.Return(jen.Id("d").Dot(driveMethod).Call(wrapper)),
			),
			jen.Return(jen.Nil()),
		)
	}

	f.Commentf("%s walks x and hands the visitor back, for call chaining.", req.ByValName)

	byval := f.Func().Id(req.ByValName).
		Types(jen.Id("V").Any()).
		Params(jen.Id("v").Id("V"), jen.Id("x").Id(gp.Marker))

	if req.Infallible {
		byval.Id("V").Block(
			jen.Id(req.EntryName).Call(jen.Id("v"), jen.Id("x")),
			jen.Return(jen.Id("v")),
		)
	} else {
		byval.Params(jen.Id("V"), jen.Error()).Block(
			jen.Err().Op(":=").Id(req.EntryName).Call(jen.Id("v"), jen.Id("x")),
			jen.Return(jen.Id("v"), jen.Err()),
		)
	}
}

// wrapperDecl emits the unexported adapter of one request. The adapter
// receives every value a drive routine forwards: participants dispatch
// through the marker, leaves through their own arms, unions through
// their dispatch function so excluded variants fall out silently.
func (g *Generator) wrapperDecl(f *jen.File, gp *plan.GroupPlan, req *plan.RequestPlan) {
	ri := requestIndex(gp, req)

	arms := make([]jen.Code, 0, len(gp.Participants)+2)

	marker := jen.Case(jen.Id(gp.Marker))
	if req.Infallible {
		arms = append(arms, marker.Block(
			jen.Id("x").Dot(req.MarkerMethod).Call(jen.Id("d").Dot("v")),
			jen.Return(jen.Nil()),
		))
	} else {
		arms = append(arms, marker.Block(
			jen.Return(jen.Id("x").Dot(req.MarkerMethod).Call(jen.Id("d").Dot("v"))),
		))
	}

	for i := range gp.Participants {
		p := &gp.Participants[i]
		if p.Kind != plan.ParticipantLeaf {
			continue
		}

		arms = append(arms, jen.Case(caseType(p.Target, req.Mode)).Block(
			g.leafArm(p, req, ri)...,
		))
	}

	for i := range gp.Participants {
		p := &gp.Participants[i]
		if p.Kind != plan.ParticipantUnion {
			continue
		}

		fn := plan.UnionDriveFunc(p.Target.Fragment, req.Mode)
		arms = append(arms, jen.Case(jen.Id(p.Target.TypeName)).Block(
			jen.Return(jen.Id(fn).Call(jen.Id("x"), jen.Id("d"))),
		))
	}

	arms = append(arms, jen.Default().Block(jen.Return(jen.Nil())))

	f.Commentf("%s adapts the %s trait to the field dispatch protocol.", req.WrapperName, req.Trait)
	f.Type().Id(req.WrapperName).Struct(jen.Id("v").Id(req.Trait))

	f.Func().Params(jen.Id("d").Op("*").Id(req.WrapperName)).Id("Visit").
		Params(jen.Id("value").Any()).
		Error().
		Block(
			jen.Switch(jen.Id("x").Op(":=").Id("value").Assert(jen.Id("type"))).Block(arms...),
		)
}

// leafArm builds the wrapper arm body of one leaf participant.
func (g *Generator) leafArm(p *plan.ParticipantPlan, req *plan.RequestPlan, ri int) []jen.Code {
	wrapped := jen.Id("d").Dot("v")

	switch p.Behavior {
	case config.BehaviorOverride:
		set := p.Hooks[ri]

		var body []jen.Code
		if req.Infallible {
			body = append(body, probeArm(wrapped, set.VisitorIface,
				jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x")),
				jen.Return(jen.Nil()),
			))
		} else {
			body = append(body, probeArm(wrapped, set.VisitorIface,
				jen.Return(jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x"))),
			))
		}

		body = append(body,
			probeArm(wrapped, set.EntererIface, jen.Id("h").Dot(set.EnterMethod).Call(jen.Id("x"))),
			probeArm(wrapped, set.ExiterIface, jen.Id("h").Dot(set.ExitMethod).Call(jen.Id("x"))),
			jen.Return(jen.Nil()),
		)

		return body

	case config.BehaviorOverrideSkip:
		set := p.Hooks[ri]

		var hook jen.Code
		if req.Infallible {
			hook = probeArm(wrapped, set.VisitorIface,
				jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x")),
			)
		} else {
			hook = probeArm(wrapped, set.VisitorIface,
				jen.Return(jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x"))),
			)
		}

		return []jen.Code{hook, jen.Return(jen.Nil())}

	default: // skip, or drive of a contentless leaf
		return []jen.Code{jen.Return(jen.Nil())}
	}
}

// hookIfaces emits the optional hook interfaces of one override
// participant, one set per requested trait.
func (g *Generator) hookIfaces(f *jen.File, gp *plan.GroupPlan, p *plan.ParticipantPlan) {
	for ri, set := range p.Hooks {
		req := &gp.Requests[ri]
		param := hookParam(p.Target, req.Mode)

		visit := jen.Id(set.VisitMethod).Params(jen.Id("x").Add(param))
		if !req.Infallible {
			visit.Error()
		}

		f.Commentf("%s replaces the default %s handling of %s.", set.VisitorIface, req.Method, p.Target.TypeName)
		f.Type().Id(set.VisitorIface).Interface(visit)

		if set.EntererIface == "" {
			continue
		}

		f.Commentf("%s runs before the contents of %s.", set.EntererIface, p.Target.TypeName)
		f.Type().Id(set.EntererIface).Interface(
			jen.Id(set.EnterMethod).Params(jen.Id("x").Add(hookParam(p.Target, req.Mode))),
		)

		f.Commentf("%s runs after the contents of %s.", set.ExiterIface, p.Target.TypeName)
		f.Type().Id(set.ExiterIface).Interface(
			jen.Id(set.ExitMethod).Params(jen.Id("x").Add(hookParam(p.Target, req.Mode))),
		)
	}
}

// markerImpls emits the marker method implementations of one node
// participant, one per requested trait.
func (g *Generator) markerImpls(f *jen.File, gp *plan.GroupPlan, p *plan.ParticipantPlan) {
	if p.Kind != plan.ParticipantNode {
		return
	}

	for ri := range gp.Requests {
		req := &gp.Requests[ri]

		m := f.Func().Params(receiver(p.Target.Type)).Id(req.MarkerMethod).
			Params(jen.Id("v").Id(req.Trait))

		if !req.Infallible {
			m.Error()
		}

		m.Block(g.markerImplBody(p, req, ri)...)
	}
}

// markerImplBody builds one marker method body from the participant
// behavior.
func (g *Generator) markerImplBody(p *plan.ParticipantPlan, req *plan.RequestPlan, ri int) []jen.Code {
	inner := func() *jen.Statement {
		return jen.Id(req.InnerName).Call(jen.Id("v"), jen.Id("x"))
	}

	switch p.Behavior {
	case config.BehaviorSkip:
		if req.Infallible {
			return nil
		}

		return []jen.Code{jen.Return(jen.Nil())}

	case config.BehaviorOverride:
		set := p.Hooks[ri]

		if req.Infallible {
			return []jen.Code{
				probeArm(jen.Id("v"), set.VisitorIface,
					jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x")),
					jen.Return(),
				),
				probeArm(jen.Id("v"), set.EntererIface, jen.Id("h").Dot(set.EnterMethod).Call(jen.Id("x"))),
				inner(),
				probeArm(jen.Id("v"), set.ExiterIface, jen.Id("h").Dot(set.ExitMethod).Call(jen.Id("x"))),
			}
		}

		return []jen.Code{
			probeArm(jen.Id("v"), set.VisitorIface,
				jen.Return(jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x"))),
			),
			probeArm(jen.Id("v"), set.EntererIface, jen.Id("h").Dot(set.EnterMethod).Call(jen.Id("x"))),
			jen.If(jen.Err().Op(":=").Add(inner()), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Err()),
			),
			probeArm(jen.Id("v"), set.ExiterIface, jen.Id("h").Dot(set.ExitMethod).Call(jen.Id("x"))),
			jen.Return(jen.Nil()),
		}

	case config.BehaviorOverrideSkip:
		set := p.Hooks[ri]

		if req.Infallible {
			return []jen.Code{
				probeArm(jen.Id("v"), set.VisitorIface,
					jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x")),
				),
			}
		}

		return []jen.Code{
			probeArm(jen.Id("v"), set.VisitorIface,
				jen.Return(jen.Id("h").Dot(set.VisitMethod).Call(jen.Id("x"))),
			),
			jen.Return(jen.Nil()),
		}

	default: // drive
		if req.Infallible {
			return []jen.Code{inner()}
		}

		return []jen.Code{jen.Return(inner())}
	}
}

// probeArm emits "if h, ok := subj.(Iface); ok { body }". The subject
// statement is cloned so callers can reuse one expression.
func probeArm(subj *jen.Statement, iface string, body ...jen.Code) jen.Code {
	return jen.If(
		jen.List(jen.Id("h"), jen.Id("ok")).Op(":=").Add(subj.Clone()).Assert(jen.Id(iface)),
		jen.Id("ok"),
	).Block(body...)
}

// requestIndex finds the position of one request inside its group, for
// indexing per-request hook sets.
func requestIndex(gp *plan.GroupPlan, req *plan.RequestPlan) int {
	for i := range gp.Requests {
		if &gp.Requests[i] == req {
			return i
		}
	}

	return 0
}
