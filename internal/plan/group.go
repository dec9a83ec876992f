package plan

import (
	"fmt"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/diagnostic"
)

// buildGroup plans one capability group.
func (b *Builder) buildGroup(g *config.GroupDecl, base string) *GroupPlan {
	gp := &GroupPlan{
		Name:   g.Name,
		Marker: g.Marker,
	}

	for _, req := range g.Visitors {
		gp.Requests = append(gp.Requests, RequestPlan{
			VisitorRequest: req,
			MarkerMethod:   MarkerMethod(req.Method),
			EntryName:      EntryName(req.Method),
			InnerName:      InnerName(req.Method),
			ByValName:      ByValName(req.Method),
			WrapperName:    WrapperName(req.Method),
			Suffix:         ModeSuffix(req.Mode),
		})
	}

	for _, bt := range g.Participants {
		t := bt.Target.Type

		if t == nil {
			b.diags.AddError(diagnostic.CodeBadTargetSyntax,
				fmt.Sprintf("bare type parameter %q cannot join a group; list the concrete types instead", bt.Target.Raw),
				g.Name, base+".participants")

			continue
		}

		p := ParticipantPlan{
			Behavior: bt.Behavior,
			Target:   bt.Target,
			Kind:     participantKind(t),
		}

		// Hook names per trait. Override-skip defaults never pair enter
		// and exit, so only plain overrides get those names.
		if bt.Behavior == config.BehaviorOverride || bt.Behavior == config.BehaviorOverrideSkip {
			withEnterExit := bt.Behavior == config.BehaviorOverride
			for _, rp := range gp.Requests {
				p.Hooks = append(p.Hooks, GroupHookSet(bt.Target.Fragment, rp.Mode, withEnterExit))
			}
		}

		// Drive and override participants dispatch into their contents
		// under every requested mode.
		if p.Kind != ParticipantLeaf && groupDriving(bt.Behavior) {
			for _, rp := range gp.Requests {
				b.needDrive(bt.Target, rp.Mode)
			}
		}

		gp.Participants = append(gp.Participants, p)
	}

	b.checkCompleteness(g.Name, base+".participants", capabilityEntries(g.Participants), groupDriving)

	return gp
}

// participantKind classifies a participant by how it is dispatched.
// Predeclared basics stay leaves; named types, including named basics,
// can carry marker methods.
func participantKind(t *analyze.TypeInfo) ParticipantKind {
	switch t.Kind {
	case analyze.TypeKindInterface:
		return ParticipantUnion
	case analyze.TypeKindBasic:
		return ParticipantLeaf
	default:
		return ParticipantNode
	}
}

// groupDriving reports whether a behavior dispatches into the target's
// contents inside a group. Override defaults drive between their enter
// and exit hooks, so overrides count.
func groupDriving(behavior config.Behavior) bool {
	return behavior == config.BehaviorDrive || behavior == config.BehaviorOverride
}
