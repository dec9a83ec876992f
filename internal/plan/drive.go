package plan

import (
	"fmt"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/diagnostic"
)

// fieldSteps plans the field forwardings of one driven struct. Fields
// whose types cannot reach a visitor are skipped, with a warning unless
// they are plain external leaves.
func (b *Builder) fieldSteps(t *analyze.TypeInfo, mode config.Mode) []FieldStep {
	var steps []FieldStep

	for _, f := range b.model.RetainedFields(t) {
		forward, ok := b.forwardKind(t, f, mode)
		if !ok {
			continue
		}

		steps = append(steps, FieldStep{Field: f, Forward: forward})
	}

	return steps
}

// forwardKind decides how one field reaches the visitor. Read mode
// forwards basics by value and structs by address; mutate mode forwards
// everything through an addressable path.
func (b *Builder) forwardKind(owner *analyze.TypeInfo, f *analyze.FieldInfo, mode config.Mode) (ForwardKind, bool) {
	ft := f.Type
	path := analyze.FieldPath(owner.ID.Name, f.Name)

	switch ft.Kind {
	case analyze.TypeKindBasic, analyze.TypeKindAlias, analyze.TypeKindTypeParam:
		if mode == config.ModeMutate {
			return ForwardAddress, true
		}

		return ForwardValue, true

	case analyze.TypeKindStruct:
		if !ft.IsNamed() {
			b.skipField(path, "anonymous struct fields cannot be visited")
			return 0, false
		}

		return ForwardAddress, true

	case analyze.TypeKindInterface:
		return ForwardInterface, true

	case analyze.TypeKindExternal:
		// Leaves from outside the subject package.
		return 0, false

	case analyze.TypeKindPointer:
		return b.pointerForward(ft, mode, path)

	case analyze.TypeKindSlice, analyze.TypeKindArray:
		return b.sliceForward(ft, mode, path)

	case analyze.TypeKindMap:
		return b.mapForward(ft, mode, path)

	default:
		b.skipField(path, fmt.Sprintf("%s fields cannot be visited", ft.Kind))
		return 0, false
	}
}

func (b *Builder) pointerForward(ft *analyze.TypeInfo, mode config.Mode, path string) (ForwardKind, bool) {
	elem := ft.ElemType

	switch elem.Kind {
	case analyze.TypeKindBasic, analyze.TypeKindAlias:
		if mode == config.ModeMutate {
			return ForwardPointer, true
		}

		return ForwardPointerDeref, true

	case analyze.TypeKindStruct:
		if !elem.IsNamed() {
			b.skipField(path, "anonymous struct fields cannot be visited")
			return 0, false
		}

		return ForwardPointer, true

	case analyze.TypeKindTypeParam:
		return ForwardPointer, true

	case analyze.TypeKindExternal:
		return 0, false

	default:
		b.skipField(path, fmt.Sprintf("pointers to %s fields cannot be visited", elem.Kind))
		return 0, false
	}
}

func (b *Builder) sliceForward(ft *analyze.TypeInfo, mode config.Mode, path string) (ForwardKind, bool) {
	elem := ft.ElemType

	switch elem.Kind {
	case analyze.TypeKindBasic, analyze.TypeKindAlias, analyze.TypeKindTypeParam:
		if mode == config.ModeMutate {
			return ForwardSliceAddrs, true
		}

		return ForwardSliceValues, true

	case analyze.TypeKindStruct:
		if !elem.IsNamed() {
			b.skipField(path, "anonymous struct fields cannot be visited")
			return 0, false
		}

		// Elements reach the visitor by address in both modes, so the
		// same pointer case handles them everywhere.
		return ForwardSliceAddrs, true

	case analyze.TypeKindInterface:
		return ForwardSliceValues, true

	case analyze.TypeKindPointer:
		if elem.ElemType != nil && elem.ElemType.Kind == analyze.TypeKindExternal {
			return 0, false
		}

		return ForwardSlicePtrs, true

	case analyze.TypeKindExternal:
		return 0, false

	default:
		b.skipField(path, fmt.Sprintf("elements of %s kind cannot be visited", elem.Kind))
		return 0, false
	}
}

func (b *Builder) mapForward(ft *analyze.TypeInfo, mode config.Mode, path string) (ForwardKind, bool) {
	if !ft.KeyType.IsOrdered() {
		b.skipField(path, "map keys are not ordered; iteration would be nondeterministic")
		return 0, false
	}

	elem := ft.ElemType

	switch elem.Kind {
	case analyze.TypeKindBasic, analyze.TypeKindAlias, analyze.TypeKindTypeParam:
		if mode == config.ModeMutate {
			b.warnMapMutate(path)
			return ForwardMapWriteback, true
		}

		return ForwardMapValues, true

	case analyze.TypeKindStruct:
		if !elem.IsNamed() {
			b.skipField(path, "anonymous struct fields cannot be visited")
			return 0, false
		}

		if mode == config.ModeMutate {
			b.warnMapMutate(path)
			return ForwardMapWriteback, true
		}

		return ForwardMapCopies, true

	case analyze.TypeKindInterface:
		return ForwardMapValues, true

	case analyze.TypeKindPointer:
		if elem.ElemType != nil && elem.ElemType.Kind == analyze.TypeKindExternal {
			return 0, false
		}

		return ForwardMapPtrs, true

	case analyze.TypeKindExternal:
		return 0, false

	default:
		b.skipField(path, fmt.Sprintf("values of %s kind cannot be visited", elem.Kind))
		return 0, false
	}
}

func (b *Builder) skipField(path, reason string) {
	b.diags.AddWarning(diagnostic.CodeSkippedField,
		fmt.Sprintf("%s: %s; field skipped", path, reason), "", path)
}

func (b *Builder) warnMapMutate(path string) {
	b.diags.AddWarning(diagnostic.CodeMapMutate,
		fmt.Sprintf("%s: map values mutate through a copy and write-back; keys never mutate", path), "", path)
}
