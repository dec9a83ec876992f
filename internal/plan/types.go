package plan

import (
	"visitorgen/internal/analyze"
	"visitorgen/internal/common"
	"visitorgen/internal/config"
)

// Plan is the final output of planning. It contains everything needed
// for code generation, resolved down to concrete method and type names.
type Plan struct {
	// Package is the subject package the generated file belongs to.
	Package *analyze.PackageInfo
	// Output is the file name the generated code is written to.
	Output string
	// Drives lists the per-field dispatch routines to generate, one per
	// (type, mode) pair, declaration order first.
	Drives []DrivePlan
	// Visits lists the typed Visit methods to generate.
	Visits []VisitPlan
	// Groups lists the capability groups to generate.
	Groups []GroupPlan
	// Graph holds all analyzed types for package and name lookups.
	Graph *analyze.TypeGraph
}

// DrivePlan describes one per-field dispatch routine.
type DrivePlan struct {
	// Type is the driven type: a named struct or a union interface.
	Type *analyze.TypeInfo
	// Target carries the declaration the routine came from, including
	// generic parameters.
	Target config.ResolvedTarget
	// Mode picks read or mutate forwarding.
	Mode config.Mode
	// FuncName is DriveInner/DriveInnerMut for struct methods, or the
	// package-level Drive<Name>Inner function name for unions.
	FuncName string
	// Union marks interface targets, dispatched per variant.
	Union bool
	// Variants are the retained variants of a union, discovery order.
	Variants []analyze.Implementer
	// Steps are the retained fields of a struct, declaration order.
	Steps []FieldStep
	// Opaque routines keep an empty body.
	Opaque bool
}

// FieldStep is one field forwarding inside a drive routine.
type FieldStep struct {
	// Field is the forwarded field.
	Field *analyze.FieldInfo
	// Forward says how the field value reaches the visitor.
	Forward ForwardKind
}

// ForwardKind describes how a drive routine hands a field to the visitor.
type ForwardKind int

const (
	// ForwardValue passes the field value as is.
	ForwardValue ForwardKind = iota
	// ForwardAddress passes the field's address.
	ForwardAddress
	// ForwardPointer passes the pointer field behind a nil check.
	ForwardPointer
	// ForwardPointerDeref dereferences a pointer field behind a nil check.
	ForwardPointerDeref
	// ForwardInterface passes the interface value behind a nil check.
	ForwardInterface
	// ForwardSliceValues visits each element value of a slice or array.
	ForwardSliceValues
	// ForwardSliceAddrs visits the address of each slice or array element.
	ForwardSliceAddrs
	// ForwardSlicePtrs visits each element pointer, skipping nils.
	ForwardSlicePtrs
	// ForwardMapValues visits map values in sorted key order.
	ForwardMapValues
	// ForwardMapPtrs visits map pointer values in sorted key order,
	// skipping nils.
	ForwardMapPtrs
	// ForwardMapCopies visits the address of a copy of each map value in
	// sorted key order. Map values are not addressable, so struct values
	// reach the visitor through a copy.
	ForwardMapCopies
	// ForwardMapWriteback visits a copy of each map value by address and
	// stores it back, in sorted key order.
	ForwardMapWriteback
)

// String returns a human-readable forwarding name.
func (f ForwardKind) String() string {
	switch f {
	case ForwardValue:
		return "value"
	case ForwardAddress:
		return "address"
	case ForwardPointer:
		return "pointer"
	case ForwardPointerDeref:
		return "pointer_deref"
	case ForwardInterface:
		return "interface"
	case ForwardSliceValues:
		return "slice_values"
	case ForwardSliceAddrs:
		return "slice_addrs"
	case ForwardSlicePtrs:
		return "slice_ptrs"
	case ForwardMapValues:
		return "map_values"
	case ForwardMapPtrs:
		return "map_ptrs"
	case ForwardMapCopies:
		return "map_copies"
	case ForwardMapWriteback:
		return "map_writeback"
	default:
		return common.UnknownStr
	}
}

// VisitPlan describes one generated Visit method on a visitor type.
type VisitPlan struct {
	// Visitor is the user-declared visitor the method goes on.
	Visitor *analyze.TypeInfo
	// Mode picks read or mutate dispatch.
	Mode config.Mode
	// Cases are the switch arms: concrete targets in declaration order,
	// union targets after them so they never shadow a variant.
	Cases []VisitCase
}

// VisitCase is one type-switch arm of a generated Visit method.
type VisitCase struct {
	// Behavior decides the arm body.
	Behavior config.Behavior
	// Target is the resolved case type.
	Target config.ResolvedTarget
	// Hooks are the user hook methods the arm calls, by behavior.
	Hooks HookNames
	// DriveName names the drive routine the arm delegates to:
	// a method name for structs, a function name for unions.
	DriveName string
	// Union marks interface cases.
	Union bool
}

// HookNames bundles the hook method names for one target fragment.
type HookNames struct {
	Visit string
	Enter string
	Exit  string
}

// GroupPlan describes one capability group: a marker interface, its
// participant implementations, wrapper adapters, and entry points.
type GroupPlan struct {
	// Name of the group, as declared.
	Name string
	// Marker is the generated marker interface name.
	Marker string
	// Requests are the visitor traits to generate, one per mode.
	Requests []RequestPlan
	// Participants are the group members, declaration order.
	Participants []ParticipantPlan
}

// RequestPlan is one requested visitor trait with its resolved names.
type RequestPlan struct {
	config.VisitorRequest

	// MarkerMethod is the unexported dispatch method on the marker
	// interface, e.g. driveVisitAst.
	MarkerMethod string
	// EntryName, InnerName, and ByValName are the package-level entry
	// functions, e.g. VisitAst, VisitAstInner, VisitAstByVal.
	EntryName string
	InnerName string
	ByValName string
	// WrapperName is the unexported adapter implementing visit.Visitor.
	WrapperName string
	// Suffix is appended to hook method names, "" or "Mut".
	Suffix string
}

// ParticipantPlan is one group member.
type ParticipantPlan struct {
	// Behavior decides the marker implementation body.
	Behavior config.Behavior
	// Target is the resolved participant.
	Target config.ResolvedTarget
	// Kind classifies how the participant is dispatched.
	Kind ParticipantKind
	// Hooks holds per-request hook names, aligned with GroupPlan.Requests.
	// Only override and override-skip participants carry them.
	Hooks []HookSet
}

// ParticipantKind classifies group members by dispatch shape.
type ParticipantKind int

const (
	// ParticipantNode is a named struct, possibly generic, that gets
	// marker method implementations.
	ParticipantNode ParticipantKind = iota
	// ParticipantLeaf is a basic type handled by a wrapper switch arm.
	ParticipantLeaf
	// ParticipantUnion is an interface whose variants carry the marker.
	ParticipantUnion
)

// String returns a human-readable participant kind.
func (k ParticipantKind) String() string {
	switch k {
	case ParticipantNode:
		return "node"
	case ParticipantLeaf:
		return "leaf"
	case ParticipantUnion:
		return "union"
	default:
		return common.UnknownStr
	}
}

// HookSet holds the hook interface and method names of one participant
// under one visitor trait. Enterer and exiter names are only set for
// plain override participants; an override-skip default never calls them.
type HookSet struct {
	VisitorIface string
	VisitMethod  string
	EntererIface string
	EnterMethod  string
	ExiterIface  string
	ExitMethod   string
}
