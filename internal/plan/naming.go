package plan

import (
	"unicode"
	"unicode/utf8"

	"visitorgen/internal/config"
	"visitorgen/internal/ident"
)

// Method names of the per-field dispatch routines generated on structs.
const (
	DriveMethodRead   = "DriveInner"
	DriveMethodMutate = "DriveInnerMut"
)

// ModeSuffix is appended to hook method names inside capability groups,
// where one participant serves several traits and names must not collide.
func ModeSuffix(mode config.Mode) string {
	if mode == config.ModeMutate {
		return "Mut"
	}

	return ""
}

// DriveMethod returns the dispatch method name for one mode.
func DriveMethod(mode config.Mode) string {
	if mode == config.ModeMutate {
		return DriveMethodMutate
	}

	return DriveMethodRead
}

// UnionDriveFunc returns the package-level dispatch function name for a
// union target, e.g. DriveStmtInner. Methods cannot hang off interface
// types, so unions dispatch through functions.
func UnionDriveFunc(fragment string, mode config.Mode) string {
	return "Drive" + ident.Camel(fragment) + "Inner" + ModeSuffix(mode)
}

// VisitHooks returns the hook method names a typed Visit method calls.
// The visitor type owns exactly one mode, so no suffix is needed.
func VisitHooks(fragment string) HookNames {
	stem := ident.Camel(fragment)

	return HookNames{
		Visit: "Visit" + stem,
		Enter: "Enter" + stem,
		Exit:  "Exit" + stem,
	}
}

// GroupHooks returns the hook method names of one participant under one
// group trait mode.
func GroupHooks(fragment string, mode config.Mode) HookNames {
	stem := ident.Camel(fragment) + ModeSuffix(mode)

	return HookNames{
		Visit: "Visit" + stem,
		Enter: "Enter" + stem,
		Exit:  "Exit" + stem,
	}
}

// GroupHookSet returns the full hook naming of one participant under one
// trait: optional interfaces probed by type assertion plus their methods.
func GroupHookSet(fragment string, mode config.Mode, withEnterExit bool) HookSet {
	stem := ident.Camel(fragment) + ModeSuffix(mode)
	hooks := GroupHooks(fragment, mode)

	set := HookSet{
		VisitorIface: stem + "Visitor",
		VisitMethod:  hooks.Visit,
	}

	if withEnterExit {
		set.EntererIface = stem + "Enterer"
		set.EnterMethod = hooks.Enter
		set.ExiterIface = stem + "Exiter"
		set.ExitMethod = hooks.Exit
	}

	return set
}

// MarkerMethod returns the unexported dispatch method a request puts on
// the marker interface, e.g. visit_ast becomes driveVisitAst.
func MarkerMethod(method string) string {
	return "drive" + ident.Camel(method)
}

// EntryName returns the exported entry function of a request,
// e.g. visit_ast becomes VisitAst.
func EntryName(method string) string {
	return ident.Camel(method)
}

// InnerName returns the contents-dispatch entry of a request,
// e.g. VisitAstInner.
func InnerName(method string) string {
	return EntryName(method) + "Inner"
}

// ByValName returns the chaining entry of a request, e.g. VisitAstByVal.
func ByValName(method string) string {
	return EntryName(method) + "ByVal"
}

// WrapperName returns the unexported adapter type of a request,
// e.g. visitAstDriver.
func WrapperName(method string) string {
	return lowerFirst(EntryName(method)) + "Driver"
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
