package gen

import (
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
)

// receiver builds the pointer receiver of a generated method,
// e.g. "x *File" or "x *Chain[T]".
func receiver(t *analyze.TypeInfo) *jen.Statement {
	r := jen.Id("x").Op("*").Id(t.ID.Name)

	if len(t.TypeParams) > 0 {
		params := make([]jen.Code, 0, len(t.TypeParams))
		for _, tp := range t.TypeParams {
			params = append(params, jen.Id(tp.Name))
		}

		r.Index(params...)
	}

	return r
}

// caseType builds the type of a switch arm for one target. Structs
// dispatch by pointer; basics dispatch by value when reading and by
// pointer when mutating, matching how drive routines forward them.
func caseType(target config.ResolvedTarget, mode config.Mode) jen.Code {
	t := target.Type

	switch {
	case t != nil && t.Kind == analyze.TypeKindInterface:
		return jen.Id(target.TypeName)

	case t != nil && t.Kind == analyze.TypeKindBasic:
		if mode == config.ModeMutate {
			return jen.Op("*").Id(target.TypeName)
		}

		return jen.Id(target.TypeName)

	default:
		return jen.Op("*").Id(target.TypeName)
	}
}

// hookParam builds the hook method parameter type of one participant.
// Generic participants erase to any; a hook cannot name an open type
// parameter.
func hookParam(target config.ResolvedTarget, mode config.Mode) jen.Code {
	if target.IsGeneric() {
		return jen.Any()
	}

	return caseType(target, mode)
}

// shortRecv picks the receiver name of a generated Visit method: the
// lower-cased first letter of the visitor type, avoiding the names the
// method body already uses.
func shortRecv(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError {
		return "v"
	}

	name := string(unicode.ToLower(r))
	if name == "x" {
		return "v"
	}

	return name
}
