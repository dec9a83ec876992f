package analyze

import (
	"strings"
)

// TypeString returns a readable Go-like rendering of a TypeInfo, used in
// diagnostics. Named types from localPkg print bare, other named types
// print with their package path.
func TypeString(t *TypeInfo, localPkg string) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() {
		name := t.ID.Name
		if t.ID.PkgPath != "" && t.ID.PkgPath != localPkg {
			name = t.ID.String()
		}

		if t.IsGeneric() {
			params := make([]string, len(t.TypeParams))
			for i, tp := range t.TypeParams {
				params[i] = tp.Name
			}

			return name + "[" + strings.Join(params, ", ") + "]"
		}

		return name
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.GoType.String()

	case TypeKindPointer:
		return "*" + TypeString(t.ElemType, localPkg)

	case TypeKindSlice:
		return "[]" + TypeString(t.ElemType, localPkg)

	case TypeKindArray:
		return "[...]" + TypeString(t.ElemType, localPkg)

	case TypeKindMap:
		return "map[" + TypeString(t.KeyType, localPkg) + "]" + TypeString(t.ElemType, localPkg)

	case TypeKindStruct:
		return "struct{...}"

	case TypeKindInterface:
		return "interface{...}"

	default:
		if t.GoType != nil {
			return t.GoType.String()
		}

		return "<unknown>"
	}
}

// FieldPath returns a dotted path string for a field within a type.
// Example: Expr, Left -> "Expr.Left"
func FieldPath(typeName string, fieldNames ...string) string {
	parts := append([]string{typeName}, fieldNames...)
	return strings.Join(parts, ".")
}
