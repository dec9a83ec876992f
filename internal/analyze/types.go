package analyze

import (
	"go/types"
	"reflect"

	"visitorgen/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "visitorgen/examples/ast"
	Name    string // e.g., "Expr"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindInterface          // interface type, the union form
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map from key type to element type
	TypeKindTypeParam          // type parameter of a generic type
	TypeKindAlias              // named type wrapping another
	TypeKindExternal           // type from outside the loaded packages
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindTypeParam:
		return "type parameter"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID          // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind        // Kind of type
	Underlying *TypeInfo       // For aliases, the wrapped type
	ElemType   *TypeInfo       // For pointers, slices, arrays, and maps, the element type
	KeyType    *TypeInfo       // For maps, the key type
	Fields     []FieldInfo     // For structs, the fields in declaration order
	TypeParams []TypeParamInfo // For generic named types, the declared type parameters
	GoType     types.Type      // The original go/types.Type
	DeclFile   string          // Base name of the file declaring this name, for package-level types
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsGeneric returns true if this is a generic named type.
func (t *TypeInfo) IsGeneric() bool {
	return len(t.TypeParams) > 0
}

// Deref returns the pointee for pointer types and t itself otherwise.
func (t *TypeInfo) Deref() *TypeInfo {
	if t.Kind == TypeKindPointer && t.ElemType != nil {
		return t.ElemType
	}

	return t
}

// CoreType unwraps containers (pointers, slices, arrays, maps) down to
// the element type that per-field dispatch ultimately forwards. Map keys
// are structure, not content, so only the value side is followed.
func CoreType(t *TypeInfo) *TypeInfo {
	for t != nil {
		switch t.Kind {
		case TypeKindPointer, TypeKindSlice, TypeKindArray, TypeKindMap:
			t = t.ElemType
		default:
			return t
		}
	}

	return nil
}

// BasicName returns the predeclared name of an unnamed basic type, such
// as "int" or "string", and "" for everything else.
func (t *TypeInfo) BasicName() string {
	if t == nil || t.GoType == nil {
		return ""
	}

	if b, ok := t.GoType.(*types.Basic); ok {
		return b.Name()
	}

	return ""
}

// IsOrdered reports whether values of this type are ordered by <, so
// they can key deterministic map iteration. Named types count through
// their underlying type.
func (t *TypeInfo) IsOrdered() bool {
	if t == nil || t.GoType == nil {
		return false
	}

	b, ok := t.GoType.Underlying().(*types.Basic)
	if !ok {
		return false
	}

	return b.Info()&types.IsOrdered != 0
}

// TypeParamInfo describes one type parameter of a generic type.
type TypeParamInfo struct {
	Name       string    // Parameter name, e.g. "T"
	Constraint *TypeInfo // The constraint interface
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// VisitTag returns the value of the "visit" struct tag.
func (f *FieldInfo) VisitTag() string {
	return f.Tag.Get("visit")
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup resolves a bare type name within a package.
func (g *TypeGraph) Lookup(pkgPath, name string) *TypeInfo {
	return g.Types[TypeID{PkgPath: pkgPath, Name: name}]
}

// Names returns the names of all types declared in a package, in the
// order they were registered.
func (g *TypeGraph) Names(pkgPath string) []string {
	pkg := g.Packages[pkgPath]
	if pkg == nil {
		return nil
	}

	return common.Map(pkg.Types, func(id TypeID) string { return id.Name })
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources
	Types []TypeID // Named types defined in this package
}
