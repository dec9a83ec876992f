package analyze

import (
	"fmt"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./ast", "visitorgen/examples/ast").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register all packages first so externality checks during type
	// analysis see the full loaded set.
	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{
			Path: pkg.PkgPath,
			Name: pkg.Name,
			Dir:  packageDir(pkg),
		}
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// packageDir returns the directory holding the package sources.
func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) == 0 {
		return ""
	}

	return filepath.Dir(pkg.GoFiles[0])
}

// declFile returns the base name of the file declaring obj.
func declFile(pkg *packages.Package, obj types.Object) string {
	if pkg.Fset == nil || !obj.Pos().IsValid() {
		return ""
	}

	return filepath.Base(pkg.Fset.Position(obj.Pos()).Filename)
}

// processPackage extracts types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)

		// Only process type names (not variables, constants, functions)
		typeName, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}

		typeID := TypeID{
			PkgPath: pkg.PkgPath,
			Name:    name,
		}

		// Alias declarations get their own node. Running them through
		// analyzeType would hand back the aliased type's shared info and
		// clobber its identity.
		var typeInfo *TypeInfo
		if typeName.IsAlias() {
			typeInfo = &TypeInfo{
				Kind:       TypeKindAlias,
				Underlying: a.analyzeType(typeName.Type()),
				GoType:     typeName.Type(),
			}
		} else {
			typeInfo = a.analyzeType(typeName.Type())
		}

		typeInfo.ID = typeID
		typeInfo.DeclFile = declFile(pkg, obj)

		a.graph.Types[typeID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeID)
	}

	return nil
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	// No unaliasing needed: the Go 1.21 checker resolves aliases eagerly,
	// so alias nodes never appear here (types.Unalias exists only in 1.22+).

	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.TypeParam:
		info.Kind = TypeKindTypeParam
		info.ID = TypeID{Name: tt.Obj().Name()}

	default:
		// Functions, channels, etc. are marked as unknown (unsupported)
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	info.ID = TypeID{
		PkgPath: pkgPathOf(obj),
		Name:    obj.Name(),
	}

	if tparams := named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			tp := tparams.At(i)
			info.TypeParams = append(info.TypeParams, TypeParamInfo{
				Name:       tp.Obj().Name(),
				Constraint: a.analyzeType(tp.Constraint()),
			})
		}
	}

	if a.isExternalPackage(pkgPathOf(obj)) {
		info.Kind = TypeKindExternal
		return
	}

	underlying := named.Underlying()

	switch ut := underlying.(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		// Named type wrapping a basic, slice, map, or similar type
		// (e.g., type Ident string)
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}
}

func pkgPathOf(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return ""
	}

	return obj.Pkg().Path()
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type. Generated code
// lives in the declaring package, so unexported fields are captured too.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		fieldInfo := FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		}

		info.Fields = append(info.Fields, fieldInfo)
	}
}

// GetStruct returns the TypeInfo for a named struct by package path and name.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}
	return info, nil
}

// Implementer is a named type satisfying some interface, possibly only
// through its pointer method set.
type Implementer struct {
	Type    *TypeInfo
	Pointer bool
}

// Implementers returns every named type in the graph whose value or
// pointer method set satisfies the given interface type. Results are
// sorted by type name so discovery is deterministic.
func (g *TypeGraph) Implementers(iface *TypeInfo) []Implementer {
	if iface == nil || iface.GoType == nil {
		return nil
	}

	iff, ok := iface.GoType.Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	var found []Implementer

	for id, candidate := range g.Types {
		if id == iface.ID || candidate.Kind == TypeKindInterface {
			continue
		}
		if candidate.GoType == nil {
			continue
		}

		if types.Implements(candidate.GoType, iff) {
			found = append(found, Implementer{Type: candidate})
			continue
		}

		if types.Implements(types.NewPointer(candidate.GoType), iff) {
			found = append(found, Implementer{Type: candidate, Pointer: true})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Type.ID.String() < found[j].Type.ID.String()
	})

	return found
}
