package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitorgen/internal/analyze"
	"visitorgen/internal/config"
	"visitorgen/internal/plan"
)

func render(t *testing.T, p *plan.Plan) string {
	t.Helper()

	file, err := NewGenerator(DefaultConfig()).Generate(p)
	require.NoError(t, err)
	require.Equal(t, p.Output, file.Filename)

	return string(file.Content)
}

func basicType(name string) *analyze.TypeInfo {
	return &analyze.TypeInfo{
		ID:   analyze.TypeID{Name: name},
		Kind: analyze.TypeKindBasic,
	}
}

func namedStruct(name string, fields ...analyze.FieldInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{
		ID:     analyze.TypeID{Name: name},
		Kind:   analyze.TypeKindStruct,
		Fields: fields,
	}
}

func field(name string, t *analyze.TypeInfo) analyze.FieldInfo {
	return analyze.FieldInfo{Name: name, Exported: true, Type: t}
}

func resolved(name, fragment string, t *analyze.TypeInfo) config.ResolvedTarget {
	return config.ResolvedTarget{
		Target:   config.Target{TypeName: name},
		Fragment: fragment,
		Type:     t,
	}
}

func astPlan(p plan.Plan) *plan.Plan {
	p.Package = &analyze.PackageInfo{Name: "ast"}
	p.Output = "ast_visit_gen.go"

	return &p
}

func TestGenerator_Generate_StructDrive(t *testing.T) {
	fileType := namedStruct("File",
		field("Source", namedStruct("Span")),
		field("Decls", &analyze.TypeInfo{Kind: analyze.TypeKindSlice}),
		field("Symbols", &analyze.TypeInfo{Kind: analyze.TypeKindMap}),
	)

	content := render(t, astPlan(plan.Plan{
		Drives: []plan.DrivePlan{{
			Type:     fileType,
			Mode:     config.ModeRead,
			FuncName: plan.DriveMethodRead,
			Steps: []plan.FieldStep{
				{Field: &fileType.Fields[0], Forward: plan.ForwardAddress},
				{Field: &fileType.Fields[1], Forward: plan.ForwardSliceValues},
				{Field: &fileType.Fields[2], Forward: plan.ForwardMapPtrs},
			},
		}},
	}))

	assert.Contains(t, content, "// Code generated by visitorgen. DO NOT EDIT.")
	assert.Contains(t, content, "package ast")
	assert.Contains(t, content, "func (x *File) DriveInner(v visit.Visitor) error")
	assert.Contains(t, content, "if err := v.Visit(&x.Source); err != nil")
	assert.Contains(t, content, "if err := visit.DriveSlice(v, x.Decls); err != nil")
	assert.Contains(t, content, "if err := visit.DriveMapPtr(v, x.Symbols); err != nil")
	assert.Contains(t, content, "return nil")
}

func TestGenerator_Generate_ForwardingShapes(t *testing.T) {
	row := namedStruct("Row")
	shape := namedStruct("Shape",
		field("Op", basicType("string")),
		field("Kind", &analyze.TypeInfo{Kind: analyze.TypeKindInterface, ID: analyze.TypeID{Name: "Expr"}}),
		field("Ref", &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: row}),
		field("Arr", &analyze.TypeInfo{Kind: analyze.TypeKindArray, ElemType: row}),
		field("Rows", &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: row}),
		field("ByKey", &analyze.TypeInfo{Kind: analyze.TypeKindMap, ElemType: row}),
	)

	content := render(t, astPlan(plan.Plan{
		Drives: []plan.DrivePlan{{
			Type:     shape,
			Mode:     config.ModeMutate,
			FuncName: plan.DriveMethodMutate,
			Steps: []plan.FieldStep{
				{Field: &shape.Fields[0], Forward: plan.ForwardAddress},
				{Field: &shape.Fields[1], Forward: plan.ForwardInterface},
				{Field: &shape.Fields[2], Forward: plan.ForwardPointer},
				{Field: &shape.Fields[3], Forward: plan.ForwardSliceAddrs},
				{Field: &shape.Fields[4], Forward: plan.ForwardSlicePtrs},
				{Field: &shape.Fields[5], Forward: plan.ForwardMapWriteback},
			},
		}},
	}))

	assert.Contains(t, content, "func (x *Shape) DriveInnerMut(v visit.Visitor) error")
	assert.Contains(t, content, "if x.Kind != nil {")
	assert.Contains(t, content, "if err := v.Visit(x.Kind); err != nil")
	assert.Contains(t, content, "if err := visit.DrivePtr(v, x.Ref); err != nil")
	assert.Contains(t, content, "visit.DriveSliceMut(v, x.Arr[:])")
	assert.Contains(t, content, "visit.DriveSlicePtr(v, x.Rows)")
	assert.Contains(t, content, "visit.DriveMapMut(v, x.ByKey)")
}

func TestGenerator_Generate_OpaqueDrive(t *testing.T) {
	content := render(t, astPlan(plan.Plan{
		Drives: []plan.DrivePlan{{
			Type:     namedStruct("Span"),
			Mode:     config.ModeRead,
			FuncName: plan.DriveMethodRead,
			Opaque:   true,
		}},
	}))

	assert.Contains(t, content, "// DriveInner visits nothing. Span is opaque.")
	assert.Contains(t, content, "func (x *Span) DriveInner(v visit.Visitor) error")
	assert.Contains(t, content, "return nil")
}

func TestGenerator_Generate_GenericDrive(t *testing.T) {
	chain := &analyze.TypeInfo{
		ID:         analyze.TypeID{Name: "Chain"},
		Kind:       analyze.TypeKindStruct,
		TypeParams: []analyze.TypeParamInfo{{Name: "T"}},
		Fields:     []analyze.FieldInfo{field("Value", nil)},
	}

	content := render(t, astPlan(plan.Plan{
		Drives: []plan.DrivePlan{{
			Type:     chain,
			Mode:     config.ModeRead,
			FuncName: plan.DriveMethodRead,
			Steps: []plan.FieldStep{
				{Field: &chain.Fields[0], Forward: plan.ForwardValue},
			},
		}},
	}))

	assert.Contains(t, content, "func (x *Chain[T]) DriveInner(v visit.Visitor) error")
	assert.Contains(t, content, "if err := v.Visit(x.Value); err != nil")
}

func TestGenerator_Generate_UnionDrive(t *testing.T) {
	stmt := &analyze.TypeInfo{ID: analyze.TypeID{Name: "Stmt"}, Kind: analyze.TypeKindInterface}

	content := render(t, astPlan(plan.Plan{
		Drives: []plan.DrivePlan{{
			Type:     stmt,
			Target:   resolved("Stmt", "stmt", stmt),
			Mode:     config.ModeRead,
			FuncName: plan.UnionDriveFunc("stmt", config.ModeRead),
			Union:    true,
			Variants: []analyze.Implementer{
				{Type: namedStruct("AssignStmt"), Pointer: true},
				{Type: namedStruct("BlockStmt"), Pointer: false},
			},
		}},
	}))

	assert.Contains(t, content, "func DriveStmtInner(x Stmt, v visit.Visitor) error")
	assert.Contains(t, content, "switch x := x.(type)")
	assert.Contains(t, content, "case *AssignStmt:")
	assert.Contains(t, content, "return x.DriveInner(v)")

	// A value-receiver variant gets a second arm driving a copy.
	assert.Contains(t, content, "case BlockStmt:")
	assert.Contains(t, content, "tmp := x")
	assert.Contains(t, content, "return tmp.DriveInner(v)")

	assert.Contains(t, content, "default:")
}

func TestGenerator_Generate_VisitMethod(t *testing.T) {
	content := render(t, astPlan(plan.Plan{
		Visits: []plan.VisitPlan{{
			Visitor: namedStruct("Collector"),
			Mode:    config.ModeRead,
			Cases: []plan.VisitCase{
				{
					Behavior:  config.BehaviorDrive,
					Target:    resolved("File", "file", namedStruct("File")),
					DriveName: plan.DriveMethodRead,
				},
				{
					Behavior: config.BehaviorSkip,
					Target:   resolved("int", "int", basicType("int")),
				},
				{
					Behavior:  config.BehaviorEnter,
					Target:    resolved("Ident", "ident", namedStruct("Ident")),
					Hooks:     plan.VisitHooks("ident"),
					DriveName: plan.DriveMethodRead,
				},
				{
					Behavior: config.BehaviorOverride,
					Target:   resolved("BinaryExpr", "binary_expr", namedStruct("BinaryExpr")),
					Hooks:    plan.VisitHooks("binary_expr"),
				},
				{
					Behavior:  config.BehaviorDrive,
					Target:    resolved("Stmt", "stmt", &analyze.TypeInfo{ID: analyze.TypeID{Name: "Stmt"}, Kind: analyze.TypeKindInterface}),
					DriveName: plan.UnionDriveFunc("stmt", config.ModeRead),
					Union:     true,
				},
			},
		}},
	}))

	assert.Contains(t, content, "func (c *Collector) Visit(value any) error")
	assert.Contains(t, content, "switch x := value.(type)")
	assert.Contains(t, content, "case *File:")
	assert.Contains(t, content, "return x.DriveInner(c)")
	assert.Contains(t, content, "case int:")
	assert.Contains(t, content, "c.EnterIdent(x)")
	assert.Contains(t, content, "return c.VisitBinaryExpr(x)")
	assert.Contains(t, content, "case Stmt:")
	assert.Contains(t, content, "return DriveStmtInner(x, c)")
}

func TestGenerator_Generate_VisitExit(t *testing.T) {
	content := render(t, astPlan(plan.Plan{
		Visits: []plan.VisitPlan{{
			Visitor: namedStruct("Rewriter"),
			Mode:    config.ModeMutate,
			Cases: []plan.VisitCase{
				{
					Behavior:  config.BehaviorExit,
					Target:    resolved("BinaryExpr", "binary_expr", namedStruct("BinaryExpr")),
					Hooks:     plan.VisitHooks("binary_expr"),
					DriveName: plan.DriveMethodMutate,
				},
				{
					Behavior: config.BehaviorSkip,
					Target:   resolved("string", "string", basicType("string")),
				},
			},
		}},
	}))

	assert.Contains(t, content, "func (r *Rewriter) Visit(value any) error")
	assert.Contains(t, content, "if err := x.DriveInnerMut(r); err != nil")
	assert.Contains(t, content, "r.ExitBinaryExpr(x)")

	// Mutate mode dispatches basics by pointer.
	assert.Contains(t, content, "case *string:")
}

func groupFixture() plan.GroupPlan {
	requests := []plan.RequestPlan{
		{
			VisitorRequest: config.VisitorRequest{Method: "visit_ast", Trait: "AstVisitor"},
			MarkerMethod:   plan.MarkerMethod("visit_ast"),
			EntryName:      plan.EntryName("visit_ast"),
			InnerName:      plan.InnerName("visit_ast"),
			ByValName:      plan.ByValName("visit_ast"),
			WrapperName:    plan.WrapperName("visit_ast"),
		},
		{
			VisitorRequest: config.VisitorRequest{
				Method: "mutate_ast", Trait: "AstMutator",
				Mode: config.ModeMutate, Infallible: true,
			},
			MarkerMethod: plan.MarkerMethod("mutate_ast"),
			EntryName:    plan.EntryName("mutate_ast"),
			InnerName:    plan.InnerName("mutate_ast"),
			ByValName:    plan.ByValName("mutate_ast"),
			WrapperName:  plan.WrapperName("mutate_ast"),
			Suffix:       plan.ModeSuffix(config.ModeMutate),
		},
	}

	chain := &analyze.TypeInfo{
		ID:         analyze.TypeID{Name: "Chain"},
		Kind:       analyze.TypeKindStruct,
		TypeParams: []analyze.TypeParamInfo{{Name: "T"}},
	}

	chainTarget := config.ResolvedTarget{
		Target: config.Target{
			TypeName: "Chain",
			Params:   []config.TypeParamDecl{{Name: "T"}},
			TypeArgs: []string{"T"},
		},
		Fragment: "chain",
		Type:     chain,
	}

	hooks := func(fragment string, withEnterExit bool) []plan.HookSet {
		return []plan.HookSet{
			plan.GroupHookSet(fragment, config.ModeRead, withEnterExit),
			plan.GroupHookSet(fragment, config.ModeMutate, withEnterExit),
		}
	}

	return plan.GroupPlan{
		Name:     "Ast",
		Marker:   "AstNode",
		Requests: requests,
		Participants: []plan.ParticipantPlan{
			{
				Behavior: config.BehaviorDrive,
				Target:   resolved("File", "file", namedStruct("File")),
				Kind:     plan.ParticipantNode,
			},
			{
				Behavior: config.BehaviorOverride,
				Target:   resolved("BinaryExpr", "binary_expr", namedStruct("BinaryExpr")),
				Kind:     plan.ParticipantNode,
				Hooks:    hooks("binary_expr", true),
			},
			{
				Behavior: config.BehaviorOverrideSkip,
				Target:   resolved("Span", "span", namedStruct("Span")),
				Kind:     plan.ParticipantNode,
				Hooks:    hooks("span", false),
			},
			{
				Behavior: config.BehaviorOverride,
				Target:   chainTarget,
				Kind:     plan.ParticipantNode,
				Hooks:    hooks("chain", true),
			},
			{
				Behavior: config.BehaviorSkip,
				Target:   resolved("int", "int", basicType("int")),
				Kind:     plan.ParticipantLeaf,
			},
			{
				Behavior: config.BehaviorOverride,
				Target:   resolved("string", "string", basicType("string")),
				Kind:     plan.ParticipantLeaf,
				Hooks:    hooks("string", true),
			},
			{
				Behavior: config.BehaviorDrive,
				Target:   resolved("Stmt", "stmt", &analyze.TypeInfo{ID: analyze.TypeID{Name: "Stmt"}, Kind: analyze.TypeKindInterface}),
				Kind:     plan.ParticipantUnion,
			},
		},
	}
}

func TestGenerator_Generate_GroupSurface(t *testing.T) {
	content := render(t, astPlan(plan.Plan{Groups: []plan.GroupPlan{groupFixture()}}))

	// Traits and marker.
	assert.Contains(t, content, "type AstVisitor = any")
	assert.Contains(t, content, "type AstMutator = any")
	assert.Contains(t, content, "type AstNode interface")
	assert.Contains(t, content, "driveVisitAst(v AstVisitor) error")
	assert.Contains(t, content, "driveMutateAst(v AstMutator)")
	assert.NotContains(t, content, "driveMutateAst(v AstMutator) error")

	// Entry functions.
	assert.Contains(t, content, "func VisitAst(v AstVisitor, x AstNode) error")
	assert.Contains(t, content, "func VisitAstInner(v AstVisitor, x AstNode) error")
	assert.Contains(t, content, "if d, ok := x.(visit.Driver); ok")
	assert.Contains(t, content, "return d.DriveInner(&visitAstDriver{v: v})")
	assert.Contains(t, content, "func VisitAstByVal[V any](v V, x AstNode) (V, error)")
	assert.Contains(t, content, "func MutateAst(v AstMutator, x AstNode) {")
	assert.Contains(t, content, "func MutateAstInner(v AstMutator, x AstNode) {")
	assert.Contains(t, content, "if d, ok := x.(visit.DriverMut); ok")
	assert.Contains(t, content, "_ = d.DriveInnerMut(&mutateAstDriver{v: v})")
	assert.Contains(t, content, "func MutateAstByVal[V any](v V, x AstNode) V {")
}

func TestGenerator_Generate_GroupWrappers(t *testing.T) {
	content := render(t, astPlan(plan.Plan{Groups: []plan.GroupPlan{groupFixture()}}))

	assert.Contains(t, content, "type visitAstDriver struct")
	assert.Contains(t, content, "func (d *visitAstDriver) Visit(value any) error")
	assert.Contains(t, content, "case AstNode:")
	assert.Contains(t, content, "return x.driveVisitAst(d.v)")
	assert.Contains(t, content, "x.driveMutateAst(d.v)")

	// Leaf arms dispatch by value when reading, by pointer when mutating.
	assert.Contains(t, content, "case int:")
	assert.Contains(t, content, "case *int:")
	assert.Contains(t, content, "if h, ok := d.v.(StringVisitor); ok")
	assert.Contains(t, content, "return h.VisitString(x)")
	assert.Contains(t, content, "if h, ok := d.v.(StringMutVisitor); ok")

	// Union arms hand the wrapper back in so variants keep dispatching.
	assert.Contains(t, content, "case Stmt:")
	assert.Contains(t, content, "return DriveStmtInner(x, d)")
	assert.Contains(t, content, "return DriveStmtInnerMut(x, d)")
}

func TestGenerator_Generate_GroupHooksAndImpls(t *testing.T) {
	content := render(t, astPlan(plan.Plan{Groups: []plan.GroupPlan{groupFixture()}}))

	// Hook interfaces, one family per trait.
	assert.Contains(t, content, "type BinaryExprVisitor interface")
	assert.Contains(t, content, "VisitBinaryExpr(x *BinaryExpr) error")
	assert.Contains(t, content, "type BinaryExprEnterer interface")
	assert.Contains(t, content, "EnterBinaryExpr(x *BinaryExpr)")
	assert.Contains(t, content, "type BinaryExprMutVisitor interface")
	assert.Contains(t, content, "VisitBinaryExprMut(x *BinaryExpr)")
	assert.NotContains(t, content, "VisitBinaryExprMut(x *BinaryExpr) error")

	// Override-skip participants get no enter or exit hooks.
	assert.Contains(t, content, "type SpanVisitor interface")
	assert.NotContains(t, content, "type SpanEnterer")

	// Generic participants erase their hook parameter.
	assert.Contains(t, content, "VisitChain(x any) error")

	// Marker implementations.
	assert.Contains(t, content, "func (x *File) driveVisitAst(v AstVisitor) error")
	assert.Contains(t, content, "return VisitAstInner(v, x)")
	assert.Contains(t, content, "func (x *File) driveMutateAst(v AstMutator) {")
	assert.Contains(t, content, "MutateAstInner(v, x)")
	assert.Contains(t, content, "func (x *Chain[T]) driveVisitAst(v AstVisitor) error")

	// Override defaults probe hooks then drive.
	assert.Contains(t, content, "if h, ok := v.(BinaryExprVisitor); ok")
	assert.Contains(t, content, "return h.VisitBinaryExpr(x)")
	assert.Contains(t, content, "if h, ok := v.(BinaryExprEnterer); ok")
	assert.Contains(t, content, "if err := VisitAstInner(v, x); err != nil")
	assert.Contains(t, content, "if h, ok := v.(BinaryExprMutVisitor); ok")
	assert.Contains(t, content, "h.VisitBinaryExprMut(x)")

	// Override-skip defaults do nothing.
	assert.Contains(t, content, "if h, ok := v.(SpanVisitor); ok")
	assert.Contains(t, content, "return h.VisitSpan(x)")
}

func TestGenerator_Generate_RenderFailureDumps(t *testing.T) {
	debugDir := t.TempDir()

	gen := NewGenerator(Config{DebugDir: debugDir})

	_, err := gen.Generate(astPlan(plan.Plan{
		Drives: []plan.DrivePlan{{
			Type:     namedStruct("not a go name"),
			Mode:     config.ModeRead,
			FuncName: plan.DriveMethodRead,
		}},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering ast_visit_gen.go")

	_, statErr := os.Stat(filepath.Join(debugDir, "ast_visit_gen.unformatted.go"))
	assert.NoError(t, statErr)
}

func TestGenerator_Generate_ExamplePipeline(t *testing.T) {
	graph, err := analyze.NewAnalyzer().LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(exampleConfig))
	require.NoError(t, err)

	model, diags := config.NewNormalizer(cfg, graph, "visitorgen/examples/ast").Normalize()
	require.True(t, diags.IsValid(), "config: %v", diags.Error())

	p, diags := plan.NewBuilder(model).Build()
	require.True(t, diags.IsValid(), "plan: %v", diags.Error())

	file, err := NewGenerator(DefaultConfig()).Generate(p)
	require.NoError(t, err)
	assert.Equal(t, "ast_visit_gen.go", file.Filename)

	content := string(file.Content)

	assert.Contains(t, content, "func (x *File) DriveInner(v visit.Visitor) error")
	assert.Contains(t, content, "func (x *File) DriveInnerMut(v visit.Visitor) error")
	assert.Contains(t, content, "func (x *Chain[T]) DriveInner(v visit.Visitor) error")
	assert.Contains(t, content, "func DriveStmtInner(x Stmt, v visit.Visitor) error")
	assert.Contains(t, content, "func DriveExprInnerMut(x Expr, v visit.Visitor) error")
	assert.Contains(t, content, "func (c *Collector) Visit(value any) error")
	assert.Contains(t, content, "func (r *Rewriter) Visit(value any) error")
	assert.Contains(t, content, "type AstNode interface")
	assert.Contains(t, content, "func VisitAstByVal[V any](v V, x AstNode) (V, error)")
	assert.Contains(t, content, "func MutateAstByVal[V any](v V, x AstNode) V {")
	assert.Contains(t, content, "func (x *Chain[T]) driveMutateAst(v AstMutator)")
	assert.Contains(t, content, "return DriveExprInner(x, d)")

	// Exclusions never surface.
	assert.NotContains(t, content, "Comment")
	assert.NotContains(t, content, "x.Version")
}

// exampleConfig mirrors the example package's own visitors.yaml.
const exampleConfig = `
package: .
output: ast_visit_gen.go
exclude:
  - Comment
  - File.Version
opaque:
  - Span
drive:
  - File
  - type: for[T] Chain[T]
    modes: [read, mutate]
visit:
  - visitor: Collector
    targets:
      - drive: [File, BlockStmt, ExprStmt, AssignStmt, ParenExpr, Stmt, Expr]
      - skip: [Span, string, int]
      - enter: Ident
      - override: [BinaryExpr, Literal]
  - visitor: Rewriter
    mode: mutate
    targets:
      - drive: [File, BlockStmt, ExprStmt, AssignStmt, ParenExpr, Ident, Stmt, Expr]
      - skip: [Span, string, int]
      - exit: BinaryExpr
      - override: Literal
groups:
  - name: Ast
    marker: AstNode
    visitors:
      - visit_ast(&AstVisitor)
      - mutate_ast(&mut AstMutator), infallible
    participants:
      - drive: [File, BlockStmt, ExprStmt, AssignStmt, ParenExpr, Ident, Expr, Stmt]
      - override: [BinaryExpr, Literal, "for[T] Chain[T]"]
      - override_skip: Span
      - skip: [int, string]
`
