package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)
	require.NotNil(t, graph)

	// Check that the package was loaded
	assert.Contains(t, graph.Packages, "visitorgen/examples/ast")

	// Check that types were extracted
	binary := TypeID{PkgPath: "visitorgen/examples/ast", Name: "BinaryExpr"}
	assert.Contains(t, graph.Types, binary)

	expr := TypeID{PkgPath: "visitorgen/examples/ast", Name: "Expr"}
	assert.Contains(t, graph.Types, expr)
}

func TestAnalyzer_StructFieldsInDeclarationOrder(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	binary := graph.Lookup("visitorgen/examples/ast", "BinaryExpr")
	require.NotNil(t, binary)
	assert.Equal(t, TypeKindStruct, binary.Kind)

	var names []string
	for _, f := range binary.Fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"Op", "Left", "Right"}, names)
}

func TestAnalyzer_FieldKinds(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	block := graph.Lookup("visitorgen/examples/ast", "BlockStmt")
	require.NotNil(t, block)
	require.Len(t, block.Fields, 1)

	stmts := block.Fields[0]
	assert.Equal(t, "Stmts", stmts.Name)
	assert.Equal(t, TypeKindSlice, stmts.Type.Kind)
	require.NotNil(t, stmts.Type.ElemType)
	assert.Equal(t, TypeKindInterface, stmts.Type.ElemType.Kind)
	assert.Equal(t, "Stmt", stmts.Type.ElemType.ID.Name)

	assign := graph.Lookup("visitorgen/examples/ast", "AssignStmt")
	require.NotNil(t, assign)
	assert.Equal(t, TypeKindPointer, assign.Fields[0].Type.Kind)
	assert.Equal(t, "Ident", assign.Fields[0].Type.ElemType.ID.Name)
}

func TestAnalyzer_VisitTag(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	file := graph.Lookup("visitorgen/examples/ast", "File")
	require.NotNil(t, file)

	var nameField *FieldInfo
	for i := range file.Fields {
		if file.Fields[i].Name == "Name" {
			nameField = &file.Fields[i]
			break
		}
	}
	require.NotNil(t, nameField)

	assert.Equal(t, "-", nameField.VisitTag())
}

func TestAnalyzer_GenericType(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	chain := graph.Lookup("visitorgen/examples/ast", "Chain")
	require.NotNil(t, chain)
	assert.Equal(t, TypeKindStruct, chain.Kind)
	assert.True(t, chain.IsGeneric())
	require.Len(t, chain.TypeParams, 1)
	assert.Equal(t, "T", chain.TypeParams[0].Name)

	// Value is the type parameter, Next a pointer back to the chain.
	require.Len(t, chain.Fields, 2)
	assert.Equal(t, TypeKindTypeParam, chain.Fields[0].Type.Kind)
	assert.Equal(t, TypeKindPointer, chain.Fields[1].Type.Kind)
}

func TestTypeGraph_Implementers(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	expr := graph.Lookup("visitorgen/examples/ast", "Expr")
	require.NotNil(t, expr)
	require.Equal(t, TypeKindInterface, expr.Kind)

	impls := graph.Implementers(expr)

	var names []string
	for _, impl := range impls {
		names = append(names, impl.Type.ID.Name)
		assert.True(t, impl.Pointer, "%s should implement Expr via pointer receiver", impl.Type.ID.Name)
	}

	assert.Equal(t, []string{"BinaryExpr", "Literal", "ParenExpr"}, names)
}

func TestAnalyzer_GetStruct(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.LoadPackages("visitorgen/examples/ast")
	require.NoError(t, err)

	info, err := analyzer.GetStruct("visitorgen/examples/ast", "Literal")
	require.NoError(t, err)
	assert.Equal(t, TypeKindStruct, info.Kind)

	_, err = analyzer.GetStruct("visitorgen/examples/ast", "Expr")
	assert.Error(t, err, "interfaces are not structs")

	_, err = analyzer.GetStruct("visitorgen/examples/ast", "NoSuchType")
	assert.Error(t, err)
}
