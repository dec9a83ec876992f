package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Target
	}{
		{
			name:     "bare type",
			input:    "Expr",
			expected: Target{Raw: "Expr", TypeName: "Expr"},
		},
		{
			name:     "explicit fragment",
			input:    "lit: Literal",
			expected: Target{Raw: "lit: Literal", Name: "lit", TypeName: "Literal"},
		},
		{
			name:  "generic instantiation",
			input: "for[T] Chain[T]",
			expected: Target{
				Raw:      "for[T] Chain[T]",
				Params:   []TypeParamDecl{{Name: "T"}},
				TypeName: "Chain",
				TypeArgs: []string{"T"},
			},
		},
		{
			name:  "spaced for clause with constraint",
			input: "for [T AstNode] Chain[T]",
			expected: Target{
				Raw:      "for [T AstNode] Chain[T]",
				Params:   []TypeParamDecl{{Name: "T", Constraint: "AstNode"}},
				TypeName: "Chain",
				TypeArgs: []string{"T"},
			},
		},
		{
			name:  "bare parameter target",
			input: "any: for[T Driver] T",
			expected: Target{
				Raw:      "any: for[T Driver] T",
				Name:     "any",
				Params:   []TypeParamDecl{{Name: "T", Constraint: "Driver"}},
				TypeName: "T",
			},
		},
		{
			name:     "type name starting with for",
			input:    "Format",
			expected: Target{Raw: "Format", TypeName: "Format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestParseTarget_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"pointer syntax", "*Expr"},
		{"qualified name", "ast.Expr"},
		{"slice syntax", "[]Expr"},
		{"bad fragment", "Lit: Literal"},
		{"unterminated params", "for[T Chain[T]"},
		{"undeclared argument", "for[T] Chain[U]"},
		{"unterminated arguments", "for[T] Chain[T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTarget(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseTarget_GenericIsParam(t *testing.T) {
	target, err := ParseTarget("node: for[T AstNode] T")
	require.NoError(t, err)

	assert.True(t, target.IsGeneric())
	assert.True(t, target.IsParam())
	assert.Equal(t, "AstNode", target.ParamConstraint("T"))

	instantiated, err := ParseTarget("for[T] Chain[T]")
	require.NoError(t, err)
	assert.True(t, instantiated.IsGeneric())
	assert.False(t, instantiated.IsParam())
}

func TestParseVisitorRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected VisitorRequest
	}{
		{
			name:  "read mode",
			input: "visit_ast(&AstVisitor)",
			expected: VisitorRequest{
				Raw:    "visit_ast(&AstVisitor)",
				Method: "visit_ast",
				Trait:  "AstVisitor",
				Mode:   ModeRead,
			},
		},
		{
			name:  "mutate infallible",
			input: "mutate_ast(&mut AstMutator), infallible",
			expected: VisitorRequest{
				Raw:        "mutate_ast(&mut AstMutator), infallible",
				Method:     "mutate_ast",
				Trait:      "AstMutator",
				Mode:       ModeMutate,
				Infallible: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseVisitorRequest(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestParseVisitorRequest_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing parens", "visit_ast"},
		{"missing reference", "visit_ast(AstVisitor)"},
		{"camel method", "VisitAst(&AstVisitor)"},
		{"unknown suffix", "visit_ast(&AstVisitor), fallible"},
		{"empty trait", "visit_ast(&)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVisitorRequest(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseBehavior(t *testing.T) {
	behavior, err := ParseBehavior("")
	require.NoError(t, err)
	assert.Equal(t, BehaviorOverride, behavior, "bare targets mean override")

	behavior, err = ParseBehavior("override_skip")
	require.NoError(t, err)
	assert.Equal(t, BehaviorOverrideSkip, behavior)

	_, err = ParseBehavior("visit")
	assert.Error(t, err)
}

func TestBehaviorString(t *testing.T) {
	assert.Equal(t, "Drive", BehaviorDrive.String())
	assert.Equal(t, "OverrideSkip", BehaviorOverrideSkip.String())
	assert.Equal(t, "Exit", BehaviorExit.String())
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRead, mode)

	mode, err = ParseMode("mutate")
	require.NoError(t, err)
	assert.Equal(t, ModeMutate, mode)

	_, err = ParseMode("write")
	assert.Error(t, err)
}
