package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Target is one parsed target descriptor from a behavior declaration
// list. The descriptor grammar is
//
//	[name ":"] ["for" "[" params "]"] Type
//
// where Type is a named type, optionally instantiated with the declared
// parameters ("for[T] List[T]"), or a bare parameter ("for[T Bound] T").
// The optional leading name supplies an explicit method-name fragment
// for targets whose name cannot be inferred.
type Target struct {
	// Raw is the original descriptor text, kept for diagnostics.
	Raw string

	// Name is the explicit name fragment, empty when it should be
	// inferred from TypeName.
	Name string

	// Params are the generic parameters from the for[...] clause.
	Params []TypeParamDecl

	// TypeName is the base type name.
	TypeName string

	// TypeArgs are the type arguments when the type is written as an
	// instantiation, e.g. ["T"] for "List[T]".
	TypeArgs []string
}

// TypeParamDecl is one declared generic parameter, with an optional
// constraint ("T" or "T Bound").
type TypeParamDecl struct {
	Name       string
	Constraint string
}

// IsGeneric returns true if the target declared generic parameters.
func (t Target) IsGeneric() bool {
	return len(t.Params) > 0
}

// IsParam returns true if the target type is itself one of the declared
// generic parameters, e.g. "for[T Bound] T".
func (t Target) IsParam() bool {
	for _, p := range t.Params {
		if p.Name == t.TypeName {
			return true
		}
	}

	return false
}

// ParamConstraint returns the declared constraint of the named parameter,
// or empty.
func (t Target) ParamConstraint(name string) string {
	for _, p := range t.Params {
		if p.Name == name {
			return p.Constraint
		}
	}

	return ""
}

// ParseTarget parses one target descriptor string.
func ParseTarget(s string) (Target, error) {
	target := Target{Raw: s}

	rest := strings.TrimSpace(s)
	if rest == "" {
		return target, errors.New("empty target")
	}

	// Optional "name:" prefix supplying the explicit fragment.
	if i := strings.Index(rest, ":"); i >= 0 {
		name := strings.TrimSpace(rest[:i])
		if !isSnakeIdent(name) {
			return target, fmt.Errorf("invalid name fragment %q, expected a snake_case identifier", name)
		}

		target.Name = name
		rest = strings.TrimSpace(rest[i+1:])
	}

	// Optional "for[params]" clause. A type whose name merely starts
	// with "for" (e.g. Format) must not trigger it.
	if after, ok := strings.CutPrefix(rest, "for"); ok {
		after = strings.TrimLeft(after, " ")

		if strings.HasPrefix(after, "[") {
			end := strings.Index(after, "]")
			if end < 0 {
				return target, fmt.Errorf("unterminated parameter list in %q", s)
			}

			params, err := parseParamList(after[1:end])
			if err != nil {
				return target, err
			}

			target.Params = params
			rest = strings.TrimSpace(after[end+1:])
		}
	}

	name, args, err := parseTypeExpr(rest)
	if err != nil {
		return target, err
	}

	target.TypeName = name
	target.TypeArgs = args

	for _, arg := range args {
		if !paramDeclared(target.Params, arg) {
			return target, fmt.Errorf("type argument %q is not a declared parameter in %q", arg, s)
		}
	}

	return target, nil
}

func paramDeclared(params []TypeParamDecl, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}

	return false
}

// parseParamList parses the inside of a for[...] clause: comma-separated
// parameters, each "Name" or "Name Constraint".
func parseParamList(s string) ([]TypeParamDecl, error) {
	var params []TypeParamDecl

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New("empty generic parameter")
		}

		name, constraint, _ := strings.Cut(part, " ")
		constraint = strings.TrimSpace(constraint)

		if !isGoIdent(name) {
			return nil, fmt.Errorf("invalid generic parameter %q", name)
		}

		if constraint != "" && !isGoIdent(constraint) {
			return nil, fmt.Errorf("invalid constraint %q for parameter %s", constraint, name)
		}

		params = append(params, TypeParamDecl{Name: name, Constraint: constraint})
	}

	return params, nil
}

// parseTypeExpr parses "Name" or "Name[Arg, ...]". Composite type syntax
// (pointers, slices, qualified names) is rejected: plan subjects live in
// the subject package and are referenced by bare name.
func parseTypeExpr(s string) (string, []string, error) {
	if s == "" {
		return "", nil, errors.New("missing type in target")
	}

	name := s

	var args []string

	if i := strings.Index(s, "["); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return "", nil, fmt.Errorf("unterminated type arguments in %q", s)
		}

		name = strings.TrimSpace(s[:i])

		for _, arg := range strings.Split(s[i+1:len(s)-1], ",") {
			arg = strings.TrimSpace(arg)
			if !isGoIdent(arg) {
				return "", nil, fmt.Errorf("invalid type argument %q in %q", arg, s)
			}

			args = append(args, arg)
		}
	}

	if !isGoIdent(name) {
		return "", nil, fmt.Errorf("invalid type name %q, expected a named type from the subject package", name)
	}

	return name, args, nil
}

// VisitorRequest is one parsed visitor-trait request from a group
// declaration. The request grammar is
//
//	method "(" "&" ["mut "] Trait ")" [", infallible"]
//
// e.g. "visit_ast(&AstVisitor)" or "mutate_ast(&mut AstMutator), infallible".
type VisitorRequest struct {
	// Raw is the original request text, kept for diagnostics.
	Raw string

	// Method is the snake_case entry method fragment, e.g. "visit_ast".
	Method string

	// Trait is the generated visitor surface name, e.g. "AstVisitor".
	Trait string

	// Mode is read for "&" requests and mutate for "&mut".
	Mode Mode

	// Infallible marks a surface with no short-circuit: none of its
	// generated signatures carry an error.
	Infallible bool
}

// ParseVisitorRequest parses one visitor-trait request string.
func ParseVisitorRequest(s string) (VisitorRequest, error) {
	req := VisitorRequest{Raw: s}

	rest := strings.TrimSpace(s)

	if i := strings.LastIndex(rest, ","); i >= 0 {
		suffix := strings.TrimSpace(rest[i+1:])
		if suffix != "infallible" {
			return req, fmt.Errorf("unexpected suffix %q, only \"infallible\" is allowed", suffix)
		}

		req.Infallible = true
		rest = strings.TrimSpace(rest[:i])
	}

	open := strings.Index(rest, "(")
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return req, fmt.Errorf("expected method(&Trait) form, got %q", s)
	}

	method := strings.TrimSpace(rest[:open])
	if !isSnakeIdent(method) {
		return req, fmt.Errorf("invalid method name %q, expected a snake_case identifier", method)
	}

	req.Method = method

	inner := strings.TrimSpace(rest[open+1 : len(rest)-1])

	inner, ok := strings.CutPrefix(inner, "&")
	if !ok {
		return req, fmt.Errorf("expected &Trait or &mut Trait, got %q", s)
	}

	inner = strings.TrimSpace(inner)

	if after, isMut := strings.CutPrefix(inner, "mut "); isMut {
		req.Mode = ModeMutate
		inner = strings.TrimSpace(after)
	}

	if !isGoIdent(inner) {
		return req, fmt.Errorf("invalid trait name %q", inner)
	}

	req.Trait = inner

	return req, nil
}

// isSnakeIdent reports whether s is a lowercase snake_case identifier.
func isSnakeIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case unicode.IsLower(r):
		case r == '_' && i > 0:
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}

	return true
}

// isGoIdent reports whether s is a valid Go identifier.
func isGoIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}

	return true
}
