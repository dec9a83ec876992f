// Package config provides the YAML schema, parsing, and normalization of
// visitor-generation configurations.
//
// A configuration names one subject package and declares which of its
// types participate in traversal and how. Normalization resolves every
// declaration against the loaded type graph and produces the typed Model
// consumed by the planners, accumulating diagnostics instead of aborting
// on the first problem.
//
// # Key capabilities
//
//   - Standalone per-field drive plans in read and mutate modes
//   - Ordered behavior declarations per visitor type (drive, skip,
//     override, enter, exit; a bare target means override)
//   - Capability groups: marker interface, visitor-trait requests,
//     ordered participant lists (drive, skip, override, override_skip)
//   - Field, type, and union-variant exclusions, plus opaque types
//   - Explicit name fragments and generic targets via the target grammar
//   - Did-you-mean suggestions on unknown names
//
// # Schema Overview
//
// The configuration file has the following structure:
//
//	package: .               # resolved relative to this file
//	output: ast_visit_gen.go
//	exclude:
//	  - File.Name            # one field
//	  - Comment              # a whole type or union variant
//	opaque:
//	  - Span
//	drive:
//	  - File                 # read mode only
//	  - type: "for[T] Chain[T]"
//	    modes: [read, mutate]
//	visit:
//	  - visitor: Collector
//	    mode: read
//	    targets:
//	      - drive: [File, BlockStmt]
//	      - skip: [Span, int]
//	      - enter: Ident
//	      - "BinaryExpr"     # bare target = override
//	groups:
//	  - name: Ast
//	    marker: AstNode
//	    visitors:
//	      - "visit_ast(&AstVisitor)"
//	      - "mutate_ast(&mut AstMutator), infallible"
//	    participants:
//	      - drive: [File, BlockStmt]
//	      - override: ["Expr", "lit: Literal"]
//	      - override_skip: Span
//
// # Target Grammar
//
// One target descriptor is
//
//	[name ":"] ["for" "[" params "]"] Type
//
// e.g. "Expr", "lit: Literal", "for[T] Chain[T]", "for[T Bound] T".
// Targets without an explicit name must infer one from the type name;
// bare generic parameters cannot and fail with a configuration error.
//
// # Visitor Request Grammar
//
// One request in a group's visitors list is
//
//	method "(" "&" ["mut "] Trait ")" [", infallible"]
//
// declaring the generated entry functions' base name, the trait name,
// the traversal mode, and whether the surface carries no short-circuit.
// At most one request per mode is allowed in a group, since hook method
// names carry only the mode suffix.
package config
