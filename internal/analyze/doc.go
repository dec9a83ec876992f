// Package analyze loads Go packages and builds a type graph for the
// generator.
//
// The graph records every named type declared in the loaded packages,
// with struct fields kept in declaration order, struct tags preserved,
// and container shapes (pointers, slices, arrays, maps) decomposed into
// element types. Interface types can be queried for their implementing
// named types, which is how union variants are discovered when a
// configuration does not list them explicitly.
package analyze
