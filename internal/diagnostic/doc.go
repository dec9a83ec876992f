// Package diagnostic provides structured errors and warnings accumulated
// while turning a visitor configuration into codegen plans.
//
// Key capabilities:
//   - Stable codes per diagnostic kind
//   - Subject/path context pointing at the offending configuration entry
//   - "Did you mean" suggestions for unknown type names
//   - Batched reporting: one bad entry never hides its siblings
package diagnostic
