// Package plan turns a normalized configuration model into a concrete
// generation plan: per-field dispatch routines, typed Visit methods, and
// capability groups, resolved down to the exact method, function, and
// interface names the generated code carries.
//
// Planning accumulates diagnostics instead of stopping at the first
// problem; callers gate on HasErrors before generating. Declared visits
// and groups are checked for completeness (every type they can reach
// while driving must have an entry), while standalone drive routines
// defer that check to their call sites, since any visitor may use them.
package plan
