// Package gen renders a generation plan into one Go source file in the
// subject package.
//
// Emission builds declarations with jennifer and renders them
// formatted; a render failure dumps the unformatted buffer to a sidecar
// file to aid diagnosis. The plan is the naming authority: nothing in
// this package invents a name, it only arranges declarations.
//
// Generated surface per plan section:
//   - Drive routines: DriveInner/DriveInnerMut methods on structs,
//     Drive<Union>Inner functions switching over variants
//   - Visit methods: one type switch per declared visitor
//   - Capability groups: trait aliases, marker interface, hook probe
//     interfaces, participant marker methods, wrapper adapters, and
//     entry functions
package gen
