// Package unions holds interface shapes the normalizer must reject.
package unions

// Empty has no methods, so any value at all would satisfy it.
type Empty interface{}

// Orphan has a marker method that no type in the package implements.
type Orphan interface {
	orphanNode()
}

// Holder exists so the package declares at least one struct.
type Holder struct {
	E Empty
}
