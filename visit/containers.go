package visit

import (
	"cmp"
	"slices"
)

// DrivePtr visits the pointer itself, skipping nil.
func DrivePtr[E any](v Visitor, p *E) error {
	if p == nil {
		return nil
	}

	return v.Visit(p)
}

// DriveDeref visits the pointed-to value, skipping nil.
func DriveDeref[E any](v Visitor, p *E) error {
	if p == nil {
		return nil
	}

	return v.Visit(*p)
}

// DriveSlice visits every element value in order.
func DriveSlice[E any](v Visitor, s []E) error {
	for _, e := range s {
		if err := v.Visit(e); err != nil {
			return err
		}
	}

	return nil
}

// DriveSliceMut visits the address of every element in order, so the
// visitor can rewrite elements in place.
func DriveSliceMut[E any](v Visitor, s []E) error {
	for i := range s {
		if err := v.Visit(&s[i]); err != nil {
			return err
		}
	}

	return nil
}

// DriveSlicePtr visits every element pointer in order, skipping nils.
func DriveSlicePtr[E any](v Visitor, s []*E) error {
	for _, p := range s {
		if p == nil {
			continue
		}

		if err := v.Visit(p); err != nil {
			return err
		}
	}

	return nil
}

// sortedKeys returns the map keys in ascending order. Map iteration
// order is random; traversal order must not be.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// DriveMap visits every map value in sorted key order.
func DriveMap[K cmp.Ordered, V any](v Visitor, m map[K]V) error {
	for _, k := range sortedKeys(m) {
		if err := v.Visit(m[k]); err != nil {
			return err
		}
	}

	return nil
}

// DriveMapPtr visits every pointer value in sorted key order, skipping
// nils.
func DriveMapPtr[K cmp.Ordered, V any](v Visitor, m map[K]*V) error {
	for _, k := range sortedKeys(m) {
		if m[k] == nil {
			continue
		}

		if err := v.Visit(m[k]); err != nil {
			return err
		}
	}

	return nil
}

// DriveMapCopy visits the address of a copy of every map value in
// sorted key order. Map values are not addressable; the copy gives
// read-mode visitors the same pointer shape as any other struct value.
func DriveMapCopy[K cmp.Ordered, V any](v Visitor, m map[K]V) error {
	for _, k := range sortedKeys(m) {
		val := m[k]
		if err := v.Visit(&val); err != nil {
			return err
		}
	}

	return nil
}

// DriveMapMut visits the address of a copy of every map value in sorted
// key order and stores the copy back. Keys are never visited and never
// change.
func DriveMapMut[K cmp.Ordered, V any](v Visitor, m map[K]V) error {
	for _, k := range sortedKeys(m) {
		val := m[k]
		if err := v.Visit(&val); err != nil {
			m[k] = val
			return err
		}

		m[k] = val
	}

	return nil
}
