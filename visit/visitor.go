package visit

import "errors"

// Stop is the conventional short-circuit sentinel. Returning it from a
// hook ends the traversal early; callers that consider an early stop a
// success check for it with errors.Is and drop it.
var Stop = errors.New("visit: stop traversal")

// Visitor receives every value a drive routine forwards. A non-nil
// error stops the traversal and propagates to the caller unchanged.
type Visitor interface {
	Visit(value any) error
}

// Func adapts a plain function to the Visitor interface.
type Func func(value any) error

// Visit calls f.
func (f Func) Visit(value any) error {
	return f(value)
}

// Driver is implemented by generated types that can forward their
// contents for reading. DriveInner visits every retained field in
// declaration order and stops at the first error.
type Driver interface {
	DriveInner(v Visitor) error
}

// DriverMut is implemented by generated types that can forward their
// contents for mutation. DriveInnerMut visits addressable fields so the
// visitor may rewrite them in place.
type DriverMut interface {
	DriveInnerMut(v Visitor) error
}

// ByVal visits x and hands the visitor back, letting callers build,
// run, and read a visitor in one expression. The visitor is returned
// even when the traversal stopped early.
func ByVal[V Visitor](v V, x any) (V, error) {
	err := v.Visit(x)

	return v, err
}
