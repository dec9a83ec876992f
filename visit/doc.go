// Package visit defines the dispatch protocol between generated
// traversal code and user visitors.
//
// A Visitor receives every forwarded value through Visit. Generated
// types expose their contents through DriveInner and DriveInnerMut,
// which forward each retained field in declaration order and stop at
// the first non-nil error. The error value travels unchanged to the
// caller, so sentinel checks with errors.Is work across any number of
// layers; Stop is the conventional "done, not failed" sentinel.
//
// Container helpers keep generated bodies small and make map traversal
// deterministic by visiting values in sorted key order. Registry offers
// a validated reflect-based visitor for hand-assembled dispatch, and
// DriveEvents adapts any Driver into a flat enter/exit event stream.
package visit
