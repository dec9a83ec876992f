package visit

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Unhandled is returned by Registry.Visit for values no handler was
// registered for. Check it with errors.Is.
var Unhandled = errors.New("visit: unhandled type")

// Registry is a hand-assembled visitor: an explicit type-to-handler
// table. It implements Visitor, so generated drive routines accept it
// directly. Registration problems are collected and reported by
// Validate, which is meant to run once before first use.
type Registry struct {
	infallible bool
	handlers   map[reflect.Type]func(any) error
	setupErrs  []error
}

// NewRegistry creates an empty registry for fallible handlers.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[reflect.Type]func(any) error)}
}

// NewInfallibleRegistry creates an empty registry that only accepts
// handlers without an error return, matching infallible generated
// surfaces.
func NewInfallibleRegistry() *Registry {
	return &Registry{
		infallible: true,
		handlers:   make(map[reflect.Type]func(any) error),
	}
}

// Register adds a fallible handler for T. Registering T twice or adding
// a fallible handler to an infallible registry is a setup error,
// surfaced by Validate.
func Register[T any](r *Registry, fn func(T) error) {
	key := reflect.TypeOf((*T)(nil)).Elem()

	if r.infallible {
		r.setup(fmt.Errorf("fallible handler for %s in an infallible registry", key))
		return
	}

	r.put(key, func(value any) error {
		return fn(value.(T))
	})
}

// RegisterInfallible adds a handler without an error return for T.
func RegisterInfallible[T any](r *Registry, fn func(T)) {
	r.put(reflect.TypeOf((*T)(nil)).Elem(), func(value any) error {
		fn(value.(T))
		return nil
	})
}

func (r *Registry) put(key reflect.Type, fn func(any) error) {
	if _, dup := r.handlers[key]; dup {
		r.setup(fmt.Errorf("duplicate handler for %s", key))
		return
	}

	r.handlers[key] = fn
}

func (r *Registry) setup(err error) {
	r.setupErrs = append(r.setupErrs, err)
}

// Validate reports registration problems and missing required types.
// A nil result means the registry is complete and safe to use.
func (r *Registry) Validate(required ...reflect.Type) error {
	errs := append([]error(nil), r.setupErrs...)

	var missing []string

	for _, req := range required {
		if _, ok := r.handlers[req]; !ok {
			missing = append(missing, req.String())
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		errs = append(errs, fmt.Errorf("%w: no handler for %s", Unhandled, strings.Join(missing, ", ")))
	}

	return errors.Join(errs...)
}

// Visit dispatches value to its registered handler. Nil values succeed
// without a lookup; any other unregistered type returns Unhandled.
func (r *Registry) Visit(value any) error {
	if value == nil {
		return nil
	}

	fn, ok := r.handlers[reflect.TypeOf(value)]
	if !ok {
		return fmt.Errorf("%w: %T", Unhandled, value)
	}

	return fn(value)
}
