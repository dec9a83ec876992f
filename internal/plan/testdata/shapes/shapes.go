// Package shapes holds container layouts the planner has to make
// forwarding decisions for.
package shapes

import "time"

// Key is an ordered named basic, usable as a deterministic map key.
type Key string

// Row is a plain struct value.
type Row struct {
	N int
}

// Table mixes field shapes that each take a different forwarding path.
type Table struct {
	Counts map[string]int
	ByKey  map[Key]Row
	ByRef  map[string]*Row
	Weird  map[[2]int]string
	Rows   []Row
	Refs   []*Row
	Arr    [3]Row
	P      *int
	Fn     func() error
	Stamp  time.Time
}
