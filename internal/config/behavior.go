package config

import (
	"fmt"

	"visitorgen/internal/common"
)

// Behavior is the traversal policy assigned to one target.
//
//go:generate go tool stringer -type=Behavior -trimprefix=Behavior
type Behavior int

const (
	// BehaviorDrive forwards every retained field of the target,
	// propagating short-circuit unchanged.
	BehaviorDrive Behavior = iota
	// BehaviorSkip does nothing and succeeds immediately.
	BehaviorSkip
	// BehaviorOverride calls the user's visit hook; no automatic
	// recursion happens.
	BehaviorOverride
	// BehaviorOverrideSkip is Override with a no-op default body.
	BehaviorOverrideSkip
	// BehaviorEnter calls the enter hook, then drives.
	BehaviorEnter
	// BehaviorExit drives, then calls the exit hook unless the drive
	// short-circuited.
	BehaviorExit
)

// ParseBehavior maps a declaration-list tag to a Behavior. The empty tag
// is a bare target, which means Override.
func ParseBehavior(tag string) (Behavior, error) {
	switch tag {
	case "":
		return BehaviorOverride, nil
	case "drive":
		return BehaviorDrive, nil
	case "skip":
		return BehaviorSkip, nil
	case "override":
		return BehaviorOverride, nil
	case "override_skip":
		return BehaviorOverrideSkip, nil
	case "enter":
		return BehaviorEnter, nil
	case "exit":
		return BehaviorExit, nil
	default:
		return 0, fmt.Errorf("unknown behavior tag %q", tag)
	}
}

// Mode is the traversal mode of a plan or visitor trait.
type Mode int

const (
	// ModeRead traverses values without modifying them.
	ModeRead Mode = iota
	// ModeMutate traverses field addresses so the visitor can rewrite
	// values in place.
	ModeMutate
)

// String returns a human-readable representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeMutate:
		return "mutate"
	default:
		return common.UnknownStr
	}
}

// ParseMode maps a configuration mode string to a Mode. The empty string
// defaults to read.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "read":
		return ModeRead, nil
	case "mutate":
		return ModeMutate, nil
	default:
		return 0, fmt.Errorf("unknown mode %q, expected read or mutate", s)
	}
}
