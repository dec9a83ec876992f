package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config represents the root of a YAML visitor-generation configuration.
// This is the authoritative, human-reviewed description of which types in
// the subject package participate in traversal and how.
type Config struct {
	// Package is the go/packages load pattern for the subject package,
	// either an import path or a directory pattern. The CLI resolves
	// relative directory patterns against the configuration file's own
	// directory, so "." names the package beside the file.
	Package string `yaml:"package"`

	// Output is the generated file name within the subject package
	// directory. Defaults to "visit_gen.go".
	Output string `yaml:"output,omitempty"`

	// Exclude lists fields, whole types, or union variants that are never
	// forwarded by per-field dispatch. Entries are "Type" or "Type.Field".
	// The struct tag `visit:"-"` is the in-source equivalent.
	Exclude StringArray `yaml:"exclude,omitempty"`

	// Opaque lists types whose contents are never traversed: driving an
	// opaque value succeeds immediately with zero visits.
	Opaque StringArray `yaml:"opaque,omitempty"`

	// Drive lists standalone per-field dispatch plans.
	Drive []DriveEntry `yaml:"drive,omitempty"`

	// Visit lists per-visitor behavior plans.
	Visit []VisitEntry `yaml:"visit,omitempty"`

	// Groups lists capability groups, each producing a marker interface,
	// participant implementations, wrapper adapters, and one generated
	// visitor surface per requested mode.
	Groups []GroupEntry `yaml:"groups,omitempty"`
}

// DriveEntry requests per-field dispatch code for one type.
// YAML formats supported:
//   - Simple string: "Node"
//   - Full form: {type: "for[T] List[T]", modes: [read, mutate]}
type DriveEntry struct {
	// Type is the target descriptor (target grammar, see ParseTarget).
	Type string `yaml:"type"`

	// Modes lists the traversal modes to generate. Defaults to [read].
	Modes StringArray `yaml:"modes,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for DriveEntry.
func (d *DriveEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		d.Type = str

		return nil

	case yaml.MappingNode:
		type plain DriveEntry

		var entry plain

		if err := node.Decode(&entry); err != nil {
			return err
		}

		*d = DriveEntry(entry)

		return nil

	default:
		return fmt.Errorf("expected string or mapping for drive entry, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for DriveEntry.
func (d DriveEntry) MarshalYAML() (any, error) {
	if len(d.Modes) == 0 {
		return d.Type, nil
	}

	type plain DriveEntry

	return plain(d), nil
}

// VisitEntry declares one per-visitor behavior plan.
type VisitEntry struct {
	// Visitor is the name of the visitor type in the subject package the
	// generated Visit method is attached to.
	Visitor string `yaml:"visitor"`

	// Mode is the traversal mode, "read" or "mutate". Defaults to read.
	Mode string `yaml:"mode,omitempty"`

	// Targets is the ordered behavior declaration list.
	Targets TargetList `yaml:"targets"`
}

// GroupEntry declares one capability group.
type GroupEntry struct {
	// Name of the group, used in generated entry-function names.
	Name string `yaml:"name"`

	// Marker is the name of the generated marker interface.
	Marker string `yaml:"marker"`

	// Visitors lists visitor-trait requests (request grammar, see
	// ParseVisitorRequest). One generated surface per entry.
	Visitors StringArray `yaml:"visitors"`

	// Participants is the ordered participant list. Allowed behavior tags
	// are drive, skip, override, and override_skip.
	Participants TargetList `yaml:"participants"`
}

// TaggedTargets is one entry of a behavior declaration list: a behavior
// tag applied to one or more target descriptors. An empty tag means the
// entry was a bare target, which is Override shorthand.
type TaggedTargets struct {
	Tag     string
	Targets []string
}

// TargetList is an ordered behavior declaration list that can be
// unmarshaled from mixed YAML forms:
//   - Bare target string: "Expr"
//   - Tagged single: {skip: "Span"}
//   - Tagged list: {drive: ["Node", "Block"]}
type TargetList []TaggedTargets

// UnmarshalYAML implements custom YAML unmarshaling for TargetList.
func (t *TargetList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("expected a list of targets, got %v", node.Kind)
	}

	result := make(TargetList, 0, len(node.Content))

	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			var str string

			if err := item.Decode(&str); err != nil {
				return err
			}

			result = append(result, TaggedTargets{Targets: []string{str}})

		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return errors.New("expected a single behavior tag per entry")
			}

			var tag string

			if err := item.Content[0].Decode(&tag); err != nil {
				return err
			}

			var targets StringArray

			if err := item.Content[1].Decode(&targets); err != nil {
				return err
			}

			result = append(result, TaggedTargets{Tag: tag, Targets: targets})

		default:
			return fmt.Errorf("expected target string or tagged targets, got %v", item.Kind)
		}
	}

	*t = result

	return nil
}

// MarshalYAML implements custom YAML marshaling for TargetList.
func (t TargetList) MarshalYAML() (any, error) {
	result := make([]any, 0, len(t))

	for _, entry := range t {
		switch {
		case entry.Tag == "" && len(entry.Targets) == 1:
			result = append(result, entry.Targets[0])

		case len(entry.Targets) == 1:
			result = append(result, map[string]any{entry.Tag: entry.Targets[0]})

		default:
			result = append(result, map[string]any{entry.Tag: entry.Targets})
		}
	}

	return result, nil
}

// StringArray is a string slice that can be unmarshaled from a single
// string or a list of strings.
type StringArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringArray.
func (s *StringArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringArray{str}
		} else {
			*s = StringArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or list of strings, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringArray.
func (s StringArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}
