// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Strategy is a named dedupe configuration: the mutators applied to each
// field before comparison and the ordered steps of the sweep.
type Strategy struct {
	// Title is the human readable name of the strategy.
	Title string `json:"title" yaml:"title"`

	// Description explains where the strategy comes from and what it favors.
	Description string `json:"description" yaml:"description"`

	// Mutators maps a field to the mutator chain applied to it, left to right.
	Mutators map[Field]MutatorChain `json:"mutators,omitempty" yaml:"mutators,omitempty"`

	// Steps are the sweep passes, executed in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one pass of the sorted sweep.
type Step struct {
	// Fields are compared between candidate pairs.
	Fields []Field `json:"fields" yaml:"fields"`

	// Sort orders the records before the sweep.
	Sort Field `json:"sort" yaml:"sort"`

	// Comparison names the comparator used for every field of the step.
	Comparison string `json:"comparison" yaml:"comparison"`

	// SkipOmitted scores a field 0 without comparing when either side is
	// empty. Nil means true.
	SkipOmitted *bool `json:"skipOmitted,omitempty" yaml:"skipOmitted,omitempty"`
}

// SkipsOmitted reports the effective skipOmitted setting.
func (s Step) SkipsOmitted() bool {
	return s.SkipOmitted == nil || *s.SkipOmitted
}

// MutatorChain is an ordered list of mutator names. In YAML it may be
// written as a single name or as a list.
type MutatorChain []string

// UnmarshalYAML accepts either a scalar or a sequence of scalars.
func (c *MutatorChain) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = MutatorChain{node.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*c = names
		return nil
	default:
		return fmt.Errorf("line %d: mutators must be a name or a list of names", node.Line)
	}
}
