package agent

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/deepagent/core"
)

// SubAgentSpec declares a named sub-agent that the delegation tool can spawn.
type SubAgentSpec struct {
	// Name is the unique key used by the delegation tool.
	Name string `yaml:"name" json:"name"`
	// Description tells the parent model when to use this sub-agent.
	Description string `yaml:"description" json:"description"`
	// Instruction is the sub-agent's fixed system instruction.
	Instruction string `yaml:"instruction" json:"instruction"`
	// Tools lists the tool names available to the sub-agent.
	Tools []string `yaml:"tools" json:"tools"`
	// GeneralPurpose sub-agents additionally receive the workspace and
	// delegation tools, enabling recursive delegation.
	GeneralPurpose bool `yaml:"general_purpose" json:"general_purpose"`
}

// Directory is an immutable, ordered set of sub-agent specs.
type Directory struct {
	specs []SubAgentSpec
	index map[string]int
}

// NewDirectory validates specs and builds a directory. Names must be non-empty
// and unique.
func NewDirectory(specs ...SubAgentSpec) (*Directory, error) {
	d := &Directory{
		specs: make([]SubAgentSpec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("sub-agent %d: name is empty", i)
		}
		if _, dup := d.index[s.Name]; dup {
			return nil, fmt.Errorf("sub-agent %q declared twice", s.Name)
		}

		s.Tools = append([]string(nil), s.Tools...)
		d.index[s.Name] = len(d.specs)
		d.specs = append(d.specs, s)
	}

	return d, nil
}

// LoadDirectory reads a YAML list of sub-agent specs:
//
//	- name: research-agent
//	  description: Used to research more in depth questions.
//	  instruction: You are a dedicated researcher...
//	  tools: [internet_search]
func LoadDirectory(r io.Reader) (*Directory, error) {
	var specs []SubAgentSpec

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&specs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode sub-agent directory: %w", err)
	}

	return NewDirectory(specs...)
}

// Lookup returns the spec registered under name or core.ErrUnknownSubAgent.
func (d *Directory) Lookup(name string) (SubAgentSpec, error) {
	if d != nil {
		if i, ok := d.index[name]; ok {
			return d.specs[i], nil
		}
	}
	return SubAgentSpec{}, fmt.Errorf("%w: %s", core.ErrUnknownSubAgent, name)
}

// Specs returns the specs in declaration order.
func (d *Directory) Specs() []SubAgentSpec {
	if d == nil {
		return nil
	}
	return append([]SubAgentSpec(nil), d.specs...)
}

// Names returns the sub-agent names in declaration order.
func (d *Directory) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.specs))
	for i, s := range d.specs {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of sub-agents.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.specs)
}
