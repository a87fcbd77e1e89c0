// Package manifest loads workspace manifests: the declared role set, the
// choreography files to check, and strictness settings.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lovrosdu/klor-go/role"
)

// DefaultFile is the manifest name used when none is given explicitly.
const DefaultFile = "klor.yaml"

// Manifest describes a choreography workspace.
type Manifest struct {
	// Roles declares the active role set for every listed file.
	Roles []string `yaml:"roles"`
	// Files lists the choreography sources to check.
	Files []string `yaml:"files"`
	// Overrides maps a file path to roles replacing the top-level set.
	Overrides map[string][]string `yaml:"overrides"`
	// Strict toggles the optional analysis checks.
	Strict Strict `yaml:"strict"`
}

// Strict holds the strictness toggles.
type Strict struct {
	Placement bool `yaml:"placement"`
	Branches  bool `yaml:"branches"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest contents.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	for _, name := range m.Roles {
		if !role.Valid(name) {
			return fmt.Errorf("invalid role name %q", name)
		}
	}
	for path, names := range m.Overrides {
		for _, name := range names {
			if !role.Valid(name) {
				return fmt.Errorf("invalid role name %q for %s", name, path)
			}
		}
	}
	return nil
}

// RoleSet returns the top-level declaration as a set, or nil when the
// manifest declares no roles.
func (m *Manifest) RoleSet() role.Set {
	if len(m.Roles) == 0 {
		return nil
	}
	return toSet(m.Roles)
}

// RolesFor returns the active set for one file: its override when present,
// otherwise the top-level declaration. An override with an empty list is
// an explicit empty set, not an absence.
func (m *Manifest) RolesFor(path string) role.Set {
	if names, ok := m.Overrides[path]; ok {
		return toSet(names)
	}
	return m.RoleSet()
}

func toSet(names []string) role.Set {
	set := role.NewSet()
	for _, name := range names {
		set.Add(role.Role(name))
	}
	return set
}
