// Package section represents the feature sections an organization can have
// enabled.
package section

import (
	"fmt"
	"strings"
)

// The set of sections that can be enabled for an organization.
var (
	Vehicles = newSection("VEHICLES")
	Rooms    = newSection("ROOMS")
)

// =============================================================================

// Set of known sections.
var sections = make(map[string]Section)

// Section represents a feature section in the system.
type Section struct {
	value string
}

func newSection(section string) Section {
	s := Section{section}
	sections[section] = s
	return s
}

// String returns the name of the section.
func (s Section) String() string {
	return s.value
}

// Equal provides support for the go-cmp package and testing.
func (s Section) Equal(s2 Section) bool {
	return s.value == s2.value
}

// MarshalText provides support for logging and any marshal needs.
func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// =============================================================================

// Parse parses the string value and returns a section if one exists.
func Parse(value string) (Section, error) {
	section, exists := sections[value]
	if !exists {
		return Section{}, fmt.Errorf("invalid section %q", value)
	}

	return section, nil
}

// MustParse parses the string value and returns a section if one exists. If
// an error occurs the function panics.
func MustParse(value string) Section {
	section, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return section
}

// =============================================================================

// Set represents the collection of sections enabled for an organization.
type Set struct {
	sections []Section
}

// NewSet constructs a set from the specified sections.
func NewSet(sections ...Section) Set {
	return Set{sections: sections}
}

// ParseSet parses a comma separated list of section names.
func ParseSet(value string) (Set, error) {
	if value == "" {
		return Set{}, nil
	}

	parts := strings.Split(value, ",")
	set := make([]Section, len(parts))

	for i, part := range parts {
		s, err := Parse(strings.TrimSpace(part))
		if err != nil {
			return Set{}, err
		}
		set[i] = s
	}

	return Set{sections: set}, nil
}

// Contains reports whether the specified section is enabled.
func (s Set) Contains(section Section) bool {
	for _, v := range s.sections {
		if v.Equal(section) {
			return true
		}
	}

	return false
}

// Sections returns the sections in the set.
func (s Set) Sections() []Section {
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// String returns the comma separated list of section names.
func (s Set) String() string {
	names := make([]string, len(s.sections))
	for i, v := range s.sections {
		names[i] = v.String()
	}

	return strings.Join(names, ",")
}
