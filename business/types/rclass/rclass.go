// Package rclass represents the class of a bookable resource in the system.
package rclass

import "fmt"

// The set of resource classes that can be booked.
var (
	Vehicle = newClass("VEHICLE")
	Extra   = newClass("EXTRA")
	Room    = newClass("ROOM")
)

// =============================================================================

// Set of known resource classes.
var classes = make(map[string]Class)

// Class represents a resource class in the system.
type Class struct {
	value string
}

func newClass(class string) Class {
	c := Class{class}
	classes[class] = c
	return c
}

// String returns the name of the resource class.
func (c Class) String() string {
	return c.value
}

// Equal provides support for the go-cmp package and testing.
func (c Class) Equal(c2 Class) bool {
	return c.value == c2.value
}

// MarshalText provides support for logging and any marshal needs.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.value), nil
}

// =============================================================================

// Parse parses the string value and returns a resource class if one exists.
func Parse(value string) (Class, error) {
	class, exists := classes[value]
	if !exists {
		return Class{}, fmt.Errorf("invalid resource class %q", value)
	}

	return class, nil
}

// MustParse parses the string value and returns a resource class if one
// exists. If an error occurs the function panics.
func MustParse(value string) Class {
	class, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return class
}
