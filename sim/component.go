package sim

import (
	"log"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is a element that is being simulated.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides some functions that other component can use.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	c := new(ComponentBase)
	c.name = name

	return c
}

// Name returns the name of the BasicComponent
func (c *ComponentBase) Name() string {
	return c.name
}

// NameMustBeValid panics if the name is empty or contains white spaces.
func NameMustBeValid(name string) {
	if name == "" {
		log.Panic("name must not be empty")
	}

	if strings.ContainsAny(name, " \t\n") {
		log.Panicf("name %q must not contain white spaces", name)
	}
}
