package entities

// Element is a named reference to a UI control
type Element struct {
	Name    string `json:"name" yaml:"name"`       // Human readable name used in logs
	Locator string `json:"locator" yaml:"locator"` // Selector expression
}

// String returns the element name
func (e Element) String() string {
	return e.Name
}

// ElementState is a state an element can be waited for
type ElementState string

const (
	StateVisible  ElementState = "visible"
	StateHidden   ElementState = "hidden"
	StateAttached ElementState = "attached"
	StateDetached ElementState = "detached"
)

// Valid reports whether s is one of the known states
func (s ElementState) Valid() bool {
	switch s {
	case StateVisible, StateHidden, StateAttached, StateDetached:
		return true
	}
	return false
}

// WaitPolicy decides what happens when a wait runs out of time
type WaitPolicy int

const (
	// Strict propagates the timeout to the caller
	Strict WaitPolicy = iota
	// Lenient logs the timeout and returns normally
	Lenient
)

func (p WaitPolicy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}
