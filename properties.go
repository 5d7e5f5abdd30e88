package orrery

import (
	"fmt"
	"sort"
)

// Properties is an unordered set of property names to values, carrying data about a Location (an elevation, a mission
// name, a wiki link) that the viewer itself doesn't interpret.
type Properties struct {
	props map[string]any
}

// NewProperties returns a new Properties object, filled with the values given (which may be nil).
func NewProperties(values map[string]any) *Properties {
	props := &Properties{props: make(map[string]any, len(values))}
	for k, v := range values {
		props.Set(k, v)
	}
	return props
}

// Clone returns a copy of the Properties.
func (props *Properties) Clone() *Properties {
	return NewProperties(props.props)
}

// Set sets the property by the given name. Integer values are stored as int and floating point values as float64,
// regardless of how the config decoder handed them over.
func (props *Properties) Set(name string, value any) {
	switch v := value.(type) {
	case int64:
		value = int(v)
	case int32:
		value = int(v)
	case uint64:
		value = int(v)
	case float32:
		value = float64(v)
	}
	props.props[name] = value
}

// Remove removes the property specified.
func (props *Properties) Remove(name string) {
	delete(props.props, name)
}

// Has returns true if the Properties object has properties by all of the names specified, and false otherwise.
func (props *Properties) Has(names ...string) bool {
	for _, t := range names {
		if _, exists := props.props[t]; !exists {
			return false
		}
	}
	return true
}

// Get returns the value of the property by the name given, or nil if it isn't set.
func (props *Properties) Get(name string) any {
	return props.props[name]
}

// Names returns the names of every property, sorted.
func (props *Properties) Names() []string {
	names := make([]string, 0, len(props.props))
	for k := range props.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns how many properties are set.
func (props *Properties) Len() int {
	return len(props.props)
}

// String returns the property's value formatted as a string; strings are returned as-is.
func (props *Properties) String(name string) (string, bool) {
	v, ok := props.props[name]
	if !ok {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Float64 returns the property's value as a float64, if it's a number.
func (props *Properties) Float64(name string) (float64, bool) {
	switch v := props.props[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int returns the property's value as an int, if it's a whole number.
func (props *Properties) Int(name string) (int, bool) {
	switch v := props.props[name].(type) {
	case int:
		return v, true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// Bool returns the property's value as a bool, if it's a bool.
func (props *Properties) Bool(name string) (bool, bool) {
	v, ok := props.props[name].(bool)
	return v, ok
}
