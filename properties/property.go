package properties

import (
	"sort"

	"github.com/pkg/errors"
)

// Property is a declared configuration slot with a description and a default. Until a value is set,
// reading the property yields the default.
type Property struct {
	description  string
	defaultValue Value
	value        Value
}

// NewProperty declares a property with the given default.
func NewProperty(description string, defaultValue Value) *Property {
	return &Property{description: description, defaultValue: defaultValue}
}

// Description returns the human readable description of the property.
func (p *Property) Description() string {
	return p.description
}

// Default returns the default value.
func (p *Property) Default() Value {
	return p.defaultValue
}

// Value returns the set value, or the default if nothing is set.
func (p *Property) Value() Value {
	if p.value.IsEmpty() {
		return p.defaultValue
	}
	return p.value
}

// Defined reports whether reading the property yields a non-empty value.
func (p *Property) Defined() bool {
	return !p.Value().IsEmpty()
}

// SetValue sets the property. When the default is not empty, the value must be empty or of the same kind.
func (p *Property) SetValue(v Value) error {
	if !v.IsEmpty() && !p.defaultValue.IsEmpty() && v.Kind() != p.defaultValue.Kind() {
		return errors.Errorf("cannot set %v value on a property of kind %v", v.Kind(), p.defaultValue.Kind())
	}
	p.value = v
	return nil
}

// Reset clears the set value so the default applies again.
func (p *Property) Reset() {
	p.value = Empty()
}

// PropertyMap holds the declared properties of a stage by name.
type PropertyMap struct {
	props map[string]*Property
}

// NewPropertyMap returns an empty map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{props: map[string]*Property{}}
}

// Declare adds a property. Names must be unique.
func (pm *PropertyMap) Declare(name, description string, defaultValue Value) (*Property, error) {
	if name == "" {
		return nil, errors.New("property name cannot be empty")
	}
	if _, ok := pm.props[name]; ok {
		return nil, errors.Errorf("property %q already declared", name)
	}
	p := NewProperty(description, defaultValue)
	pm.props[name] = p
	return p, nil
}

// Property returns the named property.
func (pm *PropertyMap) Property(name string) (*Property, error) {
	p, ok := pm.props[name]
	if !ok {
		return nil, errors.Errorf("undeclared property %q", name)
	}
	return p, nil
}

// Get returns the value of the named property.
func (pm *PropertyMap) Get(name string) (Value, error) {
	p, err := pm.Property(name)
	if err != nil {
		return Value{}, err
	}
	return p.Value(), nil
}

// Set sets the value of the named property.
func (pm *PropertyMap) Set(name string, v Value) error {
	p, err := pm.Property(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.SetValue(v), "property %q", name)
}

// Reset restores every property to its default.
func (pm *PropertyMap) Reset() {
	for _, p := range pm.props {
		p.Reset()
	}
}

// Names returns the declared property names, sorted.
func (pm *PropertyMap) Names() []string {
	names := make([]string, 0, len(pm.props))
	for name := range pm.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
