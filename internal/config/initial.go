package config

// InitialValue is the default of a newly created rule: a Literal or a
// Factory. The interface is sealed.
type InitialValue interface {
	resolve() any
}

// Literal is used as is for every new rule. Use a Factory when rules must
// not share a mutable default such as a slice or map.
type Literal struct {
	Value any
}

func (l Literal) resolve() any { return l.Value }

// Factory produces a fresh default for every new rule.
type Factory func() any

func (f Factory) resolve() any {
	if f == nil {
		return nil
	}
	return f()
}

// Resolve returns the value a new rule starts with. Factories run on every
// call and their results are never cached.
func Resolve(iv InitialValue) any {
	if iv == nil {
		return nil
	}
	return iv.resolve()
}
