package domain

// Decomposable is implemented by host-domain trees that can be read as terms.
type Decomposable[O comparable, T any] interface {
	RootOperator() O
	Operands() []T
}

// FromDomain converts a host-domain tree into a Term.
func FromDomain[O comparable, T Decomposable[O, T]](v T) *Term[O] {
	operands := v.Operands()
	children := make([]*Term[O], len(operands))
	for i, operand := range operands {
		children[i] = FromDomain[O](operand)
	}
	return NewTerm(v.RootOperator(), children...)
}

// ToDomain rebuilds a host-domain tree bottom-up, calling build once per
// node with the already converted children.
func ToDomain[O comparable, T any](t *Term[O], build func(op O, children []T) T) T {
	children := make([]T, len(t.Children))
	for i, c := range t.Children {
		children[i] = ToDomain(c, build)
	}
	return build(t.Operator, children)
}
