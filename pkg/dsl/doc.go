/*
Package dsl provides a fluent builder for phase graphs.

Phases are referenced by name while building; Build resolves the names into
the indices the rewriting process works with. The first phase added is the
entry phase unless Start names another one.

Example usage:

	b := dsl.New[boolean.Op]()

	b.Add("simplify").
		Rules(boolean.DoubleNegation(), boolean.EvaluateBinary()).
		Then("canonicalize")

	b.Add("canonicalize").
		Rules(rules.FlushRight[boolean.Op](sig), rules.ReorderCommutativeAC[boolean.Op](sig, nil)).
		KeepOnlyOne().
		OnChanged("simplify")

	phases, err := b.Build()
*/
package dsl
