// Package schema declares string-operator algebras and rewriting pipelines
// in YAML.
//
// A signature lists the operators with their arity and algebraic laws:
//
//	name: boolean
//	order: [TRUE, FALSE, $var, NEG, AND, OR]
//	operators:
//	  - name: AND
//	    arity: 2
//	    associative: true
//	    commutative: true
//	    neutral: TRUE
//	    absorbing: FALSE
//	    distributes_over: [OR]
//
// Compile turns it into a *Signature, which implements ports.Semantics and
// the simplifier interfaces of package rules. A pipeline then names phases,
// their rules (builtin kinds or signature-driven simplifiers) and their
// successors; Pipeline.Build resolves it into phases for the process.
//
// Definitions are checked with struct tags (go-playground/validator) and by
// cross-reference checks; every failure is reported in one AggregateError.
package schema
