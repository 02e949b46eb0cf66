/*
Package espalier is a generic term rewriting engine.

Terms are trees of operators of any comparable type. An algebra plugs in
through ports.Semantics (arity, associativity, commutativity, distributivity,
neutral elements, a total operator order) and the builtin rules of package
rules derive flattening, AC reordering, deduplication, factorization and
simplification from it. Rules are grouped in phases; each phase rewrites a
term until no rule applies, then hands it to a successor phase depending on
whether it changed the term.

# Usage

	eng, err := espalier.New(boolean.Phases())
	if err != nil {
		log.Fatal(err)
	}
	res, err := eng.Normalize(ctx, term)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.First())

Signatures and pipelines can also be declared in YAML (package schema), and
the espalier command exposes the engine as a CLI, an HTTP API and an MCP
server.
*/
package espalier
