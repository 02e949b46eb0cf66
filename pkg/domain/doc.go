/*
Package domain contains the data model of the rewriting engine.

It defines terms, positions and rules, plus the bookkeeping types of the
phased rewriting process. The package is kept pure and free of I/O.

# Key Entities

  - Term: an operator applied to ordered children, compared structurally.
  - Position: the path of child indices leading from the root to a subterm.
  - Rule: a named transformation that either rewrites a subterm or declines.
  - Phase: an ordered rule list with successor phases for changed/unchanged outcomes.
  - Node and Step: the states and moves explored by a search scheduler.
  - Normalization: the normal forms reached from an input term.
*/
package domain
