// Package generate builds random terms from a weighted symbol table.
//
// Symbols are either operators, expanded recursively according to their
// arity, or patterns that produce a whole subterm at once. Generation is
// bounded by a maximum depth past which a fixed end symbol is used.
package generate
