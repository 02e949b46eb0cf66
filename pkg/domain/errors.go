package domain

import "errors"

// ErrEmptyChain is raised (as a panic value) when an associative chain is
// refolded from zero operands and no empty placeholder was supplied.
var ErrEmptyChain = errors.New("cannot refold an empty operand chain without a placeholder")

// ErrNotFound is returned when a stored normalization cannot be found.
var ErrNotFound = errors.New("normalization not found")

// ErrNoPhases is returned when a process is configured without any phase.
var ErrNoPhases = errors.New("at least one phase is required")

// ErrUnknownPhase is returned when a phase reference is out of range.
var ErrUnknownPhase = errors.New("unknown phase")
