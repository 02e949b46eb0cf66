package rules

import "errors"

var (
	// ErrUnknownKind is returned for names that match no builtin rule.
	ErrUnknownKind = errors.New("unknown builtin rule")
	// ErrNoEmptyOperator is returned when a rule needs an empty placeholder
	// operator the semantics do not provide.
	ErrNoEmptyOperator = errors.New("semantics provide no empty operator")
)
