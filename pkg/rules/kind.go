package rules

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Kind identifies a builtin rule.
type Kind int

const (
	KindFlushRight Kind = iota
	KindFlushLeft
	KindReorderCommutative
	KindReorderCommutativeAC
	KindReorderModuloAC
	KindDeduplicate
	KindBinaryNeutral
	KindUnaryFixpoint
	KindComposeUnary
	KindFactorizeLeft
	KindFactorizeRight
	KindDefactorizeLeft
	KindDefactorizeRight
	KindFactorizeLeftAC
	KindFactorizeRightAC
)

var kindNames = map[Kind]string{
	KindFlushRight:           "AssociativeFlushRight",
	KindFlushLeft:            "AssociativeFlushLeft",
	KindReorderCommutative:   "ReorderOperandsIfCommutative",
	KindReorderCommutativeAC: "ReorderOperandsIfCommutativeAC",
	KindReorderModuloAC:      "ReorderOperandsModuloAC",
	KindDeduplicate:          "DeduplicateUnderBinaryIdempotent",
	KindBinaryNeutral:        "SimplifyBinaryNeutral",
	KindUnaryFixpoint:        "SimplifyUnaryFixpoint",
	KindComposeUnary:         "SimplifyCompositionsOfUnaryOperators",
	KindFactorizeLeft:        "FactorizeLeftDistributive",
	KindFactorizeRight:       "FactorizeRightDistributive",
	KindDefactorizeLeft:      "DeFactorizeLeftDistributive",
	KindDefactorizeRight:     "DeFactorizeRightDistributive",
	KindFactorizeLeftAC:      "FactorizeLeftDistributiveModuloAC",
	KindFactorizeRightAC:     "FactorizeRightDistributiveModuloAC",
}

// kindAliases are the short snake_case spellings accepted by ParseKind.
var kindAliases = map[string]Kind{
	"flush_right":        KindFlushRight,
	"flush_left":         KindFlushLeft,
	"reorder":            KindReorderCommutative,
	"reorder_ac":         KindReorderCommutativeAC,
	"reorder_modulo_ac":  KindReorderModuloAC,
	"deduplicate":        KindDeduplicate,
	"neutral":            KindBinaryNeutral,
	"fixpoint":           KindUnaryFixpoint,
	"compose":            KindComposeUnary,
	"factorize_left":     KindFactorizeLeft,
	"factorize_right":    KindFactorizeRight,
	"defactorize_left":   KindDefactorizeLeft,
	"defactorize_right":  KindDefactorizeRight,
	"factorize_left_ac":  KindFactorizeLeftAC,
	"factorize_right_ac": KindFactorizeRightAC,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every builtin kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindFlushRight; k <= KindFactorizeRightAC; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind accepts a builtin name ("AssociativeFlushRight"), compared
// case-insensitively and ignoring separators, or a short alias ("flush_right").
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	want := normalizeKindName(s)
	for k, name := range kindNames {
		if normalizeKindName(name) == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func normalizeKindName(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// Commuter is optionally implemented by semantics that forbid some
// exchanges of adjacent operands.
type Commuter[O comparable] interface {
	MayCommute(parent O, left, right *domain.Term[O]) bool
}

// Builtin instantiates the rule of the given kind over sem.
//
// The factorization kinds modulo AC need sem to implement ports.EmptyProvider.
// The reordering kinds honor Commuter when sem implements it, and
// ReorderModuloAC uses sem directly when it already is a PartialReorderer.
func Builtin[O comparable](sem ports.Semantics[O], kind Kind) (domain.Rule[O], error) {
	var mayCommute MayCommute[O]
	if c, ok := sem.(Commuter[O]); ok {
		mayCommute = c.MayCommute
	}
	switch kind {
	case KindFlushRight:
		return FlushRight(sem), nil
	case KindFlushLeft:
		return FlushLeft(sem), nil
	case KindReorderCommutative:
		return ReorderCommutative(sem), nil
	case KindReorderCommutativeAC:
		return ReorderCommutativeAC(sem, mayCommute), nil
	case KindReorderModuloAC:
		if r, ok := sem.(PartialReorderer[O]); ok {
			return ReorderModuloAC(r), nil
		}
		return ReorderModuloAC(NewReorderer(sem, mayCommute)), nil
	case KindDeduplicate:
		return Deduplicate(sem), nil
	case KindBinaryNeutral:
		return SimplifyBinaryNeutral(sem), nil
	case KindUnaryFixpoint:
		return SimplifyUnaryFixpoint(sem), nil
	case KindComposeUnary:
		return ComposeUnary(sem), nil
	case KindFactorizeLeft:
		return FactorizeLeft(sem), nil
	case KindFactorizeRight:
		return FactorizeRight(sem), nil
	case KindDefactorizeLeft:
		return DefactorizeLeft(sem), nil
	case KindDefactorizeRight:
		return DefactorizeRight(sem), nil
	case KindFactorizeLeftAC, KindFactorizeRightAC:
		ep, ok := sem.(ports.EmptyProvider[O])
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoEmptyOperator, kind)
		}
		if kind == KindFactorizeLeftAC {
			return FactorizeLeftModuloAC(sem, ep.EmptyOperator()), nil
		}
		return FactorizeRightModuloAC(sem, ep.EmptyOperator()), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// BuiltinByName is Builtin after ParseKind.
func BuiltinByName[O comparable](sem ports.Semantics[O], name string) (domain.Rule[O], error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return Builtin(sem, kind)
}
