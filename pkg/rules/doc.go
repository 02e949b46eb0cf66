/*
Package rules is the builtin library of structural rewrite rules.

Every rule is written against ports.Semantics (or a narrower capability
interface) so it works for any algebra. Rules never mutate their input and
decline instead of failing when their precondition does not hold.

# Families

  - Associativity: FlushRight, FlushLeft, Flatten, Fold.
  - Commutativity: ReorderCommutative, ReorderCommutativeAC, ReorderModuloAC,
    ordered by CompareTerms and the lexicographic path ordering IsGreater.
  - Simplification: Deduplicate, SimplifyBinaryNeutral, SimplifyUnaryFixpoint,
    ComposeUnary, and the domain callbacks of SimplifyUnary / SimplifyBinary.
  - Distributivity: FactorizeLeft, FactorizeRight, DefactorizeLeft,
    DefactorizeRight and their multi-operand forms FactorizeLeftModuloAC,
    FactorizeRightModuloAC.
  - TransformFlattened: flatten a chain, let the domain rewrite the operand
    list, refold.
*/
package rules
