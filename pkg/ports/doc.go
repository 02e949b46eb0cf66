/*
Package ports defines the interfaces the rewriting core consumes and exposes.

These interfaces decouple the rule library and the phased process from the
algebra being rewritten, from the search strategy driving the process and
from the storage of computed normal forms.

# Key Interfaces

  - Semantics: what the core needs to know about operators (arity, laws, order).
  - Process: the two entry points a search scheduler drives.
  - NormalFormStore: persistence of computed normalizations (memory, file, Redis).
  - DistributedLocker: cross-process exclusion while a term is being normalized.
*/
package ports
