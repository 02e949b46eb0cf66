/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

Metrics registers its collectors on a caller-supplied registry and exposes
the hooks that feed them, so it composes with any other hooks through
domain.LifecycleHooks.Merge.
*/
package observability
