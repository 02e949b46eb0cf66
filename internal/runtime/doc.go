// Package runtime implements the phased rewriting process driven by the
// search schedulers of package search.
package runtime
