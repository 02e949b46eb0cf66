/*
Package search drives a ports.Process to exhaustion and collects the normal
forms it reaches.

Nodes are explored depth first, breadth first or best first. Candidate steps
are scored by Priorities, and Filters cut the exploration with node-count,
depth or predicate limits. Visited (term, phase) pairs are memoized so a
term reached twice within the same concrete phase is explored once.
*/
package search
