package domain

import "time"

// Normalization is the outcome of rewriting one input term to its normal
// form(s). It is what stores persist and what outer adapters return.
type Normalization[O comparable] struct {
	RunID    string     `json:"run_id"`
	Pipeline string     `json:"pipeline,omitempty"`
	Input    *Term[O]   `json:"input"`
	Normal   []*Term[O] `json:"normal_forms"`

	// Nodes is the number of process nodes explored to reach the normal forms.
	Nodes int `json:"nodes"`
	// Filtered counts candidate nodes dropped by search filters. A non-zero
	// value means Normal may be incomplete.
	Filtered int `json:"filtered"`

	CreatedAt time.Time `json:"created_at"`
}

// Converged reports whether exactly one normal form was reached without any
// branch being cut by a filter.
func (n *Normalization[O]) Converged() bool {
	return len(n.Normal) == 1 && n.Filtered == 0
}

// First returns the first normal form discovered, or nil.
func (n *Normalization[O]) First() *Term[O] {
	if len(n.Normal) == 0 {
		return nil
	}
	return n.Normal[0]
}
