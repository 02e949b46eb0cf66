package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasure(t *testing.T) {
	spec := MetricSpec[string, string]{
		Of: func(op string) []string {
			switch op {
			case "star", "alt":
				return []string{op}
			default:
				return []string{"letter"}
			}
		},
		Nested: func(m string) bool { return m == "star" },
	}

	term := NewTerm("star", NewTerm("alt", Leaf("a"), NewTerm("star", Leaf("b"))))
	m := Measure(term, spec)

	assert.Equal(t, map[string]int{"star": 2, "alt": 1, "letter": 2}, m.Counts)
	assert.Equal(t, 4, m.Depth)
	assert.Equal(t, map[string]int{"star": 2}, m.MaxNested)

	assert.Equal(t, []string{
		"term depth : 4",
		"alt : 1",
		"letter : 2",
		"star : 2",
		"star-max-nested-depth : 2",
	}, m.Summary())

	flat := Measure(NewTerm("alt", Leaf("a"), Leaf("b")), spec)
	assert.Equal(t, 2, flat.Depth)
	assert.Empty(t, flat.MaxNested)
}
