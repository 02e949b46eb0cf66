package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/algebra/boolean"
	"github.com/aretw0/espalier/pkg/domain"
)

func ExampleEngine_Normalize() {
	eng, err := espalier.New(boolean.Phases())
	if err != nil {
		log.Fatal(err)
	}

	// NEG(NEG(OR(b, a)))
	term := domain.NewTerm(boolean.Neg,
		domain.NewTerm(boolean.Neg,
			domain.NewTerm(boolean.Or, domain.Leaf[boolean.Op]("b"), domain.Leaf[boolean.Op]("a")),
		),
	)

	res, err := eng.Normalize(context.Background(), term)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.First())
	// Output: OR(a, b)
}
