package sinew_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/sinew"
	"github.com/aretw0/sinew/pkg/dsl"
	"github.com/aretw0/sinew/pkg/vecmath"
)

// ExampleEngine_Evaluate builds a sine wave graph with the DSL and reads
// its output.
func ExampleEngine_Evaluate() {
	b := dsl.New()
	b.Add("wave", "sineNode").
		Set("input", 1).
		Set("amplitude", 2).
		Set("frequency", 0.5).
		Evaluate("output")

	s, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	ev, err := sinew.New().Evaluate(context.Background(), s)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.4f\n", ev.Results["wave.output"])
	// Output: 0.9589
}

// ExampleEngine_NewGraph wires an aim constraint between three locators.
func ExampleEngine_NewGraph() {
	g := sinew.New().NewGraph()
	for name, t := range map[string][]float64{
		"con":    {1, 1, 3},
		"target": {2, 1, 1},
		"up":     {2, 10, 1},
	} {
		if err := g.CreateNode(name, "locator"); err != nil {
			log.Fatal(err)
		}
		if err := g.SetValue(name+".translate", t); err != nil {
			log.Fatal(err)
		}
	}
	if err := g.CreateNode("solver", "aimConstraint"); err != nil {
		log.Fatal(err)
	}
	for src, dst := range map[string]string{
		"con.worldMatrix":    "solver.constraintMatrix",
		"target.worldMatrix": "solver.aimMatrix",
		"up.worldMatrix":     "solver.worldUpMatrix",
	} {
		if err := g.Connect(src, dst); err != nil {
			log.Fatal(err)
		}
	}

	v, err := g.Evaluate(context.Background(), "solver.constraintRotate")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("rotateY=%.4f\n", v.(vecmath.Vector3).Y)
	// Output: rotateY=63.4349
}
