/*
Package dsl builds scenes in Go instead of YAML or HCL files.

It is mostly useful in tests and for rigs generated programmatically:

	b := dsl.New()
	b.Add("con", "locator").Set("translate", vecmath.Vec3(1, 1, 3)).
		Connect("worldMatrix", "solver.constraintMatrix")
	b.Add("target", "locator").Set("translate", vecmath.Vec3(2, 1, 1)).
		Connect("worldMatrix", "solver.aimMatrix")
	b.Add("solver", "aimConstraint").Evaluate("constraintRotate")

	s, err := b.Build()
	// scene.Apply(ctx, engine, s)
*/
package dsl
