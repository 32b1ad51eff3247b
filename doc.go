/*
Package sinew is a dependency-graph evaluator for rigging-style node
networks, with a small set of built-in node types and the curve tooling
that usually travels with them.

# Concept

Every node type declares typed input and output attributes and which inputs
affect which outputs. A graph holds node instances and the connections
between their plugs ("node.attribute"). Setting an input marks every output
it affects dirty, downstream through connections. Reading a dirty output
calls the node's Compute for that plug; reading a clean one returns the
cached value.

# Built-in node types

  - sineNode: output = sin(input * frequency) * amplitude.
  - aimConstraint: orients a transform toward a target, using a world-up
    reference to fix the roll. Degenerate geometry falls back to fixed axes
    unless the node runs in strict mode.
  - locator: turns translate and rotate values into a world matrix.

# Usage

	eng := sinew.New()

	s, err := scene.LoadFile("rig.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ev, err := eng.Evaluate(context.Background(), s, "solver.constraintRotate")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(ev.Results["solver.constraintRotate"])

Curve export and import live in package curves, keyframe reduction in
package keyframes. Scene files can be YAML, JSON or HCL.
*/
package sinew
