package testutils

import (
	"testing"

	"github.com/aretw0/sinew/pkg/scene"
	"github.com/stretchr/testify/require"
)

// AimRig is the reference aim constraint rig: the solver at (1,1,3) aims at
// (2,1,1) with its up target at (2,10,1), which yields a rotation of about
// 63.43 degrees around Y.
const AimRig = `
nodes:
  - {name: con, type: locator, values: {translate: [1, 1, 3]}}
  - {name: target, type: locator, values: {translate: [2, 1, 1]}}
  - {name: up, type: locator, values: {translate: [2, 10, 1]}}
  - {name: solver, type: aimConstraint}
connections:
  - {from: con.worldMatrix, to: solver.constraintMatrix}
  - {from: target.worldMatrix, to: solver.aimMatrix}
  - {from: up.worldMatrix, to: solver.worldUpMatrix}
evaluate: [solver.constraintRotate]
`

// ParseScene parses an inline YAML scene.
// It fails the test immediately on error.
func ParseScene(t *testing.T, src string) *scene.Scene {
	t.Helper()

	s, err := scene.Parse([]byte(src), scene.FormatYAML, t.Name())
	require.NoError(t, err, "Failed to parse scene")
	return s
}
