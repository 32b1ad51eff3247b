/*
Package ports defines the interfaces between the node contract, the host that
evaluates nodes, and the collaborators that move curve data.

# Key Interfaces

  - NodeType / Node: what a node type offers the host (schema initialization, instantiation, compute).
  - EvaluationContext: what the host offers a node during one compute call.
  - CurveScene / AnimCurveStore: host-side access used by curve exchange and keyframe reduction.
  - CurveStore: persistence of exported curve documents (memory, file, Redis).
*/
package ports
