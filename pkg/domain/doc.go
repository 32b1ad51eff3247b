/*
Package domain contains the core vocabulary shared by every sinew package.

It is kept free of I/O and host concerns.

# Key Entities

  - TypeID / ComputeStatus: how node types are identified and how a compute call reports its outcome.
  - Errors: sentinel and typed errors for graph, direction, staleness and geometry failures.
  - Events / LifecycleHooks: observability callbacks fired by the evaluator.
  - Curve / Keyframe: payloads of the curve exchange and keyframe reduction utilities.
*/
package domain
