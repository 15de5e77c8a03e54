// Package sim implements the velocity-Verlet style force simulation used by
// the iterative layout strategies.
//
// # Model
//
// A [Simulation] owns an arena [State] of [Body] values indexed by int. Each
// step runs three phases:
//
//  1. Every [Force] reads the current positions and writes its own velocity
//     contribution into a shared delta buffer. Forces never see each other's
//     partial results, so their order does not matter.
//  2. Velocities and positions are integrated once:
//     vel = (vel + dv) * (1 - VelocityDecay), pos += vel.
//     Pinned bodies do not move. A body whose position becomes NaN or
//     infinite reverts to its previous position.
//  3. Every [Constraint] (collision, orphan placement) projects positions
//     directly, one after another.
//
// # Cooling
//
// Alpha starts at 1 and decays geometrically: alpha -= alpha * AlphaDecay.
// The simulation halts when alpha drops below AlphaMin, when MaxIterations
// steps have run since the last start or restart, or when it is cancelled.
// On a natural halt a settle pass repeats the constraints until every
// [Checker] is satisfied, for at most 256 passes. A settle that runs out
// of passes logs a warning; the final frame may then hold overlaps of a
// fraction of a pixel.
//
// # Consumption
//
// [Simulation.Run] drives the simulation synchronously. [Simulation.Frames]
// yields a [Frame] per step as an iter.Seq, and [Simulation.Iterator] offers
// the same pull-based for event loops. [Simulation.Restart] re-heats a
// halted or running simulation with a deterministic perturbation.
//
// # Concurrency
//
// A Simulation is not safe for concurrent use, with one exception:
// [Simulation.Cancel] may be called from any goroutine.
package sim
