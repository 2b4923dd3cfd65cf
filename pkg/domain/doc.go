/*
Package domain contains the core domain models of the Turing machine engine.

It defines the tokens a machine is built from (States, Symbols, Head Actions),
the transition Rules, the micro-step Phases and the snapshots handed to renderers.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Rule: A 5-tuple (from state, scanned symbol, printed symbol, head action, next state).
  - Config: Everything needed to load a machine (start, empty symbol, halt states, tape, rules).
  - Phase: One of the eight observable sub-operations of a transition, plus Halted.
  - View: A serializable snapshot of a running machine for renderers.
  - Session: The persisted record of a machine driven by a host.
*/
package domain
