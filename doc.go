/*
Package turing is an execution engine for single-tape Turing machines whose
transitions are split into observable micro-steps.

One logical transition (a macro-step) is decomposed into eight phases, so a
host can animate reading the state, reading the symbol, clearing and writing
the cell, moving the head and switching state as separate frames:

	Normal → ReadState → ReadSymbol → ClearSymbol → WriteSymbol → MoveHead → MovedHead → MoveState → Normal

A machine whose current state is a halt state goes from Normal to Halted, where
it stays until Reset.

# Concept

The engine owns no goroutines and never sleeps. The host decides when to call
Advance: once per frame for an animation, in a loop for batch execution, or via
Run, which drives the machine on a timer. Each call returns a View, the
snapshot a renderer needs (tape, head, state, phase label, operation counter).

Configurations are validated strictly by default: every rule must be complete,
symbols are single characters, and no two rules may share a (state, symbol)
pair. Permissive machines accept duplicates (the last rule wins) and unknown
head actions (treated as staying in place).

# Usage

	cfg, err := loader.Load("append-one.yaml")
	if err != nil {
		log.Fatal(err)
	}

	m, err := turing.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	for {
		ok, err := m.Advance()
		if err != nil {
			log.Fatal(err) // no rule for the current state and symbol
		}
		if !ok {
			break
		}
		v := m.View()
		fmt.Println(v.OpCounter, v.Description, v.Tape)
	}

# Drivers

Beyond the library, the module ships a session manager (pkg/session) with
memory and Redis stores, an HTTP API (pkg/adapters/http), an MCP server
(pkg/adapters/mcp), a loam-backed machine library and the turing CLI.
*/
package turing
