// Package compiler turns a list of rules into an immutable lookup table.
//
// Two construction modes share the same table: strict mode validates every
// state, symbol and head action and rejects duplicate (state, symbol) pairs;
// permissive mode accepts anything, letting the last duplicate win, so a live
// preview can still draw a graph from an incomplete edit.
package compiler
