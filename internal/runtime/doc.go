// Package runtime holds the tape and the micro-stepped execution engine.
//
// One logical transition is split into eight observable phases; every call to
// Engine.Advance performs exactly one of them so a driver can render each
// sub-operation (reading, matching, writing, moving) on its own frame.
package runtime
