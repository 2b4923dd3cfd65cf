/*
Package runner drives a machine at a fixed pace.

A Runner repeatedly calls Advance on anything that implements Stepper, hands
every resulting frame to a callback for rendering, and stops when the machine
halts, fails, reaches a step limit, or the context is cancelled. The engine
itself owns no timers; this package is the only place where time is involved.
*/
package runner
