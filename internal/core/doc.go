// Package core runs the per-frame coordination pass.
//
// The Coordinator owns the event queue, dispatcher, PTT arbiter and the
// transmitting snapshot. Frame is the only writer of the registry and
// session; the status server and telemetry hub read through the
// Coordinator's read methods.
package core
