// Package telemetry fans client events out to SSE subscribers.
//
// Every published event gets a monotonic ID and is kept in a bounded ring so a
// reconnecting subscriber can resume with Last-Event-ID. Heartbeats keep idle
// connections alive and are neither numbered nor buffered.
package telemetry
