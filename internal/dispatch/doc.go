// Package dispatch turns engine events into registry, session and
// notification updates.
//
// Engine callbacks only push onto a Queue. The coordinator drains the queue
// once per frame and hands each event to the Dispatcher on its own goroutine,
// so the registry and session have a single writer.
package dispatch
