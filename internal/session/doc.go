// Package session owns the network session and its connection lifecycle.
//
// The Controller drives the engine through connect, one-time bootstrap of the
// primary station, user station operations and the single cleanup primitive
// every terminal failure converges on. It is not safe for concurrent use: all
// calls happen on the coordination goroutine.
package session
