// Package status serves the read-only HTTP status surface.
//
// Endpoints (plain text, GET):
//   - /transmitting: the throttled transmitting snapshot
//   - /rx: callsign:frequency pairs of stations receiving
//   - /tx: callsign:frequency pairs of stations transmitting
//   - /events: SSE feed, only when enabled
//
// Any other method or path answers with the client name.
package status
