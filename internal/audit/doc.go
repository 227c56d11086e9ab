// Package audit records session actions as append-only JSON lines.
//
// Each entry carries an ID, the session callsign, the action, its parameters
// and outcome. The file is rotated by size with lumberjack.
package audit
