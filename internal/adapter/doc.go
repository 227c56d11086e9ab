// Package adapter defines the client engine contract for the voice client core.
//
// The voice engine (audio, codecs, the AFV transport) is an opaque capability. The core
// drives it through the Engine interface and receives its asynchronous notifications
// as Event values, a sealed set of types carrying exactly the payload each kind needs.
//
// API session failures reported by the engine are normalized to APIErrorCode through a
// deterministic token table, so the dispatcher can decide fatality without heuristics.
package adapter
