// Package radio implements the frequency registry of the voice client.
//
// The registry holds the stations the user is working: one entry per distinct
// frequency, keyed on the frequency normalized to the 8.33 kHz channel raster.
// Per-frequency rx/tx/xc state lives in the engine; the registry only owns
// identity, presentation, and the transceiver count.
package radio
