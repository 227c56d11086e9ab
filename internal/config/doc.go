// Package config loads the client configuration.
//
// Defaults are overlaid by the persisted configuration file (TOML, or YAML when
// the file has a .yaml/.yml extension) and then by VECTORAUDIO_* environment
// variables. The merged result is validated before use. The loader only reads:
// persisting settings belongs to the settings UI.
package config
