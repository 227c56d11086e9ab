package radio

import (
	"strings"
	"sync"
)

// UnknownTransceivers marks a station whose transceivers were never counted.
const UnknownTransceivers = -1

// Station is a frequency the user is working.
type Station struct {
	Callsign         string `json:"callsign"`
	Frequency        int    `json:"frequency"`
	DisplayFrequency string `json:"displayFrequency"`
	Transceivers     int    `json:"transceivers"`
}

// NewStation builds a station on an already normalized frequency.
func NewStation(callsign string, frequency int) Station {
	return Station{
		Callsign:         callsign,
		Frequency:        frequency,
		DisplayFrequency: FormatFrequency(frequency),
		Transceivers:     UnknownTransceivers,
	}
}

// Pair renders the station as "callsign:display_frequency".
func (s Station) Pair() string {
	return s.Callsign + ":" + s.DisplayFrequency
}

// JoinPairs renders stations as comma separated Pair values.
func JoinPairs(stations []Station) string {
	if len(stations) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(stations))
	for _, s := range stations {
		pairs = append(pairs, s.Pair())
	}
	return strings.Join(pairs, ",")
}

// Registry holds at most one station per frequency, in insertion order.
//
// Writers are the coordination goroutine only; the RWMutex lets the status
// server take momentary read snapshots.
type Registry struct {
	mu       sync.RWMutex
	stations []Station
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stations: make([]Station, 0),
	}
}

// Exists reports whether a station is registered on frequency.
func (r *Registry) Exists(frequency int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOfFrequency(frequency) >= 0
}

// Add registers station. Callers check Exists first; a station whose frequency
// is already registered is dropped and Add returns false.
func (r *Registry) Add(station Station) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfFrequency(station.Frequency) >= 0 {
		return false
	}
	r.stations = append(r.stations, station)
	return true
}

// Remove drops every station on frequency. Removing an absent frequency is a no-op.
func (r *Registry) Remove(frequency int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.stations[:0]
	for _, s := range r.stations {
		if s.Frequency != frequency {
			kept = append(kept, s)
		}
	}
	r.stations = kept
}

// Find returns the station on frequency.
func (r *Registry) Find(frequency int) (Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfFrequency(frequency); i >= 0 {
		return r.stations[i], true
	}
	return Station{}, false
}

// FindByCallsign returns the first station with callsign.
func (r *Registry) FindByCallsign(callsign string) (Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfCallsign(callsign); i >= 0 {
		return r.stations[i], true
	}
	return Station{}, false
}

// SetTransceivers updates the transceiver count of the station with callsign.
func (r *Registry) SetTransceivers(callsign string, count int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfCallsign(callsign)
	if i < 0 {
		return false
	}
	r.stations[i].Transceivers = count
	return true
}

// Clear removes every station.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations = make([]Station, 0)
}

// List returns a copy of the registered stations.
func (r *Registry) List() []Station {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Station, len(r.stations))
	copy(out, r.stations)
	return out
}

// Len returns the number of registered stations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stations)
}

// Filter returns the stations for which keep returns true. keep runs under the
// read lock and must not call back into the registry.
func (r *Registry) Filter(keep func(Station) bool) []Station {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Station
	for _, s := range r.stations {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) indexOfFrequency(frequency int) int {
	for i, s := range r.stations {
		if s.Frequency == frequency {
			return i
		}
	}
	return -1
}

func (r *Registry) indexOfCallsign(callsign string) int {
	for i, s := range r.stations {
		if s.Callsign == callsign {
			return i
		}
	}
	return -1
}
