package radio

import (
	"math/rand"
	"sync"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	if registry == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, got %d stations", registry.Len())
	}
}

func TestNewStation(t *testing.T) {
	station := NewStation("LFPG_TWR", 118650000)

	if station.DisplayFrequency != "118.650" {
		t.Errorf("Expected display frequency 118.650, got %s", station.DisplayFrequency)
	}
	if station.Transceivers != UnknownTransceivers {
		t.Errorf("Expected unknown transceivers, got %d", station.Transceivers)
	}
	if station.Pair() != "LFPG_TWR:118.650" {
		t.Errorf("Unexpected pair %q", station.Pair())
	}
}

func TestAddRejectsDuplicateFrequency(t *testing.T) {
	registry := NewRegistry()

	if !registry.Add(NewStation("LFPG_TWR", 118650000)) {
		t.Fatal("first Add() should succeed")
	}
	if registry.Add(NewStation("LFPG_TWR2", 118650000)) {
		t.Error("Add() with an existing frequency should be a no-op")
	}
	if registry.Len() != 1 {
		t.Errorf("Expected 1 station, got %d", registry.Len())
	}

	station, ok := registry.FindByCallsign("LFPG_TWR")
	if !ok || station.Frequency != 118650000 {
		t.Errorf("first station replaced: %+v", station)
	}
	if _, ok := registry.FindByCallsign("LFPG_TWR2"); ok {
		t.Error("duplicate station should not be stored")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewStation("LFPG_TWR", 118650000))
	registry.Add(NewStation("LFPG_GND", 121800000))

	registry.Remove(118650000)
	registry.Remove(118650000)
	registry.Remove(130000000)

	if registry.Exists(118650000) {
		t.Error("removed frequency still exists")
	}
	if !registry.Exists(121800000) {
		t.Error("unrelated frequency was removed")
	}
	if registry.Len() != 1 {
		t.Errorf("Expected 1 station, got %d", registry.Len())
	}
}

func TestFind(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewStation("LFPG_TWR", 118650000))

	station, ok := registry.Find(118650000)
	if !ok || station.Callsign != "LFPG_TWR" {
		t.Errorf("Find() = %+v, %t", station, ok)
	}
	if _, ok := registry.Find(118655000); ok {
		t.Error("Find() on absent frequency should miss")
	}
}

func TestSetTransceivers(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewStation("EGLL_N_APP", 119725000))

	if !registry.SetTransceivers("EGLL_N_APP", 4) {
		t.Fatal("SetTransceivers() on known callsign returned false")
	}
	if registry.SetTransceivers("EGKK_APP", 2) {
		t.Error("SetTransceivers() on unknown callsign returned true")
	}

	station, _ := registry.FindByCallsign("EGLL_N_APP")
	if station.Transceivers != 4 {
		t.Errorf("Expected 4 transceivers, got %d", station.Transceivers)
	}
}

func TestListReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewStation("LFPG_TWR", 118650000))

	list := registry.List()
	list[0].Callsign = "MUTATED"

	station, _ := registry.FindByCallsign("LFPG_TWR")
	if station.Callsign != "LFPG_TWR" {
		t.Error("List() exposed internal storage")
	}
}

func TestClear(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewStation("LFPG_TWR", 118650000))
	registry.Add(NewStation("LFPG_GND", 121800000))

	registry.Clear()
	registry.Clear()

	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", registry.Len())
	}
}

func TestFilterAndJoinPairs(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewStation("LFPG_TWR", 118650000))
	registry.Add(NewStation("LFPG_GND", 121800000))
	registry.Add(NewStation("LFPG_DEL", 121055000))

	selected := registry.Filter(func(s Station) bool { return s.Frequency != 121800000 })
	if got := JoinPairs(selected); got != "LFPG_TWR:118.650,LFPG_DEL:121.055" {
		t.Errorf("JoinPairs() = %q", got)
	}
	if got := JoinPairs(nil); got != "" {
		t.Errorf("JoinPairs(nil) = %q, want empty", got)
	}
}

// TestRandomSequencesKeepFrequenciesUnique drives random add/remove sequences
// through the registry, checking the dedup gate like the call sites do.
func TestRandomSequencesKeepFrequenciesUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	frequencies := []int{118000000, 118005000, 118010000, 118020000, 121500000, 122800000}

	for run := 0; run < 50; run++ {
		registry := NewRegistry()
		for step := 0; step < 200; step++ {
			freq := Normalize833(frequencies[rng.Intn(len(frequencies))] + rng.Intn(3000))
			if rng.Intn(3) == 0 {
				registry.Remove(freq)
				continue
			}
			before := registry.Len()
			exists := registry.Exists(freq)
			added := registry.Add(NewStation("STN", freq))
			if exists && (added || registry.Len() != before) {
				t.Fatalf("run %d step %d: duplicate add changed registry", run, step)
			}
		}

		seen := make(map[int]bool)
		for _, s := range registry.List() {
			if seen[s.Frequency] {
				t.Fatalf("run %d: frequency %d registered twice", run, s.Frequency)
			}
			seen[s.Frequency] = true
		}
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	registry := NewRegistry()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			freq := 118000000 + (i%20)*25000
			registry.Add(NewStation("STN", freq))
			registry.Remove(freq)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				_ = registry.List()
				_ = registry.Exists(118000000)
			}
		}()
	}

	wg.Wait()
}
