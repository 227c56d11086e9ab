// Package adaptertest provides an engine-agnostic conformance suite for adapter.Engine.
//
// The suite only exercises the offline contract: frequency bookkeeping, audio
// enumeration, event delivery for directory lookups and close semantics. It
// never needs a voice network.
package adaptertest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/19wintersp/VectorAudio/internal/adapter"
)

// Capabilities describes what the engine under test is expected to know.
type Capabilities struct {
	// Name labels the report.
	Name string
	// TestFrequency is a valid channel the engine accepts in AddFrequency.
	TestFrequency int
	// KnownStation is a callsign GetStation finds, empty to skip the check.
	KnownStation string
	// UnknownStation is a callsign GetStation does not find.
	UnknownStation string
	// EventTimeout bounds the wait for asynchronous events.
	EventTimeout time.Duration
}

// ConformanceResult represents the result of a conformance test.
type ConformanceResult struct {
	TestName string
	Passed   bool
	Error    string
	Duration time.Duration
	Details  map[string]interface{}
}

// ConformanceReport represents the complete conformance test report.
type ConformanceReport struct {
	EngineName    string
	TotalTests    int
	PassedTests   int
	FailedTests   int
	Results       []ConformanceResult
	OverallPassed bool
	Duration      time.Duration
}

// RunConformance runs the complete conformance test suite for an engine.
func RunConformance(t *testing.T, newEngine func() adapter.Engine, caps Capabilities) {
	startTime := time.Now()

	if caps.EventTimeout <= 0 {
		caps.EventTimeout = time.Second
	}
	name := caps.Name
	if name == "" {
		name = "Unknown Engine"
	}

	report := &ConformanceReport{
		EngineName:    name,
		Results:       []ConformanceResult{},
		OverallPassed: true,
	}

	runLinkTests(newEngine, report)
	runFrequencyTests(newEngine, caps, report)
	runHeadsetTests(newEngine, caps, report)
	runAudioTests(newEngine, report)
	runStationEventTests(newEngine, caps, report)
	runCloseTests(newEngine, caps, report)

	report.Duration = time.Since(startTime)

	printConformanceReport(t, report)

	if !report.OverallPassed {
		t.Fatalf("Engine conformance test failed: %d/%d tests passed", report.PassedTests, report.TotalTests)
	}
}

// check runs fn and records its outcome under name.
func check(report *ConformanceReport, name string, fn func(details map[string]interface{}) error) {
	result := ConformanceResult{
		TestName: name,
		Details:  make(map[string]interface{}),
	}
	start := time.Now()
	err := fn(result.Details)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Passed = true
	}
	report.addResult(result)
}

func runLinkTests(newEngine func() adapter.Engine, report *ConformanceReport) {
	check(report, "Link_InitiallyDown", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		if engine.IsAPIConnected() {
			return fmt.Errorf("API reported connected before Connect")
		}
		if engine.IsVoiceConnected() {
			return fmt.Errorf("voice reported connected before Connect")
		}
		return nil
	})

	check(report, "Link_DisconnectWhenDown", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		engine.Disconnect()
		engine.Disconnect()
		if engine.IsAPIConnected() {
			return fmt.Errorf("API connected after Disconnect")
		}
		return nil
	})
}

func runFrequencyTests(newEngine func() adapter.Engine, caps Capabilities, report *ConformanceReport) {
	freq := caps.TestFrequency

	check(report, "Frequency_AddRemove", func(details map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()

		if engine.IsFrequencyActive(freq) {
			return fmt.Errorf("frequency %d active before AddFrequency", freq)
		}
		engine.AddFrequency(freq, "CONF_TWR")
		if !engine.IsFrequencyActive(freq) {
			return fmt.Errorf("frequency %d inactive after AddFrequency", freq)
		}
		engine.RemoveFrequency(freq)
		if engine.IsFrequencyActive(freq) {
			return fmt.Errorf("frequency %d active after RemoveFrequency", freq)
		}
		engine.RemoveFrequency(freq)
		details["frequency"] = freq
		return nil
	})

	check(report, "Frequency_StateRoundTrip", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		engine.AddFrequency(freq, "CONF_TWR")

		setters := []struct {
			name string
			set  func(int, bool)
			get  func(int) bool
		}{
			{"rx", engine.SetRx, engine.GetRxState},
			{"tx", engine.SetTx, engine.GetTxState},
			{"xc", engine.SetXc, engine.GetXcState},
		}
		for _, s := range setters {
			for _, want := range []bool{true, false, true} {
				s.set(freq, want)
				if got := s.get(freq); got != want {
					return fmt.Errorf("%s state = %t after set %t", s.name, got, want)
				}
			}
		}
		return nil
	})

	check(report, "Frequency_IdleActivity", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		engine.AddFrequency(freq, "CONF_TWR")
		engine.SetRx(freq, true)
		engine.SetTx(freq, true)

		if engine.GetRxActive(freq) {
			return fmt.Errorf("rx active with nobody transmitting")
		}
		if engine.GetTxActive(freq) {
			return fmt.Errorf("tx active while disconnected")
		}
		return nil
	})

	check(report, "Frequency_AbsentQueries", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		if engine.GetRxState(freq) || engine.GetTxState(freq) || engine.GetXcState(freq) {
			return fmt.Errorf("absent frequency reports active state")
		}
		if last := engine.LastTransmitOnFrequency(freq); last != "" {
			return fmt.Errorf("absent frequency reports last transmitter %q", last)
		}
		return nil
	})
}

func runHeadsetTests(newEngine func() adapter.Engine, caps Capabilities, report *ConformanceReport) {
	check(report, "Headset_RoundTrip", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		engine.AddFrequency(caps.TestFrequency, "CONF_TWR")
		engine.SetOnHeadset(caps.TestFrequency, true)
		if !engine.GetOnHeadset(caps.TestFrequency) {
			return fmt.Errorf("on-headset not retained")
		}
		engine.SetOnHeadset(caps.TestFrequency, false)
		if engine.GetOnHeadset(caps.TestFrequency) {
			return fmt.Errorf("on-headset not cleared")
		}
		return nil
	})
}

func runAudioTests(newEngine func() adapter.Engine, report *ConformanceReport) {
	check(report, "Audio_Enumeration", func(details map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()

		apis := engine.GetAudioAPIs()
		if len(apis) == 0 {
			return fmt.Errorf("no audio APIs reported")
		}
		inputs := engine.GetAudioInputDevices(apis[0].ID)
		outputs := engine.GetAudioOutputDevices(apis[0].ID)
		if len(outputs) == 0 {
			return fmt.Errorf("no output devices for API %q", apis[0].Name)
		}
		details["apis"] = len(apis)
		details["inputs"] = len(inputs)
		details["outputs"] = len(outputs)
		return nil
	})

	check(report, "Audio_Levels", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		engine.SetRadiosGain(0)
		engine.SetRadiosGain(2)
		engine.SetPtt(true)
		engine.SetPtt(false)
		if peak := engine.GetInputPeak(); peak < 0 {
			return fmt.Errorf("negative input peak %v", peak)
		}
		if vu := engine.GetInputVu(); vu < 0 {
			return fmt.Errorf("negative input VU %v", vu)
		}
		return nil
	})

	check(report, "Audio_StopWhenIdle", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		engine.StopAudio()
		if engine.IsAudioRunning() {
			return fmt.Errorf("audio running after StopAudio")
		}
		return nil
	})
}

func runStationEventTests(newEngine func() adapter.Engine, caps Capabilities, report *ConformanceReport) {
	check(report, "Events_UnknownStation", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		events := make(chan adapter.Event, 16)
		engine.RegisterEventSink(func(ev adapter.Event) { events <- ev })

		engine.GetStation(caps.UnknownStation)
		ev, err := waitFor(events, "station_search_result", caps.EventTimeout)
		if err != nil {
			return err
		}
		result := ev.(adapter.StationSearchResult)
		if result.Found {
			return fmt.Errorf("unknown station %q reported found", caps.UnknownStation)
		}
		return nil
	})

	if caps.KnownStation != "" {
		check(report, "Events_KnownStation", func(details map[string]interface{}) error {
			engine := newEngine()
			defer engine.Close()
			events := make(chan adapter.Event, 16)
			engine.RegisterEventSink(func(ev adapter.Event) { events <- ev })

			engine.GetStation(caps.KnownStation)
			ev, err := waitFor(events, "station_search_result", caps.EventTimeout)
			if err != nil {
				return err
			}
			result := ev.(adapter.StationSearchResult)
			if !result.Found || result.Callsign != caps.KnownStation || result.Frequency <= 0 {
				return fmt.Errorf("unexpected search result %s", adapter.Describe(result))
			}
			details["frequency"] = result.Frequency
			return nil
		})
	}

	check(report, "Events_VCCS", func(map[string]interface{}) error {
		engine := newEngine()
		defer engine.Close()
		events := make(chan adapter.Event, 16)
		engine.RegisterEventSink(func(ev adapter.Event) { events <- ev })

		engine.FetchStationVccs(caps.UnknownStation)
		ev, err := waitFor(events, "vccs_received", caps.EventTimeout)
		if err != nil {
			return err
		}
		if got := ev.(adapter.VCCSReceived).Station; got != caps.UnknownStation {
			return fmt.Errorf("VCCS for %q, want %q", got, caps.UnknownStation)
		}
		return nil
	})
}

func runCloseTests(newEngine func() adapter.Engine, caps Capabilities, report *ConformanceReport) {
	check(report, "Close_StopsEvents", func(map[string]interface{}) error {
		engine := newEngine()
		events := make(chan adapter.Event, 16)
		engine.RegisterEventSink(func(ev adapter.Event) { events <- ev })

		if err := engine.Close(); err != nil {
			return fmt.Errorf("Close failed: %v", err)
		}
		engine.GetStation(caps.UnknownStation)
		select {
		case ev := <-events:
			return fmt.Errorf("event %s delivered after Close", adapter.Describe(ev))
		case <-time.After(caps.EventTimeout / 10):
		}
		return nil
	})

	check(report, "Close_NoReconnect", func(map[string]interface{}) error {
		engine := newEngine()
		_ = engine.Close()
		if engine.Connect() {
			return fmt.Errorf("Connect succeeded on a closed engine")
		}
		return nil
	})
}

// waitFor returns the first event of kind, skipping others.
func waitFor(events <-chan adapter.Event, kind string, timeout time.Duration) (adapter.Event, error) {
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-events:
			if ev.Kind() == kind {
				return ev, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("no %s event within %v", kind, timeout)
		}
	}
}

func (r *ConformanceReport) addResult(result ConformanceResult) {
	r.TotalTests++
	if result.Passed {
		r.PassedTests++
	} else {
		r.FailedTests++
		r.OverallPassed = false
	}
	r.Results = append(r.Results, result)
}

func printConformanceReport(t *testing.T, report *ConformanceReport) {
	t.Logf("\n%s", strings.Repeat("=", 80))
	t.Logf("ENGINE CONFORMANCE REPORT")
	t.Logf("%s", strings.Repeat("=", 80))
	t.Logf("Engine: %s", report.EngineName)
	t.Logf("Total Tests: %d", report.TotalTests)
	t.Logf("Passed: %d", report.PassedTests)
	t.Logf("Failed: %d", report.FailedTests)
	t.Logf("Overall: %s", map[bool]string{true: "PASS", false: "FAIL"}[report.OverallPassed])
	t.Logf("Duration: %v", report.Duration)
	t.Logf("%s", strings.Repeat("-", 80))

	t.Logf("%-30s %-8s %-12s %-s", "TEST NAME", "RESULT", "DURATION", "DETAILS")
	t.Logf("%s", strings.Repeat("-", 80))

	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}

		details := result.Error
		if details == "" && len(result.Details) > 0 {
			var parts []string
			for k, v := range result.Details {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
			details = strings.Join(parts, ", ")
		}

		t.Logf("%-30s %-8s %-12s %-s", result.TestName, status, result.Duration.String(), details)
	}

	t.Logf("%s", strings.Repeat("=", 80))
}
