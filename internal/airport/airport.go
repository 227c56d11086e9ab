// Package airport holds the airport position table used to place controllers
// who connect without a position of their own.
//
// The table is loaded once, off the coordination goroutine. Readers wait on
// Ready() (or Wait with a deadline) before the first lookup; after that the
// table is immutable and lookups need no locking.
package airport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// ErrNotReady is returned by Wait when the table did not finish loading in time.
var ErrNotReady = errors.New("airport table not ready")

// Airport is one entry of the table.
type Airport struct {
	ICAO      string  `json:"icao"`
	Elevation float64 `json:"elevation"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Table is the asynchronously loaded airport table.
type Table struct {
	ready    chan struct{}
	airports map[string]Airport
	err      error
}

// Load starts loading path in the background and returns immediately.
// A missing or unparsable file leaves the table empty; the failure is logged
// and reported by Err once Ready is closed.
func Load(path string) *Table {
	t := &Table{ready: make(chan struct{})}
	go func() {
		defer close(t.ready)
		start := time.Now()
		airports, err := readFile(path)
		if err != nil {
			t.err = err
			log.Printf("airport: %v", err)
			return
		}
		t.airports = airports
		log.Printf("airport: loaded %d airports in %v", len(airports), time.Since(start).Round(time.Millisecond))
	}()
	return t
}

// FromReader loads a table synchronously from r.
func FromReader(r io.Reader) (*Table, error) {
	airports, err := decode(r)
	t := &Table{ready: make(chan struct{}), airports: airports, err: err}
	close(t.ready)
	return t, err
}

func readFile(path string) (map[string]Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not find airport database %s: %w", path, err)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return decode(f)
}

func decode(r io.Reader) (map[string]Airport, error) {
	var raw map[string]Airport
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not parse airport database: %w", err)
	}

	airports := make(map[string]Airport, len(raw))
	for key, a := range raw {
		if a.ICAO == "" {
			a.ICAO = key
		}
		airports[strings.ToUpper(key)] = a
	}
	return airports, nil
}

// Ready is closed once loading finished, successfully or not.
func (t *Table) Ready() <-chan struct{} {
	return t.ready
}

// Wait blocks until the table is ready or ctx is done.
func (t *Table) Wait(ctx context.Context) error {
	select {
	case <-t.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
	}
}

// Err returns the load failure, nil while loading or on success.
func (t *Table) Err() error {
	select {
	case <-t.ready:
		return t.err
	default:
		return nil
	}
}

// Lookup returns the airport for icao. It never blocks: before the table is
// ready every lookup misses.
func (t *Table) Lookup(icao string) (Airport, bool) {
	select {
	case <-t.ready:
	default:
		return Airport{}, false
	}
	a, ok := t.airports[strings.ToUpper(icao)]
	return a, ok
}

// Len returns the number of loaded airports, zero before the table is ready.
func (t *Table) Len() int {
	select {
	case <-t.ready:
		return len(t.airports)
	default:
		return 0
	}
}
