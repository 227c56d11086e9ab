package status

import (
	"context"
	"net/http"

	"github.com/19wintersp/VectorAudio/internal/radio"
	"github.com/19wintersp/VectorAudio/internal/telemetry"
)

// ReadPort is the coordinator state the server reads. Implementations must
// be safe for use from server goroutines.
type ReadPort interface {
	Transmitting() string
	ReceivingStations() []radio.Station
	TransmittingStations() []radio.Station
}

// EventsPort streams telemetry to a client.
type EventsPort interface {
	Subscribe(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

var _ EventsPort = (*telemetry.Hub)(nil)
