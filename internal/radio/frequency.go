package radio

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// channelGrid is the spacing of published 8.33 kHz channel names.
	channelGrid = 5000
	// blockWidth is the 25 kHz block the 8.33 kHz raster subdivides.
	blockWidth = 25000
	// invalidOffset is the one 5 kHz position inside a block that names no channel.
	invalidOffset = 20000

	// UnicomFrequency is the air-to-air frequency, 122.800 MHz.
	UnicomFrequency = 122800000
)

// IsValid833 reports whether freq (Hz) names a channel of the 8.33 kHz raster.
func IsValid833(freq int) bool {
	if freq <= 0 || freq%channelGrid != 0 {
		return false
	}
	return freq%blockWidth != invalidOffset
}

// Normalize833 snaps freq (Hz) to the nearest valid 8.33 kHz channel name.
// Valid channels are returned unchanged, so Normalize833 is idempotent. A value
// exactly on an offset 20 kHz grid point is equidistant from offsets 15 and 25
// and goes up to 25.
func Normalize833(freq int) int {
	if freq <= 0 {
		return freq
	}
	if IsValid833(freq) {
		return freq
	}

	snapped := ((freq + channelGrid/2) / channelGrid) * channelGrid
	if snapped%blockWidth == invalidOffset {
		if freq < snapped {
			return snapped - channelGrid
		}
		return snapped + channelGrid
	}
	return snapped
}

// FormatFrequency renders freq (Hz) as MHz with three decimals, e.g. "118.700".
func FormatFrequency(freq int) string {
	khz := (freq + 500) / 1000
	return fmt.Sprintf("%d.%03d", khz/1000, khz%1000)
}

// ParseFrequency parses a MHz string such as "118.7" or "118.700" into Hz.
func ParseFrequency(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty frequency")
	}

	whole, frac, _ := strings.Cut(s, ".")
	mhz, err := strconv.Atoi(whole)
	if err != nil || mhz < 0 {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}

	if len(frac) > 6 {
		return 0, fmt.Errorf("invalid frequency %q: too many decimals", s)
	}
	hz := 0
	if frac != "" {
		frac += strings.Repeat("0", 6-len(frac))
		hz, err = strconv.Atoi(frac)
		if err != nil || hz < 0 {
			return 0, fmt.Errorf("invalid frequency %q", s)
		}
	}

	freq := mhz*1000000 + hz
	if freq <= 0 {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}
	return freq, nil
}
