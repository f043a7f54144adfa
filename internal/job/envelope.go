package job

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/fetiche/engine/internal/core"
)

// envelope is the wire shape carried over a job's string channels: the
// format tag a downstream Convert task or terminal consumer needs to
// interpret payload, and the raw bytes themselves. Every producer (Fetch,
// Read, Stream) decodes its vendor payload before emitting it, so no vendor
// CSV/JSON text reaches a downstream task. Channels are typed string (per
// internal/runtime.Runnable) rather than []byte since every payload this
// module moves is already text.
type envelope struct {
	format  core.Format
	payload []byte
}

// formatCat21CSV is the Convert task's "to" value for emitting Cat21 rows
// as CSV instead of the default JSON object, per spec.md §8 scenario 1.
const formatCat21CSV core.Format = "cat21-csv"

func encodeEnvelope(format core.Format, payload []byte) string {
	return string(format) + "\x00" + base64.StdEncoding.EncodeToString(payload)
}

func decodeEnvelope(s string) (envelope, error) {
	idx := strings.IndexByte(s, 0)
	if idx < 0 {
		return envelope{}, fmt.Errorf("job: malformed envelope: missing format separator")
	}
	payload, err := base64.StdEncoding.DecodeString(s[idx+1:])
	if err != nil {
		return envelope{}, fmt.Errorf("job: malformed envelope: %w", err)
	}
	return envelope{format: core.Format(s[:idx]), payload: payload}, nil
}

// canonicalFormatFor reports which canonical record type a vendor format
// decodes into, per SPEC_FULL.md's Cat21-vs-DronePoint vendor mapping
// (aeroscope, opensky, safesky, avionix, flightaware -> Cat21; asd, senhive
// -> DronePoint). Formats that are already canonical map to themselves.
func canonicalFormatFor(format core.Format) core.Format {
	switch format {
	case core.FormatAsd, core.FormatSenhive, core.FormatDronePoint:
		return core.FormatDronePoint
	default:
		return core.FormatCat21
	}
}
