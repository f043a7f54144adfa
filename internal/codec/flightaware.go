package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// Flightaware is one Firehose NDJSON position record, grounded on spec.md
// §6's field list for the `live`/`pitr` feed. Numeric fields arrive as
// strings on the wire (Firehose quotes everything), so they're typed string
// here and converted on decode.
type Flightaware struct {
	Ident  string `json:"ident"`
	Hexid  string `json:"hexid"`
	Lat    string `json:"lat"`
	Lon    string `json:"lon"`
	Alt    string `json:"alt"`
	GS     string `json:"gs"`
	Heading string `json:"heading"`
	Clock  string `json:"clock"`
	AirGround string `json:"air_ground"`
}

// DecodeFlightawareJSON parses one NDJSON line from the Firehose feed into a
// Cat21. No caller filters on `"type":"position"` first, so a line that is
// not a position report (no lat/lon) reaches this decoder and fails.
func DecodeFlightawareJSON(line []byte) (core.Cat21, error) {
	var f Flightaware
	if err := json.Unmarshal(line, &f); err != nil {
		return core.Cat21{}, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}

	lat, err := strconv.ParseFloat(f.Lat, 64)
	if err != nil {
		return core.Cat21{}, fmt.Errorf("%w: lat: %v", core.ErrBadPacketData, err)
	}
	lon, err := strconv.ParseFloat(f.Lon, 64)
	if err != nil {
		return core.Cat21{}, fmt.Errorf("%w: lon: %v", core.ErrBadPacketData, err)
	}
	alt, _ := strconv.ParseFloat(f.Alt, 64)
	gs, _ := strconv.ParseFloat(f.GS, 64)
	hdg, _ := strconv.ParseFloat(f.Heading, 64)

	var tod time.Time
	if secs, err := strconv.ParseInt(f.Clock, 10, 64); err == nil {
		tod = time.Unix(secs, 0).UTC()
	}

	return core.Cat21{
		AircraftAddr:  f.Hexid,
		Callsign:      f.Ident,
		Latitude:      lat,
		Longitude:     lon,
		AltGeoFt:      alt * 100, // Firehose reports alt in hundreds of feet
		AltBaroFt:     alt * 100,
		GroundSpeedKt: gs,
		TrackAngle:    hdg,
		TimeOfDay:     tod,
		EmitterCat:    13,
		OnGround:      f.AirGround == "G",
	}, nil
}
