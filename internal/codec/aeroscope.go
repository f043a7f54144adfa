package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// aeroscopeColumns is the CSV column order the antenna emits, numbered $1-$17
// in original_source/format-specs/src/input/aeroscope.rs's Aeroscope struct.
var aeroscopeColumns = []string{
	"aeroscope_id", "aeroscope_latitude", "aeroscope_longitude", "altitude",
	"azimuth", "coordinate_latitude", "coordinate_longitude", "distance",
	"drone_id", "drone_type", "flight_id", "home_latitude", "home_longitude",
	"pilot_latitude", "pilot_longitude", "receive_date", "speed",
}

// DecodeAeroscopeCSV parses one Aeroscope CSV row into the canonical Cat21
// record the rest of the engine deals in.
func DecodeAeroscopeCSV(record []string) (core.Cat21, error) {
	if len(record) < len(aeroscopeColumns) {
		return core.Cat21{}, fmt.Errorf("%w: aeroscope csv row has %d fields, want %d", core.ErrBadPacketData, len(record), len(aeroscopeColumns))
	}
	f := func(i int) (float64, error) { return strconv.ParseFloat(record[i], 64) }

	lat, err := f(5)
	if err != nil {
		return core.Cat21{}, fmt.Errorf("%w: coordinate_latitude: %v", core.ErrBadPacketData, err)
	}
	lon, err := f(6)
	if err != nil {
		return core.Cat21{}, fmt.Errorf("%w: coordinate_longitude: %v", core.ErrBadPacketData, err)
	}
	alt, err := f(3)
	if err != nil {
		return core.Cat21{}, fmt.Errorf("%w: altitude: %v", core.ErrBadPacketData, err)
	}
	speed, err := f(16)
	if err != nil {
		return core.Cat21{}, fmt.Errorf("%w: speed: %v", core.ErrBadPacketData, err)
	}

	tod, err := time.Parse("2006-01-02 15:04:05", record[15])
	if err != nil {
		tod = time.Time{}
	}

	return core.Cat21{
		SAC:           0,
		SIC:           0,
		AircraftAddr:  record[8], // drone_id
		Callsign:      record[10], // flight_id
		Latitude:      lat,
		Longitude:     lon,
		AltGeoFt:      toFeet(alt),
		AltBaroFt:     toFeet(alt),
		GroundSpeedKt: toKnots(speed),
		TimeOfDay:     tod,
		EmitterCat:    13,
		OnGround:      false,
		Extra: map[string]string{
			"aeroscope_id":        record[0],
			"aeroscope_latitude":  record[1],
			"aeroscope_longitude": record[2],
			"azimuth":             record[4],
			"distance":            record[7],
			"drone_type":          record[9],
			"home_latitude":       record[11],
			"home_longitude":      record[12],
			"pilot_latitude":      record[13],
			"pilot_longitude":     record[14],
			"receive_date":        record[15],
		},
	}, nil
}
