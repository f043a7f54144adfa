package core

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Cat21 is a flat, ASTERIX Category-21-like aircraft position record: the
// lingua franca every fixed-wing/ADS-B source is converted into. Only the
// fields the pipeline and its tests exercise are carried as typed Go fields;
// the remainder of the 38-field original record round-trips through Extra.
type Cat21 struct {
	SAC           int       `json:"sac" csv:"sac"`
	SIC           int       `json:"sic" csv:"sic"`
	AircraftAddr  string    `json:"aircraft_addr" csv:"aircraft_addr"`
	Callsign      string    `json:"callsign" csv:"callsign"`
	Latitude      float64   `json:"latitude" csv:"latitude"`
	Longitude     float64   `json:"longitude" csv:"longitude"`
	AltGeoFt      float64   `json:"alt_geo_ft" csv:"alt_geo_ft"`
	AltBaroFt     float64   `json:"alt_baro_ft" csv:"alt_baro_ft"`
	GroundSpeedKt float64   `json:"ground_speed_kt" csv:"ground_speed_kt"`
	TrackAngle    float64   `json:"track_angle" csv:"track_angle"`
	TimeOfDay     time.Time `json:"time_of_day" csv:"time_of_day"`
	EmitterCat    int       `json:"emitter_category" csv:"emitter_category"`
	OnGround      bool      `json:"on_ground" csv:"on_ground"`

	// Extra carries the remaining Cat-21 fields this module doesn't give a
	// typed name to, keyed by the field name used in the source CSV/JSON so
	// that decode(encode(x)) == x for fields callers never inspect directly.
	Extra map[string]string `json:"extra,omitempty" csv:"-"`
}

// cat21Columns is the canonical CSV column order used by both EncodeCat21CSV
// and DecodeCat21CSV, so that round-tripping preserves column identity.
var cat21Columns = []string{
	"sac", "sic", "aircraft_addr", "callsign", "latitude", "longitude",
	"alt_geo_ft", "alt_baro_ft", "ground_speed_kt", "track_angle",
	"time_of_day", "emitter_category", "on_ground",
}

// EncodeCat21CSV writes one Cat21 row (no header) to w.
func EncodeCat21CSV(w io.Writer, c Cat21) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	record := []string{
		strconv.Itoa(c.SAC),
		strconv.Itoa(c.SIC),
		c.AircraftAddr,
		c.Callsign,
		strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		strconv.FormatFloat(c.Longitude, 'f', -1, 64),
		strconv.FormatFloat(c.AltGeoFt, 'f', -1, 64),
		strconv.FormatFloat(c.AltBaroFt, 'f', -1, 64),
		strconv.FormatFloat(c.GroundSpeedKt, 'f', -1, 64),
		strconv.FormatFloat(c.TrackAngle, 'f', -1, 64),
		c.TimeOfDay.UTC().Format(time.RFC3339),
		strconv.Itoa(c.EmitterCat),
		strconv.FormatBool(c.OnGround),
	}
	return cw.Write(record)
}

// DecodeCat21CSV reads one Cat21 row from a CSV record in the column order
// cat21Columns declares, the order EncodeCat21CSV writes.
func DecodeCat21CSV(record []string) (Cat21, error) {
	if len(record) < len(cat21Columns) {
		return Cat21{}, fmt.Errorf("%w: cat21 csv row has %d fields, want %d", ErrBadPacketData, len(record), len(cat21Columns))
	}
	var c Cat21
	var err error
	if c.SAC, err = strconv.Atoi(record[0]); err != nil {
		return Cat21{}, fmt.Errorf("%w: sac: %v", ErrBadPacketData, err)
	}
	if c.SIC, err = strconv.Atoi(record[1]); err != nil {
		return Cat21{}, fmt.Errorf("%w: sic: %v", ErrBadPacketData, err)
	}
	c.AircraftAddr = record[2]
	c.Callsign = record[3]
	if c.Latitude, err = strconv.ParseFloat(record[4], 64); err != nil {
		return Cat21{}, fmt.Errorf("%w: latitude: %v", ErrBadPacketData, err)
	}
	if c.Longitude, err = strconv.ParseFloat(record[5], 64); err != nil {
		return Cat21{}, fmt.Errorf("%w: longitude: %v", ErrBadPacketData, err)
	}
	if c.AltGeoFt, err = strconv.ParseFloat(record[6], 64); err != nil {
		return Cat21{}, fmt.Errorf("%w: alt_geo_ft: %v", ErrBadPacketData, err)
	}
	if c.AltBaroFt, err = strconv.ParseFloat(record[7], 64); err != nil {
		return Cat21{}, fmt.Errorf("%w: alt_baro_ft: %v", ErrBadPacketData, err)
	}
	if c.GroundSpeedKt, err = strconv.ParseFloat(record[8], 64); err != nil {
		return Cat21{}, fmt.Errorf("%w: ground_speed_kt: %v", ErrBadPacketData, err)
	}
	if c.TrackAngle, err = strconv.ParseFloat(record[9], 64); err != nil {
		return Cat21{}, fmt.Errorf("%w: track_angle: %v", ErrBadPacketData, err)
	}
	if c.TimeOfDay, err = time.Parse(time.RFC3339, record[10]); err != nil {
		return Cat21{}, fmt.Errorf("%w: time_of_day: %v", ErrBadPacketData, err)
	}
	if c.EmitterCat, err = strconv.Atoi(record[11]); err != nil {
		return Cat21{}, fmt.Errorf("%w: emitter_category: %v", ErrBadPacketData, err)
	}
	if c.OnGround, err = strconv.ParseBool(record[12]); err != nil {
		return Cat21{}, fmt.Errorf("%w: on_ground: %v", ErrBadPacketData, err)
	}
	return c, nil
}

// EncodeCat21JSON marshals c the way the Save/Stdout consumers emit records.
func EncodeCat21JSON(c Cat21) ([]byte, error) {
	return json.Marshal(c)
}

// DecodeCat21JSON is the inverse of EncodeCat21JSON.
func DecodeCat21JSON(data []byte) (Cat21, error) {
	var c Cat21
	if err := json.Unmarshal(data, &c); err != nil {
		return Cat21{}, fmt.Errorf("%w: %v", ErrBadPacketData, err)
	}
	return c, nil
}
