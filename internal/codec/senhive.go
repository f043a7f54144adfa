package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// SenhiveCoordinates mirrors original_source/formats/src/senhive/mod.rs's
// Coordinates struct.
type SenhiveCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// SenhiveAltitude mirrors the Altitude struct the same file declares for
// sensor and fused-track records: above-ground-level and above-mean-sea-level,
// either of which may be absent, and WGS-84 geodetic, which is not optional
// here and decodes as 0 when the field is missing.
type SenhiveAltitude struct {
	AGL      *float64 `json:"agl"`
	AMSL     *float64 `json:"amsl"`
	Geodetic float64  `json:"geodetic"`
}

// SenhiveTrack is one delivery off the `fused_data`/`dl_fused_data` queues:
// a single fused drone track position. The sensor/alert message shapes
// (Sensor, AlertData) carry no position and aren't decoded into DronePoint.
type SenhiveTrack struct {
	TrackID     string             `json:"trackId"`
	Journey     string             `json:"journeyId"`
	Timestamp   string             `json:"timestamp"`
	Coordinates SenhiveCoordinates `json:"coordinates"`
	Altitude    SenhiveAltitude    `json:"altitude"`
	Speed       float64            `json:"speed"`
	Heading     float64            `json:"heading"`
	SensorName  string             `json:"sensorName"`
}

// DecodeSenhiveJSON parses one fused-track delivery body into a DronePoint.
func DecodeSenhiveJSON(data []byte) (core.DronePoint, error) {
	var t SenhiveTrack
	if err := json.Unmarshal(data, &t); err != nil {
		return core.DronePoint{}, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}

	ts, err := time.Parse(time.RFC3339, t.Timestamp)
	if err != nil {
		return core.DronePoint{}, fmt.Errorf("%w: timestamp: %v", core.ErrBadPacketData, err)
	}

	p := core.DronePoint{
		Time:    ts,
		Journey: t.Journey,
		DroneID: t.TrackID,
		Source:  "senhive",
		Lat:     t.Coordinates.Lat,
		Lon:     t.Coordinates.Lon,
		Speed:   t.Speed,
		Heading: t.Heading,
	}
	geo := t.Altitude.Geodetic
	p.Altitude = &geo
	if t.Altitude.AGL != nil {
		p.Elevation = t.Altitude.AGL
	}
	if t.SensorName != "" {
		name := t.SensorName
		p.StationName = &name
	}
	return p, nil
}
