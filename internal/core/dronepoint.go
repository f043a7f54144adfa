package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// DronePoint is the canonical drone telemetry sample: position, heading and
// (when the source provides it) the operator's home location and the
// receiving ground station. Optional fields are pointers so a missing value
// round-trips as absent rather than as a zero.
type DronePoint struct {
	Time    time.Time `json:"time"`
	Journey string    `json:"journey"`
	DroneID string    `json:"drone_id"`
	Model   *string   `json:"model,omitempty"`
	Source  string    `json:"source"`

	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Altitude *float64 `json:"altitude,omitempty"`
	Elevation *float64 `json:"elevation,omitempty"`

	HomeLat    *float64 `json:"home_lat,omitempty"`
	HomeLon    *float64 `json:"home_lon,omitempty"`
	HomeHeight *float64 `json:"home_height,omitempty"`

	Speed   float64 `json:"speed"`
	Heading float64 `json:"heading"`

	StationName *string  `json:"station_name,omitempty"`
	StationLat  *float64 `json:"station_lat,omitempty"`
	StationLon  *float64 `json:"station_lon,omitempty"`
}

// EncodeDronePointJSON marshals p the way Save/Stdout consumers emit records.
func EncodeDronePointJSON(p DronePoint) ([]byte, error) {
	return json.Marshal(p)
}

// DecodeDronePointJSON is the inverse of EncodeDronePointJSON.
func DecodeDronePointJSON(data []byte) (DronePoint, error) {
	var p DronePoint
	if err := json.Unmarshal(data, &p); err != nil {
		return DronePoint{}, fmt.Errorf("%w: %v", ErrBadPacketData, err)
	}
	return p, nil
}
