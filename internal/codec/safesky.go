package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// Safesky is the ADS-BI beacon record shape returned by the `/v1/beacons`
// endpoint, grounded on
// original_source/format-specs/src/input/safesky.rs's Safesky struct.
type Safesky struct {
	LastUpdate   time.Time `json:"last_update"`
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Transponder  string    `json:"transponder_type"`
	AircraftType string    `json:"aircraft_type"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Altitude     float64   `json:"altitude"`
	Course       float64   `json:"course"`
	GroundSpeed  float64   `json:"ground_speed"`
	Status       string    `json:"status"`
	CallSign     string    `json:"call_sign"`
}

// DecodeSafeskyJSON parses one Safesky beacon JSON object into a Cat21
// record.
func DecodeSafeskyJSON(data []byte) (core.Cat21, error) {
	var s Safesky
	if err := json.Unmarshal(data, &s); err != nil {
		return core.Cat21{}, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}
	return core.Cat21{
		AircraftAddr:  s.ID,
		Callsign:      s.CallSign,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		AltGeoFt:      s.Altitude,
		AltBaroFt:     s.Altitude,
		GroundSpeedKt: s.GroundSpeed,
		TrackAngle:    s.Course,
		TimeOfDay:     s.LastUpdate.UTC(),
		EmitterCat:    13,
		OnGround:      s.Status == "GROUNDED",
		Extra: map[string]string{
			"source":            s.Source,
			"transponder_type":  s.Transponder,
			"aircraft_type":     s.AircraftType,
		},
	}, nil
}
