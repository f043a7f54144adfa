package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// OpenskyStates is the `/states/own` response shape: a timestamp and an
// array of state vectors, each itself a loosely-typed array (spec.md §6).
type OpenskyStates struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

// State vector field indices per the Opensky REST API documentation.
const (
	osICAO24      = 0
	osCallsign    = 1
	osTimePos     = 3
	osLongitude   = 5
	osLatitude    = 6
	osBaroAlt     = 7
	osOnGround    = 8
	osVelocity    = 9
	osTrueTrack   = 10
	osGeoAlt      = 13
)

// DecodeOpenskyJSON parses a states-own response and returns one Cat21 per
// state vector whose time_position is non-null, grounded on
// original_source/format-specs/src/output/opensky.rs's `From<&StateVector>`.
// Records with a null time_position are skipped, not returned as an error.
// The caller counts Empty only when a whole response yields no record, so a
// skipped record inside a non-empty response is not counted.
func DecodeOpenskyJSON(data []byte) ([]core.Cat21, error) {
	var states OpenskyStates
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}

	out := make([]core.Cat21, 0, len(states.States))
	for _, sv := range states.States {
		if len(sv) <= osGeoAlt {
			continue
		}
		if sv[osTimePos] == nil {
			continue
		}
		out = append(out, stateVectorToCat21(sv))
	}
	return out, nil
}

func stateVectorToCat21(sv []interface{}) core.Cat21 {
	str := func(i int) string {
		if i >= len(sv) || sv[i] == nil {
			return ""
		}
		s, _ := sv[i].(string)
		return s
	}
	num := func(i int) float64 {
		if i >= len(sv) || sv[i] == nil {
			return 0
		}
		n, _ := sv[i].(float64)
		return n
	}
	boolean := func(i int) bool {
		if i >= len(sv) || sv[i] == nil {
			return false
		}
		b, _ := sv[i].(bool)
		return b
	}

	tod := time.Unix(int64(num(osTimePos)), 0).UTC()

	return core.Cat21{
		SAC:           8,
		SIC:           200,
		AircraftAddr:  str(osICAO24),
		Callsign:      str(osCallsign),
		Latitude:      num(osLatitude),
		Longitude:     num(osLongitude),
		AltGeoFt:      toFeet(num(osGeoAlt)),
		AltBaroFt:     toFeet(num(osBaroAlt)),
		GroundSpeedKt: toKnots(num(osVelocity)),
		TrackAngle:    num(osTrueTrack),
		TimeOfDay:     tod,
		EmitterCat:    13,
		OnGround:      boolean(osOnGround),
	}
}
