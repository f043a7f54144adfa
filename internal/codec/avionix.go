package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// Avionix is the pseudo-Cat21 JSON line the antenna streams, grounded on
// original_source/formats/src/avionix.rs's Avionix struct.
type Avionix struct {
	UTI uint64  `json:"UTI"`
	DAT string  `json:"DAT"`
	SIC int     `json:"SIC"`
	SAC int     `json:"SAC"`
	HEX string  `json:"HEX"`
	FLI string  `json:"FLI"`
	LAT float64 `json:"LAT"`
	LON float64 `json:"LON"`
	GDA string  `json:"GDA"` // "A" airborne, "G" ground
	SRC string  `json:"SRC"` // "A" ADS-B, "M" MLAT
	ALT float64 `json:"ALT"`
	SPD float64 `json:"SPD"`
	TRK float64 `json:"TRK"`
	CAT string  `json:"CAT"`
	SQU string  `json:"SQU"`
	VRT float64 `json:"VRT"`
}

// DecodeAvionixJSON parses one newline-delimited JSON record from the
// antenna's TCP feed (port 50007) into a Cat21.
func DecodeAvionixJSON(line []byte) (core.Cat21, error) {
	var a Avionix
	if err := json.Unmarshal(line, &a); err != nil {
		return core.Cat21{}, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}
	return core.Cat21{
		SAC:           a.SAC,
		SIC:           a.SIC,
		AircraftAddr:  a.HEX,
		Callsign:      a.FLI,
		Latitude:      a.LAT,
		Longitude:     a.LON,
		AltGeoFt:      a.ALT,
		AltBaroFt:     a.ALT,
		GroundSpeedKt: a.SPD,
		TrackAngle:    a.TRK,
		TimeOfDay:     time.UnixMilli(int64(a.UTI)).UTC(),
		EmitterCat:    13,
		OnGround:      a.GDA == "G",
		Extra: map[string]string{
			"dat": a.DAT,
			"src": a.SRC,
			"cat": a.CAT,
			"squ": a.SQU,
			"vrt": fmt.Sprintf("%g", a.VRT),
		},
	}, nil
}
