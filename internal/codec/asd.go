package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fetiche/engine/internal/core"
)

// Asd is the per-point JSON record ASD's drone tracking API returns,
// grounded on original_source/format-specs/src/input/asd.rs's Asd struct.
// Several numeric fields arrive as strings because ASD stores them as
// DECIMAL and exports 6-digit floating strings rather than numbers.
type Asd struct {
	Journey     uint32  `json:"journey"`
	Ident       string  `json:"ident"`
	Model       *string `json:"model"`
	Source      string  `json:"source"`
	Location    uint32  `json:"location"`
	Timestamp   string  `json:"timestamp"` // "YYYY-MM-DD HH:MM:SS"
	Latitude    string  `json:"latitude"`
	Longitude   string  `json:"longitude"`
	Altitude    *int16  `json:"altitude"`
	Elevation   *uint32 `json:"elevation"`
	HomeLat     *string `json:"home_lat"`
	HomeLon     *string `json:"home_lon"`
	HomeHeight  *float64 `json:"home_height"`
	Speed       float64 `json:"speed"`
	Heading     float64 `json:"heading"`
	StationName *string `json:"station_name"`
	StationLat  *string `json:"station_lat"`
	StationLon  *string `json:"station_lon"`
}

// DecodeAsdJSON parses one ASD point record into a DronePoint.
func DecodeAsdJSON(data []byte) (core.DronePoint, error) {
	var a Asd
	if err := json.Unmarshal(data, &a); err != nil {
		return core.DronePoint{}, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}

	lat, err := strconv.ParseFloat(a.Latitude, 64)
	if err != nil {
		return core.DronePoint{}, fmt.Errorf("%w: latitude: %v", core.ErrBadPacketData, err)
	}
	lon, err := strconv.ParseFloat(a.Longitude, 64)
	if err != nil {
		return core.DronePoint{}, fmt.Errorf("%w: longitude: %v", core.ErrBadPacketData, err)
	}

	ts, err := time.Parse("2006-01-02 15:04:05", a.Timestamp)
	if err != nil {
		return core.DronePoint{}, fmt.Errorf("%w: timestamp: %v", core.ErrBadPacketData, err)
	}

	p := core.DronePoint{
		Time:        ts,
		Journey:     strconv.FormatUint(uint64(a.Journey), 10),
		DroneID:     a.Ident,
		Model:       a.Model,
		Source:      a.Source,
		Location:    strconv.FormatUint(uint64(a.Location), 10),
		Lat:         lat,
		Lon:         lon,
		Speed:       a.Speed,
		Heading:     a.Heading,
		StationName: a.StationName,
	}
	if a.Altitude != nil {
		v := float64(*a.Altitude)
		p.Altitude = &v
	}
	if a.Elevation != nil {
		v := float64(*a.Elevation)
		p.Elevation = &v
	}
	p.HomeHeight = a.HomeHeight
	if a.HomeLat != nil {
		if v, err := strconv.ParseFloat(*a.HomeLat, 64); err == nil {
			p.HomeLat = &v
		}
	}
	if a.HomeLon != nil {
		if v, err := strconv.ParseFloat(*a.HomeLon, 64); err == nil {
			p.HomeLon = &v
		}
	}
	if a.StationLat != nil {
		if v, err := strconv.ParseFloat(*a.StationLat, 64); err == nil {
			p.StationLat = &v
		}
	}
	if a.StationLon != nil {
		if v, err := strconv.ParseFloat(*a.StationLon, 64); err == nil {
			p.StationLon = &v
		}
	}
	return p, nil
}
