package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAeroscopeCSV(t *testing.T) {
	row := []string{
		"AS-1", "50.90", "4.48", "120", "45", "50.901", "4.484", "200",
		"drone-1", "quad", "flight-1", "50.80", "4.40", "50.85", "4.42",
		"2026-07-29 10:00:00", "12.5",
	}
	c, err := DecodeAeroscopeCSV(row)
	require.NoError(t, err)
	assert.Equal(t, "drone-1", c.AircraftAddr)
	assert.Equal(t, "flight-1", c.Callsign)
	assert.InDelta(t, 50.901, c.Latitude, 1e-9)
	assert.InDelta(t, 4.484, c.Longitude, 1e-9)
	assert.False(t, c.TimeOfDay.IsZero())
}

func TestDecodeAeroscopeCSVShortRow(t *testing.T) {
	_, err := DecodeAeroscopeCSV([]string{"a", "b"})
	require.Error(t, err)
}

func TestDecodeOpenskyJSON(t *testing.T) {
	payload := []byte(`{
		"time": 1700000000,
		"states": [
			["abc123", "SAB123 ", null, 1700000000, 1700000001, 4.484, 50.901, null, false, 62.0, 270.0, null, null, 1200.0, null, null, 0, null, 0, null, false, 0],
			["def456", "NOPOS  ", null, null, 1700000001, 4.0, 50.0, null, false, 0, 0, null, null, 0, null, null, 0, null, 0, null, false, 0]
		]
	}`)
	recs, err := DecodeOpenskyJSON(payload)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "abc123", recs[0].AircraftAddr)
	assert.Equal(t, 8, recs[0].SAC)
	assert.Equal(t, 200, recs[0].SIC)
}

func TestDecodeSafeskyJSON(t *testing.T) {
	payload := []byte(`{
		"last_update": "2026-07-29T10:00:00Z",
		"id": "beacon-1",
		"source": "safesky",
		"transponder_type": "ADS-BI",
		"aircraft_type": "glider",
		"latitude": 50.9,
		"longitude": 4.4,
		"altitude": 3000,
		"course": 90,
		"ground_speed": 80,
		"status": "AIRBORNE",
		"call_sign": "OO-ABC"
	}`)
	c, err := DecodeSafeskyJSON(payload)
	require.NoError(t, err)
	assert.Equal(t, "OO-ABC", c.Callsign)
	assert.False(t, c.OnGround)
}

func TestDecodeAvionixJSON(t *testing.T) {
	line := []byte(`{"UTI":1700000000000,"DAT":"2023-11-14 22:13:20","SIC":1,"SAC":2,"HEX":"4B1234","FLI":"BEL123","LAT":50.9,"LON":4.4,"GDA":"A","SRC":"A","ALT":30000,"SPD":450,"TRK":270,"CAT":"A3","SQU":"1000","VRT":0}`)
	c, err := DecodeAvionixJSON(line)
	require.NoError(t, err)
	assert.Equal(t, "4B1234", c.AircraftAddr)
	assert.Equal(t, "BEL123", c.Callsign)
	assert.False(t, c.OnGround)
}

func TestDecodeFlightawareJSON(t *testing.T) {
	line := []byte(`{"ident":"BAW123","hexid":"400123","lat":"51.5","lon":"-0.1","alt":"350","gs":"420","heading":"090","clock":"1700000000","air_ground":"A"}`)
	c, err := DecodeFlightawareJSON(line)
	require.NoError(t, err)
	assert.Equal(t, "BAW123", c.Callsign)
	assert.Equal(t, float64(35000), c.AltGeoFt)
}

func TestDecodeAsdJSON(t *testing.T) {
	payload := []byte(`{
		"journey": 42,
		"ident": "drone-7",
		"model": "DJI Mavic 3",
		"source": "asd",
		"location": 1,
		"timestamp": "2026-07-29 10:00:00",
		"latitude": "50.901000",
		"longitude": "4.484000",
		"altitude": 120,
		"elevation": 35,
		"home_lat": "50.900000",
		"home_lon": "4.480000",
		"home_height": 30,
		"speed": 12.5,
		"heading": 180,
		"station_name": "station-1",
		"station_lat": "50.902000",
		"station_lon": "4.485000"
	}`)
	p, err := DecodeAsdJSON(payload)
	require.NoError(t, err)
	assert.Equal(t, "drone-7", p.DroneID)
	assert.Equal(t, "42", p.Journey)
	require.NotNil(t, p.Model)
	assert.Equal(t, "DJI Mavic 3", *p.Model)
	require.NotNil(t, p.HomeLat)
	assert.InDelta(t, 50.9, *p.HomeLat, 1e-6)
}

func TestDecodeAsdJSONMinimal(t *testing.T) {
	payload := []byte(`{
		"journey": 1,
		"ident": "drone-1",
		"source": "asd",
		"location": 1,
		"timestamp": "2026-07-29 10:00:00",
		"latitude": "1.0",
		"longitude": "2.0",
		"speed": 0,
		"heading": 0
	}`)
	p, err := DecodeAsdJSON(payload)
	require.NoError(t, err)
	assert.Nil(t, p.Model)
	assert.Nil(t, p.Altitude)
	assert.Nil(t, p.HomeLat)
}

func TestDecodeSenhiveJSON(t *testing.T) {
	payload := []byte(`{
		"trackId": "track-1",
		"journeyId": "journey-9",
		"timestamp": "2026-07-29T10:00:00Z",
		"coordinates": {"lon": 4.484, "lat": 50.901},
		"altitude": {"agl": 50, "amsl": 150, "geodetic": 145},
		"speed": 10,
		"heading": 200,
		"sensorName": "sensor-1"
	}`)
	p, err := DecodeSenhiveJSON(payload)
	require.NoError(t, err)
	assert.Equal(t, "track-1", p.DroneID)
	assert.Equal(t, "journey-9", p.Journey)
	require.NotNil(t, p.Altitude)
	assert.InDelta(t, 145, *p.Altitude, 1e-9)
	require.NotNil(t, p.StationName)
	assert.Equal(t, "sensor-1", *p.StationName)
}
