// Package codec turns the wire payload of each supported vendor into the
// canonical core.Cat21 / core.DronePoint records the rest of the engine
// operates on. Every decoder here is a pure function: raw bytes in, a
// canonical record (or an error) out. None of them touch the network,
// a file or the clock beyond what the payload itself carries.
package codec

// toFeet converts a geometric/barometric altitude given in meters to feet,
// the unit Cat21 carries it in.
func toFeet(meters float64) float64 {
	return meters * 3.28084
}

// toKnots converts a ground speed given in meters/second to knots.
func toKnots(metersPerSecond float64) float64 {
	return metersPerSecond * 1.94384
}
