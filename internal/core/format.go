package core

// Format names the wire/decode format a Site speaks.
type Format string

const (
	FormatAeroscope   Format = "aeroscope"
	FormatAsd         Format = "asd"
	FormatAvionix     Format = "avionix"
	FormatFlightaware Format = "flightaware"
	FormatOpensky     Format = "opensky"
	FormatSafesky     Format = "safesky"
	FormatSenhive     Format = "senhive"
	FormatCat21       Format = "cat21"
	FormatDronePoint  Format = "dronepoint"
)
