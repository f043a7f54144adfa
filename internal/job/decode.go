package job

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/fetiche/engine/internal/codec"
	"github.com/fetiche/engine/internal/core"
)

// decodeVendorToCanonicalJSON turns one raw vendor payload into zero or
// more canonical-record JSON payloads, per SPEC_FULL.md's vendor mapping.
// Most vendors are one-payload-in, one-record-out; opensky's states
// endpoint returns a whole batch in a single call, so it is the only
// format that can return more than one element (or, when every state has a
// null time_position, zero — counted by the caller as Empty, not Err).
// A payload already in a canonical format passes through unchanged.
func decodeVendorToCanonicalJSON(format core.Format, raw []byte) ([][]byte, error) {
	switch format {
	case core.FormatAeroscope:
		cr := csv.NewReader(bytes.NewReader(raw))
		cr.FieldsPerRecord = -1
		record, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: aeroscope: %v", core.ErrBadPacketData, err)
		}
		c, err := codec.DecodeAeroscopeCSV(record)
		if err != nil {
			return nil, err
		}
		b, err := core.EncodeCat21JSON(c)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil

	case core.FormatOpensky:
		cats, err := codec.DecodeOpenskyJSON(raw)
		if err != nil {
			return nil, err
		}
		out := make([][]byte, 0, len(cats))
		for _, c := range cats {
			b, err := core.EncodeCat21JSON(c)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		return out, nil

	case core.FormatSafesky:
		c, err := codec.DecodeSafeskyJSON(raw)
		if err != nil {
			return nil, err
		}
		b, err := core.EncodeCat21JSON(c)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil

	case core.FormatAvionix:
		c, err := codec.DecodeAvionixJSON(raw)
		if err != nil {
			return nil, err
		}
		b, err := core.EncodeCat21JSON(c)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil

	case core.FormatFlightaware:
		c, err := codec.DecodeFlightawareJSON(raw)
		if err != nil {
			return nil, err
		}
		b, err := core.EncodeCat21JSON(c)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil

	case core.FormatAsd:
		d, err := codec.DecodeAsdJSON(raw)
		if err != nil {
			return nil, err
		}
		b, err := core.EncodeDronePointJSON(d)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil

	case core.FormatSenhive:
		d, err := codec.DecodeSenhiveJSON(raw)
		if err != nil {
			return nil, err
		}
		b, err := core.EncodeDronePointJSON(d)
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil

	case core.FormatCat21, core.FormatDronePoint:
		return [][]byte{raw}, nil

	default:
		return nil, fmt.Errorf("job: unknown vendor format %q", format)
	}
}
