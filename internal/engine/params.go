package engine

import (
	"github.com/locmatch/internal/dataset"
)

// Params is the flat configuration surface shared by the CLI and the HTTP
// API. Column names keep the 1/2 suffix convention: 1 is the reference
// dataset, 2 the target. Blank target columns fall back to their reference
// counterparts, so symmetric datasets only need one set of names.
type Params struct {
	IDCol1 string

	ZipCol1  string
	ZipCol2  string
	NameCol1 string
	NameCol2 string

	AddressCol1 string
	AddressCol2 string

	LatCol1  string
	LongCol1 string
	LatCol2  string
	LongCol2 string

	// Threshold, when set, overrides both stage thresholds. Left at zero
	// the stages use their own defaults (80 name, 85 address).
	Threshold int

	LatLongTolerance int
	KeepAll          bool
}

// Options expands the flat parameters into engine options.
func (p Params) Options() Options {
	o := Options{
		Reference: dataset.Schema{
			ID:      p.IDCol1,
			Zip:     p.ZipCol1,
			NameCol: p.NameCol1,
			Address: p.AddressCol1,
			Lat:     p.LatCol1,
			Long:    p.LongCol1,
		},
		Target: dataset.Schema{
			Zip:     fallback(p.ZipCol2, p.ZipCol1),
			NameCol: fallback(p.NameCol2, p.NameCol1),
			Address: fallback(p.AddressCol2, p.AddressCol1),
			Lat:     fallback(p.LatCol2, p.LatCol1),
			Long:    fallback(p.LongCol2, p.LongCol1),
		},
		LatLongTolerance: p.LatLongTolerance,
		KeepAll:          p.KeepAll,
	}
	if p.Threshold > 0 {
		o.NameThreshold = p.Threshold
		o.AddressThreshold = p.Threshold
	}
	return o
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
