// Package engine implements the multi-stage fuzzy matching pipeline:
// normalization of join keys, blocking by postal code and exact coordinates,
// similarity scoring within blocks, and claim bookkeeping that guarantees a
// target row is matched at most once across stages.
package engine

import (
	"time"

	"github.com/locmatch/internal/dataset"
)

// Stage tags recorded on match rows.
const (
	StageLatLong    = "lat-long"
	StageAddressZip = "address-zip"
)

// Default stage thresholds on the scorer's [0,100] ratio scale, and the
// default coordinate rounding precision in decimal places.
const (
	DefaultNameThreshold    = 80
	DefaultAddressThreshold = 85
	DefaultLatLongTolerance = 3
)

// Options configures one match run. Reference and Target map logical roles
// onto each dataset's column names; the coordinate stage runs only when both
// schemas carry a coordinate pair, the address stage only when both carry an
// address column.
type Options struct {
	Reference dataset.Schema
	Target    dataset.Schema

	// NameThreshold is the scorer cutoff for the coordinate-exact name
	// stage, AddressThreshold for the name+address fallback stage.
	NameThreshold    int
	AddressThreshold int

	// LatLongTolerance is the coordinate rounding precision in decimal
	// places. The name is kept from the original configuration surface;
	// the behavior is rounding, not distance tolerance.
	LatLongTolerance int

	// KeepAll controls output filtering: true returns every target row
	// annotated with match columns, false only rows that were claimed.
	KeepAll bool
}

// withDefaults fills unset thresholds.
func (o Options) withDefaults() Options {
	if o.NameThreshold == 0 {
		o.NameThreshold = DefaultNameThreshold
	}
	if o.AddressThreshold == 0 {
		o.AddressThreshold = DefaultAddressThreshold
	}
	return o
}

// Match is one claimed target row: which reference record won, at what score,
// in which stage, and the reference text that scored best.
type Match struct {
	TargetRow   int
	BestMatch   string
	Score       int
	ReferenceID string
	Stage       string
}

// Stats summarizes a completed run.
type Stats struct {
	ReferenceRows int
	TargetRows    int
	Matched       int
	LatLong       int
	AddressZip    int
	Elapsed       time.Duration
}

// Result carries everything a run produced: the per-row claims in target row
// order, the assembled output table and the run summary.
type Result struct {
	RunID   string
	Matches []Match
	Output  *dataset.Dataset
	Stats   Stats
}
