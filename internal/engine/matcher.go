package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/locmatch/internal/dataset"
	"github.com/locmatch/internal/normalize"
	"github.com/locmatch/internal/scorer"
)

// Matcher links a target dataset against a reference dataset. The claim table
// (one flag per target row) is the only mutable state shared between stages;
// groups are processed sequentially so later stages observe earlier claims.
type Matcher struct {
	ref  *dataset.Dataset
	tgt  *dataset.Dataset
	opts Options

	claimed    []bool
	matches    map[int]Match
	normalized bool
}

// New validates both schemas against their datasets and returns a matcher.
// Validation fails fast, before any data is touched.
func New(ref, tgt *dataset.Dataset, opts Options) (*Matcher, error) {
	opts = opts.withDefaults()
	if opts.LatLongTolerance < 0 {
		return nil, fmt.Errorf("lat/long tolerance must be >= 0, got %d", opts.LatLongTolerance)
	}
	if err := opts.Reference.Validate(ref, true); err != nil {
		return nil, err
	}
	if err := opts.Target.Validate(tgt, false); err != nil {
		return nil, err
	}
	return &Matcher{
		ref:     ref,
		tgt:     tgt,
		opts:    opts,
		claimed: make([]bool, tgt.Len()),
		matches: make(map[int]Match),
	}, nil
}

// coordStage reports whether the coordinate-exact stage can run.
func (m *Matcher) coordStage() bool {
	return m.opts.Reference.HasCoordinates() && m.opts.Target.HasCoordinates()
}

// addressStage reports whether the address fallback stage can run.
func (m *Matcher) addressStage() bool {
	return m.opts.Reference.HasAddress() && m.opts.Target.HasAddress()
}

// Process normalizes the join-key columns of both datasets in place: postal
// codes to fixed-width numeric strings, names and addresses to their
// punctuation-stripped lowercase form, coordinates rounded to the configured
// precision. Each column is rewritten exactly once per run; normalization is
// a fixed point, so a second call is a no-op.
func (m *Matcher) Process() error {
	if m.normalized {
		return nil
	}

	type task struct {
		d      *dataset.Dataset
		schema dataset.Schema
	}
	for _, t := range []task{{m.ref, m.opts.Reference}, {m.tgt, m.opts.Target}} {
		if err := t.d.Apply(t.schema.Zip, normalize.PostalCode); err != nil {
			return err
		}
		if err := t.d.Apply(t.schema.NameCol, normalize.Name); err != nil {
			return err
		}
		if t.schema.HasAddress() {
			if err := t.d.Apply(t.schema.Address, normalize.Address); err != nil {
				return err
			}
		}
	}

	if m.coordStage() {
		places := m.opts.LatLongTolerance
		round := func(lat, long string) (string, string) {
			return normalize.Coordinates(lat, long, places)
		}
		if err := m.ref.ApplyPair(m.opts.Reference.Lat, m.opts.Reference.Long, round); err != nil {
			return err
		}
		if err := m.tgt.ApplyPair(m.opts.Target.Lat, m.opts.Target.Long, round); err != nil {
			return err
		}
	}

	m.normalized = true
	log.Debug().
		Str("reference", m.ref.Name).
		Str("target", m.tgt.Name).
		Msg("normalization complete")
	return nil
}

// Match runs the full pipeline: normalization, the coordinate-exact stage
// over postal groups, the global address fallback stage, and result assembly.
func (m *Matcher) Match() (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	if err := m.Process(); err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", runID).
		Int("reference_rows", m.ref.Len()).
		Int("target_rows", m.tgt.Len()).
		Bool("coordinate_stage", m.coordStage()).
		Bool("address_stage", m.addressStage()).
		Msg("match run starting")

	m.runCoordinateStage()
	m.runAddressStage()

	matches := make([]Match, 0, len(m.matches))
	for _, mt := range m.matches {
		matches = append(matches, mt)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].TargetRow < matches[j].TargetRow })

	res := &Result{
		RunID:   runID,
		Matches: matches,
		Output:  m.assemble(),
		Stats:   m.stats(time.Since(start)),
	}

	log.Info().
		Str("run_id", runID).
		Int("matched", res.Stats.Matched).
		Int("lat_long", res.Stats.LatLong).
		Int("address_zip", res.Stats.AddressZip).
		Dur("elapsed", res.Stats.Elapsed).
		Msg("match run complete")
	return res, nil
}

// runCoordinateStage walks the reference postal groups in first-encounter
// order and, within each, the exact-coordinate sub-groups, scoring target
// names against reference names. Claims fire immediately, so later sub-groups
// in the same pass already see a reduced candidate pool.
func (m *Matcher) runCoordinateStage() {
	if !m.coordStage() {
		log.Debug().Msg("coordinate columns not configured on both sides, skipping lat-long stage")
		return
	}

	for _, pg := range m.postalGroups() {
		tgtZip := m.unclaimedTargets(map[string]string{m.opts.Target.Zip: pg.key})
		if len(tgtZip) == 0 {
			continue
		}

		for _, cg := range m.coordGroups(pg.rows) {
			lat, long, _ := strings.Cut(cg.key, ",")
			tgtRows := m.unclaimedTargets(map[string]string{
				m.opts.Target.Zip:  pg.key,
				m.opts.Target.Lat:  lat,
				m.opts.Target.Long: long,
			})
			if len(tgtRows) == 0 {
				continue
			}
			m.scoreGroup(cg.rows, tgtRows, m.nameKey, m.opts.NameThreshold, StageLatLong)
		}
	}
}

// runAddressStage scores every still-unclaimed target against the full
// reference set on the concatenated name+address key. It runs strictly after
// the coordinate stage so it observes the complete claim state.
func (m *Matcher) runAddressStage() {
	if !m.addressStage() {
		log.Debug().Msg("address columns not configured on both sides, skipping address-zip stage")
		return
	}

	tgtRows := m.unclaimedTargets(nil)
	if len(tgtRows) == 0 {
		return
	}
	m.scoreGroup(allRows(m.ref), tgtRows, m.concatKey, m.opts.AddressThreshold, StageAddressZip)
}

// nameKey returns the scoring key for the coordinate stage.
func (m *Matcher) nameKey(d *dataset.Dataset, s dataset.Schema, row int) string {
	return d.Cell(row, s.NameCol)
}

// concatKey returns the scoring key for the address stage: normalized name
// and address joined by a space, trimmed so a missing half degrades cleanly.
func (m *Matcher) concatKey(d *dataset.Dataset, s dataset.Schema, row int) string {
	return strings.TrimSpace(d.Cell(row, s.NameCol) + " " + d.Cell(row, s.Address))
}

// scoreGroup fuzzy-matches each eligible target row against the reference
// candidate texts and claims winners. A target with a blank key is excluded
// from scoring on that axis; the scorer is never invoked for it.
func (m *Matcher) scoreGroup(refRows, tgtRows []int, key func(*dataset.Dataset, dataset.Schema, int) string, threshold int, stage string) {
	candidates := make([]string, len(refRows))
	for i, r := range refRows {
		candidates[i] = key(m.ref, m.opts.Reference, r)
	}

	for _, t := range tgtRows {
		if m.claimed[t] {
			continue
		}
		query := key(m.tgt, m.opts.Target, t)
		best := scorer.BestMatch(query, candidates, threshold)
		if best == nil {
			continue
		}

		refRow := refRows[best.Index]
		m.claim(Match{
			TargetRow:   t,
			BestMatch:   best.Text,
			Score:       best.Score,
			ReferenceID: m.ref.Cell(refRow, m.opts.Reference.ID),
			Stage:       stage,
		})
	}
}

// claim transitions a target row from unmatched to matched. The transition is
// irreversible; the row drops out of every later candidate pool. A reference
// row stays claimable, so one reference may win several targets.
func (m *Matcher) claim(mt Match) {
	if m.claimed[mt.TargetRow] {
		return
	}
	m.claimed[mt.TargetRow] = true
	m.matches[mt.TargetRow] = mt
	log.Debug().
		Int("target_row", mt.TargetRow).
		Str("reference_id", mt.ReferenceID).
		Int("score", mt.Score).
		Str("stage", mt.Stage).
		Msg("target claimed")
}

func (m *Matcher) stats(elapsed time.Duration) Stats {
	s := Stats{
		ReferenceRows: m.ref.Len(),
		TargetRows:    m.tgt.Len(),
		Matched:       len(m.matches),
		Elapsed:       elapsed,
	}
	for _, mt := range m.matches {
		switch mt.Stage {
		case StageLatLong:
			s.LatLong++
		case StageAddressZip:
			s.AddressZip++
		}
	}
	return s
}
