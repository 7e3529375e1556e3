package engine

import (
	"strconv"

	"github.com/locmatch/internal/dataset"
)

// Match annotation columns appended to the target table on output.
const (
	ColMatched   = "is_matched"
	ColBestMatch = "best_match"
	ColScore     = "match_score"
	ColRefID     = "ref_id"
	ColStage     = "match_type"
)

// assemble left-joins the claim table onto the full target dataset by row
// index: every target row appears exactly once, annotated with its match
// columns, blank where unmatched. With KeepAll unset only claimed rows are
// kept.
func (m *Matcher) assemble() *dataset.Dataset {
	columns := make([]string, 0, len(m.tgt.Columns)+5)
	columns = append(columns, m.tgt.Columns...)
	columns = append(columns, ColMatched, ColBestMatch, ColScore, ColRefID, ColStage)

	var rows []map[string]string
	for i := 0; i < m.tgt.Len(); i++ {
		mt, ok := m.matches[i]
		if !ok && !m.opts.KeepAll {
			continue
		}

		row := make(map[string]string, len(columns))
		for _, c := range m.tgt.Columns {
			row[c] = m.tgt.Cell(i, c)
		}
		if ok {
			row[ColMatched] = "true"
			row[ColBestMatch] = mt.BestMatch
			row[ColScore] = strconv.Itoa(mt.Score)
			row[ColRefID] = mt.ReferenceID
			row[ColStage] = mt.Stage
		} else {
			row[ColMatched] = "false"
			row[ColBestMatch] = ""
			row[ColScore] = ""
			row[ColRefID] = ""
			row[ColStage] = ""
		}
		rows = append(rows, row)
	}

	return dataset.New(m.tgt.Name+"_matched", columns, rows)
}
