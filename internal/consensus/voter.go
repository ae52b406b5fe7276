// Package consensus reduces several independently extracted Darwin Core
// records for the same specimen into one agreed record per field.
package consensus

import (
	"sort"

	"github.com/mikkohei13/mocodigi/internal/textmetric"
)

// Record is one model extraction: field name to optional value. The field
// set is whatever the extraction returned, not a fixed schema. A missing
// key and an explicit JSON null both mean the field was not answered.
type Record map[string]*string

// FieldConsensus is the winning value for one field and the fraction of
// records that agreed with it.
type FieldConsensus struct {
	Value     *string `json:"value" yaml:"value"`
	Agreement float64 `json:"agreement" yaml:"agreement"`
}

// Report maps each field name seen in any input record to its consensus.
type Report map[string]FieldConsensus

// Vote tallies the records field by field. Fields named in listFields are
// compared as unordered semicolon-separated sets (collector lists and the
// like); everything else compares null-aware with connector normalization.
//
// When at least two records agree, the shared value wins with agreement
// K/N. When no two records agree, the first record's value is reported with
// agreement 1/N — a marker for "no confident majority", not a best guess.
//
// Callers must pass at least one record.
func Vote(records []Record, listFields map[string]bool) Report {
	report := make(Report)
	for _, field := range fieldUnion(records) {
		values := make([]*string, len(records))
		for i, record := range records {
			values[i] = record[field]
		}
		report[field] = voteField(values, listFields[field])
	}
	return report
}

type valueGroup struct {
	value *string
	count int
	first int
}

func voteField(values []*string, listField bool) FieldConsensus {
	equal := textmetric.NullAwareEqual
	if listField {
		equal = textmetric.SemicolonSetEqual
	}

	// Greedy single-pass grouping in input order: each value joins the
	// first group it matches. The comparisons are equivalence relations,
	// but the pass order is part of the observable agreement ratios, so
	// keep it as is.
	var groups []*valueGroup
	for i, v := range values {
		placed := false
		for _, g := range groups {
			if equal(g.value, v) {
				g.count++
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, &valueGroup{value: v, count: 1, first: i})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].first < groups[j].first
	})

	n := float64(len(values))
	winner := groups[0]
	if winner.count >= 2 {
		return FieldConsensus{Value: winner.value, Agreement: float64(winner.count) / n}
	}
	return FieldConsensus{Value: values[0], Agreement: 1 / n}
}

func fieldUnion(records []Record) []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, record := range records {
		for field := range record {
			if _, ok := seen[field]; !ok {
				seen[field] = struct{}{}
				fields = append(fields, field)
			}
		}
	}
	sort.Strings(fields)
	return fields
}
