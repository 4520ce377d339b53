/*
PURPOSE:
  Aggregator. Turns a batch of result records into the statistics the
  analysis view renders: a time histogram and grouped mean times.

REQUIREMENTS:
  User-specified:
  - Histogram with a configurable number of equal-width bins over [min, max].
  - Mean time per dataset and per participant.
  - Refuse empty input instead of producing a partial report.

  Implementation-discovered:
  - Equal min and max would give zero-width bins. The range is widened to
    [v-0.5, v+0.5], the same padding numpy applies, so the old analysis
    window and this one agree. Above 5e5 seconds the padding grows
    with the value, since 0.5 vanishes in float64 near 1e16.
  - Bins are right-open except the last, which also holds the maximum.
    Bin indices are corrected against the computed edges so values sitting
    on an edge never drift into the lower bin through rounding.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (analyze), internal/output (CSV summary)
  - Consumes: internal/model.ResultRecord

ERROR HANDLING:
  - ErrEmptyInput before any work; ErrInvalidBinCount for n < 1.

IMPLEMENTATION RULES:
  - Pure functions, no logging, safe for concurrent use on separate inputs.

USAGE:
  bins, err := analysis.Histogram(records, 10)
  means := analysis.MeanByKey(records, analysis.ByDataset)

RELATED FILES:
  - internal/analysis/report.go
*/

package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/daryltucker/tree-trial/internal/model"
)

var (
	ErrEmptyInput      = errors.New("no result records to aggregate")
	ErrInvalidBinCount = errors.New("bin count must be at least 1")
)

// DegeneratePadding widens a zero-width histogram range on each side.
// Values too large for it to change are padded by RelativePadding of
// their magnitude instead, rounded up to a power of two so the edges
// around the value stay exact.
const (
	DegeneratePadding = 0.5
	RelativePadding   = 1e-6
)

// Bin is one histogram bucket covering [LowerBound, UpperBound).
type Bin struct {
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Count      int     `json:"count"`
}

// KeyFunc selects the grouping key of a record.
type KeyFunc func(model.ResultRecord) string

// ByDataset groups records by dataset.
func ByDataset(r model.ResultRecord) string { return r.Dataset }

// ByParticipant groups records by participant.
func ByParticipant(r model.ResultRecord) string { return r.Participant }

// Histogram counts record times into binCount equal-width bins.
func Histogram(records []model.ResultRecord, binCount int) ([]Bin, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	if binCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBinCount, binCount)
	}

	lo, hi := records[0].Time, records[0].Time
	for _, r := range records {
		if math.IsNaN(r.Time) || math.IsInf(r.Time, 0) {
			return nil, fmt.Errorf("record for %q has non-finite time", r.Participant)
		}
		lo = math.Min(lo, r.Time)
		hi = math.Max(hi, r.Time)
	}
	if lo == hi {
		pad := DegeneratePadding
		if rel := math.Abs(lo) * RelativePadding; rel > pad {
			pad = math.Exp2(math.Ceil(math.Log2(rel)))
		}
		lo -= pad
		hi += pad
	}

	edges := make([]float64, binCount+1)
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(binCount)
	}
	edges[binCount] = hi

	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i] = Bin{LowerBound: edges[i], UpperBound: edges[i+1]}
	}

	for _, r := range records {
		bins[binIndex(r.Time, lo, hi, edges)].Count++
	}
	return bins, nil
}

func binIndex(v, lo, hi float64, edges []float64) int {
	n := len(edges) - 1
	idx := int((v - lo) / (hi - lo) * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	if idx > 0 && v < edges[idx] {
		idx--
	}
	if idx < n-1 && v >= edges[idx+1] {
		idx++
	}
	return idx
}

// MeanByKey returns the mean time of the records sharing each key.
func MeanByKey(records []model.ResultRecord, key KeyFunc) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		k := key(r)
		sums[k] += r.Time
		counts[k]++
	}

	means := make(map[string]float64, len(sums))
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means
}

// TimesByKey returns each key's times in record order.
func TimesByKey(records []model.ResultRecord, key KeyFunc) map[string][]float64 {
	series := make(map[string][]float64)
	for _, r := range records {
		k := key(r)
		series[k] = append(series[k], r.Time)
	}
	return series
}
