package analysis

import (
	"sort"

	"github.com/daryltucker/tree-trial/internal/model"
)

// DefaultBins is the histogram bin count used when none is configured.
const DefaultBins = 10

// Report is the derived view of a batch of records. It is recomputed on
// demand and never persisted.
type Report struct {
	Count                 int                  `json:"count"`
	Histogram             []Bin                `json:"histogram"`
	MeanTimeByDataset     map[string]float64   `json:"mean_time_by_dataset"`
	MeanTimeByParticipant map[string]float64   `json:"mean_time_by_participant"`
	TimesByParticipant    map[string][]float64 `json:"times_by_participant"`
}

// Aggregate builds the full report. It fails before computing anything if
// records is empty.
func Aggregate(records []model.ResultRecord, binCount int) (Report, error) {
	hist, err := Histogram(records, binCount)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Count:                 len(records),
		Histogram:             hist,
		MeanTimeByDataset:     MeanByKey(records, ByDataset),
		MeanTimeByParticipant: MeanByKey(records, ByParticipant),
		TimesByParticipant:    TimesByKey(records, ByParticipant),
	}, nil
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
