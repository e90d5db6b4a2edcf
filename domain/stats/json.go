package stats

import (
	"encoding/json"
	"math"
)

// NaN is a legal value for StdDev (n=1) and PercentDifference (zero
// baseline), but encoding/json refuses to encode it. These marshalers map
// NaN to null so results always serialize.

func (s DescriptiveSummary) MarshalJSON() ([]byte, error) {
	type alias DescriptiveSummary
	return json.Marshal(struct {
		alias
		StdDev *float64 `json:"std_dev"`
	}{alias(s), nullIfNaN(s.StdDev)})
}

func (r ComparisonResult) MarshalJSON() ([]byte, error) {
	type alias ComparisonResult
	return json.Marshal(struct {
		alias
		PercentDifference *float64 `json:"percent_difference"`
	}{alias(r), nullIfNaN(r.PercentDifference)})
}

func nullIfNaN(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
