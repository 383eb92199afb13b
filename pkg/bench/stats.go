/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bench

import (
	"math"
	"sort"
)

// Summary aggregates the successful samples of one metric. Failures counts
// the trials that produced no sample for this metric.
type Summary struct {
	Count    int
	Failures int
	Mean     float64
	Min      float64
	Max      float64
	P50      float64
	P95      float64
	P99      float64
}

// Summarize computes a summary over raw samples. Failures is carried through
// untouched so reports can show how many trials never reached this metric.
func Summarize(samples []float64, failures int) Summary {
	s := Summary{Count: len(samples), Failures: failures}

	if len(samples) == 0 {
		return s
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	s.Mean = sum / float64(len(sorted))
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P50 = percentile(sorted, 50)
	s.P95 = percentile(sorted, 95)
	s.P99 = percentile(sorted, 99)

	return s
}

// percentile returns the p-th percentile of sorted samples using the
// nearest-rank method.
func percentile(sorted []float64, p float64) float64 {
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))

	if rank < 1 {
		rank = 1
	}

	if rank > len(sorted) {
		rank = len(sorted)
	}

	return sorted[rank-1]
}
