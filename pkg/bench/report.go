/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// metric maps one measured quantity to its CSV file and to the field of a
// trial result that carries it. sample reports ok=false for trials that never
// produced the quantity, typically failed ones.
type metric struct {
	name   string
	file   string
	unit   string
	sample func(TrialResult) (float64, bool)
}

func metrics() []metric {
	duration := func(pick func(TrialResult) int64) func(TrialResult) (float64, bool) {
		return func(t TrialResult) (float64, bool) {
			if t.Err != nil {
				return 0, false
			}

			return float64(pick(t)) / 1e3, true // nanoseconds to microseconds
		}
	}

	return []metric{
		{
			name:   "vc issuance",
			file:   "vc_issuance.csv",
			unit:   "us",
			sample: duration(func(t TrialResult) int64 { return int64(t.Issue) }),
		},
		{
			name:   "vp issuance",
			file:   "vp_issuance.csv",
			unit:   "us",
			sample: duration(func(t TrialResult) int64 { return int64(t.Assemble) }),
		},
		{
			name:   "vp verification",
			file:   "vp_verification.csv",
			unit:   "us",
			sample: duration(func(t TrialResult) int64 { return int64(t.Verify) }),
		},
		{
			name: "vp length",
			file: "vp_length.csv",
			unit: "bytes",
			sample: func(t TrialResult) (float64, bool) {
				if t.Err != nil {
					return 0, false
				}

				return float64(t.TokenBytes), true
			},
		},
	}
}

// WriteCSV writes one CSV file per metric into dir: a column per variant, a
// row per trial. Cells of failed trials are left empty so row indices stay
// aligned with trial indices across variants.
func WriteCSV(dir string, runs []VariantRun) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	for _, m := range metrics() {
		if err := writeMetricCSV(filepath.Join(dir, m.file), m, runs); err != nil {
			return errors.Wrapf(err, "write %s", m.file)
		}
	}

	return nil
}

func writeMetricCSV(path string, m metric, runs []VariantRun) error {
	f, err := os.Create(path) //nolint:gosec // output path is operator-supplied
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck,gosec

	w := csv.NewWriter(f)

	header := make([]string, len(runs))
	for i, run := range runs {
		header[i] = run.Variant
	}

	if err := w.Write(header); err != nil {
		return err
	}

	rows := 0
	for _, run := range runs {
		if len(run.Trials) > rows {
			rows = len(run.Trials)
		}
	}

	for row := 0; row < rows; row++ {
		record := make([]string, len(runs))

		for i, run := range runs {
			if row >= len(run.Trials) {
				continue
			}

			if v, ok := m.sample(run.Trials[row]); ok {
				record[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}

// WriteSummary prints an aligned per-variant, per-metric summary table.
func WriteSummary(out io.Writer, runs []VariantRun) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "variant\tmetric\tn\tfailed\tmean\tp50\tp95\tmax")

	for _, run := range runs {
		for _, m := range metrics() {
			var samples []float64

			failures := 0

			for _, t := range run.Trials {
				v, ok := m.sample(t)
				if !ok {
					failures++
					continue
				}

				samples = append(samples, v)
			}

			s := Summarize(samples, failures)

			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f %s\t%.1f %s\t%.1f %s\t%.1f %s\n",
				run.Variant, m.name, s.Count, s.Failures,
				s.Mean, m.unit, s.P50, m.unit, s.P95, m.unit, s.Max, m.unit)
		}
	}

	return w.Flush()
}
