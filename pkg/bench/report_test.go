/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bench

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []VariantRun {
	return []VariantRun{
		{
			Variant: VariantProposed,
			Trials: []TrialResult{
				{Variant: VariantProposed, Trial: 0, Issue: 10 * time.Microsecond,
					Assemble: 20 * time.Microsecond, Verify: 30 * time.Microsecond, TokenBytes: 400},
				{Variant: VariantProposed, Trial: 1, Err: errors.New("boom")},
			},
		},
		{
			Variant: VariantPJV,
			Trials: []TrialResult{
				{Variant: VariantPJV, Trial: 0, Issue: 15 * time.Microsecond,
					Assemble: 25 * time.Microsecond, Verify: 35 * time.Microsecond, TokenBytes: 900},
				{Variant: VariantPJV, Trial: 1, Issue: 16 * time.Microsecond,
					Assemble: 26 * time.Microsecond, Verify: 36 * time.Microsecond, TokenBytes: 910},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteCSV(dir, sampleRuns()))

	for _, file := range []string{"vc_issuance.csv", "vp_issuance.csv", "vp_verification.csv", "vp_length.csv"} {
		require.FileExists(t, filepath.Join(dir, file))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "vp_length.csv"))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"proposed", "pjv"},
		{"400", "900"},
		{"", "910"}, // failed trial leaves its cell empty
	}, records)
}

func TestWriteCSVIssuanceUnits(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteCSV(dir, sampleRuns()))

	raw, err := os.ReadFile(filepath.Join(dir, "vc_issuance.csv"))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)

	// Durations are reported in microseconds.
	require.Equal(t, "10", records[1][0])
	require.Equal(t, "15", records[1][1])
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleRuns()))

	out := buf.String()
	require.Contains(t, out, "variant")
	require.Contains(t, out, "proposed")
	require.Contains(t, out, "pjv")
	require.Contains(t, out, "vp length")
	require.Contains(t, out, "vp verification")
}
