/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Standard BIP-39 test vector mnemonic.
const testMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Depth = 3
	cfg.Trials = 4
	cfg.Actions = 6
	cfg.RetainPerHop = 1
	cfg.Workers = 2
	cfg.Validity = time.Minute
	cfg.Mnemonic = testMnemonic

	return cfg
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 0

	_, err := NewRunner(cfg)
	require.Error(t, err)
}

func TestRunBothVariants(t *testing.T) {
	runner, err := NewRunner(testConfig())
	require.NoError(t, err)

	runs, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)

	require.Equal(t, VariantProposed, runs[0].Variant)
	require.Equal(t, VariantPJV, runs[1].Variant)

	for _, run := range runs {
		require.Len(t, run.Trials, 4)

		for i, trial := range run.Trials {
			require.NoError(t, trial.Err)
			require.Equal(t, i, trial.Trial)
			require.Positive(t, trial.Issue)
			require.Positive(t, trial.Assemble)
			require.Positive(t, trial.Verify)
			require.Positive(t, trial.TokenBytes)
		}
	}

	t.Run("bundle variant produces longer tokens", func(t *testing.T) {
		require.Greater(t, runs[1].Trials[0].TokenBytes, runs[0].Trials[0].TokenBytes)
	})

	t.Run("deterministic keys give deterministic token length", func(t *testing.T) {
		rerun, err := runner.Run(context.Background())
		require.NoError(t, err)

		require.Equal(t, runs[0].Trials[0].TokenBytes, rerun[0].Trials[0].TokenBytes)
	})
}

func TestRunSingleVariant(t *testing.T) {
	cfg := testConfig()
	cfg.Variant = VariantPJV

	runner, err := NewRunner(cfg)
	require.NoError(t, err)

	runs, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, VariantPJV, runs[0].Variant)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner, err := NewRunner(testConfig())
	require.NoError(t, err)

	_, err = runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHopActions(t *testing.T) {
	runner, err := NewRunner(testConfig())
	require.NoError(t, err)

	require.Len(t, runner.hopActions(0), 6)
	require.Len(t, runner.hopActions(1), 5)
	require.Len(t, runner.hopActions(2), 4)
}
