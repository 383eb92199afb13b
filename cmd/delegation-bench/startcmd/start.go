/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package startcmd builds the command that runs the benchmark.
package startcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-framework-go/component/log"
	spilog "github.com/hyperledger/aries-framework-go/spi/log"

	"github.com/hyperledger/vc-delegation-bench/pkg/bench"
)

const (
	configFlagName  = "config"
	configFlagUsage = "Path to a YAML config file. Flags and BENCH_* environment variables override it."

	variantFlagName  = "variant"
	variantFlagUsage = "Protocol variant to benchmark. Possible values [proposed] [pjv] [both]."

	depthFlagName  = "depth"
	depthFlagUsage = "Delegation chain length, root credential included."

	trialsFlagName  = "trials"
	trialsFlagUsage = "Number of measured pipeline runs per variant."

	actionsFlagName  = "actions"
	actionsFlagUsage = "Number of permission atoms in the root scope."

	retainFlagName  = "retain-per-hop"
	retainFlagUsage = "Permission atoms each hop drops from its parent's scope."

	workersFlagName  = "workers"
	workersFlagUsage = "Concurrent trial workers per variant."

	validityFlagName  = "validity"
	validityFlagUsage = "Credential validity window, e.g. 1h or 30m."

	mnemonicFlagName  = "mnemonic"
	mnemonicFlagUsage = "BIP-39 mnemonic for deterministic key material. Random keys if unset."

	outDirFlagName  = "out-dir"
	outDirFlagUsage = "Directory receiving one CSV file per metric. Console summary only if unset."

	logLevelFlagName  = "log-level"
	logLevelFlagUsage = "Log level. Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL]. Defaults to INFO."
)

var logger = log.New("delegation-bench/startcmd")

// Cmd returns the start command.
func Cmd() *cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run the delegation protocol benchmark",
		Long:  "Run the issue, assemble, encode and verify pipeline for the selected protocol variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := cmd.Flags().GetString(logLevelFlagName)
			if err != nil {
				return err
			}

			if err := setLogLevel(logLevel); err != nil {
				return err
			}

			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}

			return runBench(cmd, cfg)
		},
	}

	createFlags(startCmd)

	return startCmd
}

func createFlags(cmd *cobra.Command) {
	defaults := bench.DefaultConfig()

	cmd.Flags().String(configFlagName, "", configFlagUsage)
	cmd.Flags().String(variantFlagName, defaults.Variant, variantFlagUsage)
	cmd.Flags().Int(depthFlagName, defaults.Depth, depthFlagUsage)
	cmd.Flags().Int(trialsFlagName, defaults.Trials, trialsFlagUsage)
	cmd.Flags().Int(actionsFlagName, defaults.Actions, actionsFlagUsage)
	cmd.Flags().Int(retainFlagName, defaults.RetainPerHop, retainFlagUsage)
	cmd.Flags().Int(workersFlagName, defaults.Workers, workersFlagUsage)
	cmd.Flags().Duration(validityFlagName, defaults.Validity, validityFlagUsage)
	cmd.Flags().String(mnemonicFlagName, "", mnemonicFlagUsage)
	cmd.Flags().String(outDirFlagName, "", outDirFlagUsage)
	cmd.Flags().String(logLevelFlagName, "", logLevelFlagUsage)
}

// buildConfig resolves the effective configuration, lowest precedence first:
// defaults, config file, BENCH_* environment variables, explicitly set flags.
func buildConfig(cmd *cobra.Command) (bench.Config, error) {
	configPath, err := cmd.Flags().GetString(configFlagName)
	if err != nil {
		return bench.Config{}, err
	}

	cfg, err := bench.LoadConfig(configPath)
	if err != nil {
		return bench.Config{}, err
	}

	if err := bench.ApplyEnv(&cfg, os.Environ()); err != nil {
		return bench.Config{}, err
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return bench.Config{}, err
	}

	return cfg, cfg.Validate()
}

//nolint:gocyclo // flat flag-by-flag overlay
func applyFlags(cmd *cobra.Command, cfg *bench.Config) error {
	flags := cmd.Flags()

	if flags.Changed(variantFlagName) {
		v, err := flags.GetString(variantFlagName)
		if err != nil {
			return err
		}

		cfg.Variant = v
	}

	if flags.Changed(depthFlagName) {
		v, err := flags.GetInt(depthFlagName)
		if err != nil {
			return err
		}

		cfg.Depth = v
	}

	if flags.Changed(trialsFlagName) {
		v, err := flags.GetInt(trialsFlagName)
		if err != nil {
			return err
		}

		cfg.Trials = v
	}

	if flags.Changed(actionsFlagName) {
		v, err := flags.GetInt(actionsFlagName)
		if err != nil {
			return err
		}

		cfg.Actions = v
	}

	if flags.Changed(retainFlagName) {
		v, err := flags.GetInt(retainFlagName)
		if err != nil {
			return err
		}

		cfg.RetainPerHop = v
	}

	if flags.Changed(workersFlagName) {
		v, err := flags.GetInt(workersFlagName)
		if err != nil {
			return err
		}

		cfg.Workers = v
	}

	if flags.Changed(validityFlagName) {
		v, err := flags.GetDuration(validityFlagName)
		if err != nil {
			return err
		}

		cfg.Validity = v
	}

	if flags.Changed(mnemonicFlagName) {
		v, err := flags.GetString(mnemonicFlagName)
		if err != nil {
			return err
		}

		cfg.Mnemonic = v
	}

	if flags.Changed(outDirFlagName) {
		v, err := flags.GetString(outDirFlagName)
		if err != nil {
			return err
		}

		cfg.OutDir = v
	}

	return nil
}

func runBench(cmd *cobra.Command, cfg bench.Config) error {
	runner, err := bench.NewRunner(cfg)
	if err != nil {
		return err
	}

	runs, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.OutDir != "" {
		if err := bench.WriteCSV(cfg.OutDir, runs); err != nil {
			return err
		}

		logger.Infof("wrote per-metric CSV files to %s", cfg.OutDir)
	}

	return bench.WriteSummary(cmd.OutOrStdout(), runs)
}

func setLogLevel(logLevel string) error {
	if logLevel == "" {
		log.SetLevel("", spilog.INFO)

		return nil
	}

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
	}

	log.SetLevel("", level)

	logger.Infof("logger level set to %s", logLevel)

	return nil
}
