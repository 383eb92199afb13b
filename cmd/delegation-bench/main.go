/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main (delegation-bench) runs the transitive delegation protocol
// benchmark and reports per-metric measurements.
package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/vc-delegation-bench/cmd/delegation-bench/startcmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "delegation-bench",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	logger := log.New("delegation-bench/main")

	rootCmd.AddCommand(startcmd.Cmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run delegation-bench: %s", err)
	}
}
