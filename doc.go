/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package delegationbench benchmarks two protocols for transitive delegation
// of authority with verifiable credentials.
//
// Packages for end developer usage
//
// pkg/doc/delegation: Scoped, chained delegation credentials; the shared
// issue/assemble/verify engine and the compact presentation token codec.
// The proposed subpackage binds each credential to its parent with a proof
// digest (hash chain, constant-size credentials); the pjv subpackage re-signs
// the accumulated ancestor claim sets at each hop (baseline, linear growth).
//
// pkg/bench: The benchmark harness. Runs the issue, assemble, encode and
// verify pipeline per trial and reports issuance latency, assembly latency,
// verification latency and encoded presentation length per variant.
//
// Basic workflow
//
//	1) Build a bench.Config (defaults, YAML file, BENCH_* env, flags).
//	2) Create a runner with bench.NewRunner and call Run.
//	3) Write results with bench.WriteCSV and bench.WriteSummary,
//	   or run the delegation-bench CLI which does all of the above.
package delegationbench
