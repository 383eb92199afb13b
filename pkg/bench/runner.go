/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bench drives the delegation protocol variants through the full
// issue, assemble, encode and verify pipeline and collects per-trial
// measurements.
package bench

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation"
	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation/pjv"
	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation/proposed"
)

var logger = log.New("delegation-bench/runner")

// TrialResult holds the measurements of one pipeline run. A trial that fails
// at any stage carries the error and zero values for the unreached stages;
// failed trials are reported, never silently dropped.
type TrialResult struct {
	Variant    string
	Trial      int
	Issue      time.Duration
	Assemble   time.Duration
	Verify     time.Duration
	TokenBytes int
	Err        error
}

// VariantRun is the full set of trial results for one protocol variant,
// ordered by trial index.
type VariantRun struct {
	Variant string
	Trials  []TrialResult
}

// Runner executes benchmark trials for the configured variants.
type Runner struct {
	cfg Config
}

// NewRunner builds a runner for a validated configuration.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Runner{cfg: cfg}, nil
}

// Run executes all trials for every selected variant and returns one
// VariantRun per variant, in selection order.
func (r *Runner) Run(ctx context.Context) ([]VariantRun, error) {
	protocols, err := protocolsFor(r.cfg.Variant)
	if err != nil {
		return nil, err
	}

	runs := make([]VariantRun, 0, len(protocols))

	for _, proto := range protocols {
		logger.Infof("running %d trials of variant %q at depth %d with %d workers",
			r.cfg.Trials, proto.Name(), r.cfg.Depth, r.cfg.Workers)

		run, err := r.runVariant(ctx, proto)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", proto.Name())
		}

		runs = append(runs, run)
	}

	return runs, nil
}

func protocolsFor(variant string) ([]delegation.Protocol, error) {
	switch variant {
	case VariantProposed:
		return []delegation.Protocol{proposed.New()}, nil
	case VariantPJV:
		return []delegation.Protocol{pjv.New()}, nil
	case VariantBoth:
		return []delegation.Protocol{proposed.New(), pjv.New()}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}

func (r *Runner) runVariant(ctx context.Context, proto delegation.Protocol) (VariantRun, error) {
	jobs := make(chan int)
	results := make(chan TrialResult)

	var wg sync.WaitGroup

	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for trial := range jobs {
				results <- r.runTrial(proto, trial)
			}
		}()
	}

	go func() {
		defer close(jobs)

		for trial := 0; trial < r.cfg.Trials; trial++ {
			if ctx.Err() != nil {
				return
			}

			select {
			case jobs <- trial:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	trials := make([]TrialResult, 0, r.cfg.Trials)

	for res := range results {
		if res.Err != nil {
			logger.Warnf("trial %d of variant %q failed: %v", res.Trial, res.Variant, res.Err)
		}

		trials = append(trials, res)
	}

	if err := ctx.Err(); err != nil {
		return VariantRun{}, err
	}

	sort.Slice(trials, func(i, j int) bool { return trials[i].Trial < trials[j].Trial })

	return VariantRun{Variant: proto.Name(), Trials: trials}, nil
}

// runTrial drives one full pipeline run: build the delegation chain, time the
// leaf issuance, assemble and encode the presentation, then decode and verify
// it against the trial's root.
func (r *Runner) runTrial(proto delegation.Protocol, trial int) TrialResult {
	res := TrialResult{Variant: proto.Name(), Trial: trial}

	keys, err := r.trialKeys(trial)
	if err != nil {
		res.Err = errors.Wrap(err, "build trial keys")

		return res
	}

	notAfter := time.Now().Add(r.cfg.Validity).UnixNano()

	chain := make([]*delegation.Credential, 0, r.cfg.Depth)

	var parent *delegation.Credential

	for hop := 0; hop < r.cfg.Depth; hop++ {
		scope := delegation.NewScope(r.hopActions(hop), r.cfg.Depth-hop, notAfter)

		start := time.Now()

		cred, err := proto.Issue(keys[hop], keys[hop+1].ID, scope, parent)

		elapsed := time.Since(start)

		if err != nil {
			res.Err = errors.Wrapf(err, "issue credential at hop %d", hop)

			return res
		}

		// The leaf issuance is the steady-state cost a delegator pays,
		// and the hop where the variants diverge most.
		if hop == r.cfg.Depth-1 {
			res.Issue = elapsed
		}

		chain = append(chain, cred)
		parent = cred
	}

	holder := keys[r.cfg.Depth]

	start := time.Now()

	pres, err := proto.Assemble(chain, holder)
	if err != nil {
		res.Err = errors.Wrap(err, "assemble presentation")

		return res
	}

	token, err := delegation.EncodePresentation(pres)
	if err != nil {
		res.Err = errors.Wrap(err, "encode presentation")

		return res
	}

	res.Assemble = time.Since(start)
	res.TokenBytes = len(token)

	roots := delegation.NewTrustedRoots(keys[0].ID)

	start = time.Now()

	decoded, err := delegation.DecodePresentation(token)
	if err != nil {
		res.Err = errors.Wrap(err, "decode presentation")

		return res
	}

	if _, err := proto.Verify(decoded, roots); err != nil {
		res.Err = errors.Wrap(err, "verify presentation")

		return res
	}

	res.Verify = time.Since(start)

	return res
}

// trialKeys returns the depth+1 party keypairs of a trial: the root issuer,
// one intermediate delegate per hop and the final holder. With a mnemonic
// configured the keys are derived deterministically per trial and party.
func (r *Runner) trialKeys(trial int) ([]*delegation.KeyPair, error) {
	keys := make([]*delegation.KeyPair, r.cfg.Depth+1)

	for party := range keys {
		var (
			kp  *delegation.KeyPair
			err error
		)

		if r.cfg.Mnemonic != "" {
			kp, err = delegation.DeriveKeyPair(r.cfg.Mnemonic, uint32(trial), uint32(party))
		} else {
			kp, err = delegation.GenerateKeyPair()
		}

		if err != nil {
			return nil, errors.Wrapf(err, "keypair for party %d", party)
		}

		keys[party] = kp
	}

	return keys, nil
}

// hopActions returns the action atoms granted at a hop. Hop zero holds the
// full set; each further hop drops RetainPerHop atoms from the tail,
// exercising scope narrowing down the chain.
func (r *Runner) hopActions(hop int) []string {
	count := r.cfg.Actions - hop*r.cfg.RetainPerHop

	actions := make([]string, count)
	for i := range actions {
		actions[i] = fmt.Sprintf("urn:bench:action:%03d", i)
	}

	return actions
}
