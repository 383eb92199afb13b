/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pjv implements the baseline delegation protocol of Vrielynck et
// al., "A Self Sovereign Identity Approach to Decentralized Access Control
// with Transitive Delegations" (https://dl.acm.org/doi/10.1145/3649158.3657045).
// The package name is the acronym of the first author, Pieter-Jan Vrielynck.
//
// Each hop re-signs the entire accumulated claim set: a credential's signed
// payload is the claim sets of all its ancestors plus its own, so both
// issuance cost and credential size grow linearly with chain depth. This is
// the principal source of the performance gap the benchmark measures.
package pjv

import (
	"encoding/json"
	"errors"

	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation"
)

// Name identifies the variant in benchmark reports.
const Name = "pjv"

type canonicalizer struct{}

// Canonicalizer returns the variant's canonical payload builder.
func Canonicalizer() delegation.Canonicalizer {
	return canonicalizer{}
}

func (canonicalizer) ParentRef(parent *delegation.Credential) (*delegation.ParentRef, error) {
	var ancestors []delegation.ClaimSet

	if parent.Parent != nil {
		if parent.Parent.Digest != "" {
			return nil, errors.New("malformed parent reference for bundle payload")
		}

		ancestors = parent.Parent.Bundle
	}

	bundle := make([]delegation.ClaimSet, 0, len(ancestors)+1)
	bundle = append(bundle, ancestors...)
	bundle = append(bundle, parent.Claims())

	return &delegation.ParentRef{Bundle: bundle}, nil
}

func (canonicalizer) SigningInput(claims delegation.ClaimSet, parent *delegation.ParentRef) ([]byte, error) {
	var bundle []delegation.ClaimSet

	if parent != nil {
		if parent.Digest != "" {
			return nil, errors.New("malformed parent reference for bundle payload")
		}

		bundle = parent.Bundle
	}

	accumulated := make([]delegation.ClaimSet, 0, len(bundle)+1)
	accumulated = append(accumulated, bundle...)
	accumulated = append(accumulated, claims)

	return json.Marshal(accumulated)
}

// Protocol is the re-signed-bundle variant's capability set.
type Protocol struct {
	issuer    *delegation.Issuer
	assembler *delegation.Assembler
	verifier  *delegation.Verifier
}

// New returns the baseline protocol variant.
func New() *Protocol {
	canon := Canonicalizer()

	return &Protocol{
		issuer:    delegation.NewIssuer(canon),
		assembler: delegation.NewAssembler(),
		verifier:  delegation.NewVerifier(canon),
	}
}

// Name implements delegation.Protocol.
func (p *Protocol) Name() string {
	return Name
}

// Issue implements delegation.Protocol.
func (p *Protocol) Issue(issuerKeys *delegation.KeyPair, subject string, scope delegation.Scope,
	parent *delegation.Credential) (*delegation.Credential, error) {
	return p.issuer.Issue(issuerKeys, subject, scope, parent)
}

// Assemble implements delegation.Protocol.
func (p *Protocol) Assemble(creds []*delegation.Credential,
	holder *delegation.KeyPair) (*delegation.Presentation, error) {
	return p.assembler.Assemble(creds, holder)
}

// Verify implements delegation.Protocol.
func (p *Protocol) Verify(pres *delegation.Presentation,
	roots delegation.TrustedRoots) (delegation.Scope, error) {
	return p.verifier.Verify(pres, roots)
}
