/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proposed implements the hash-chain delegation protocol variant.
//
// Each credential's signed payload embeds a digest of its parent's proof,
// forming a hash chain independent of presentation order: tampering with any
// ancestor invalidates every descendant, while credentials stay constant in
// size regardless of chain depth.
package proposed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/vc-delegation-bench/pkg/doc/delegation"
)

// Name identifies the variant in benchmark reports.
const Name = "proposed"

type canonicalizer struct{}

// Canonicalizer returns the variant's canonical payload builder.
func Canonicalizer() delegation.Canonicalizer {
	return canonicalizer{}
}

// signingPayload is the canonical form signed by an issuer: the claim set
// plus the digest link to the parent proof.
type signingPayload struct {
	delegation.ClaimSet

	ParentDigest string `json:"parentDigest,omitempty"`
}

func (canonicalizer) ParentRef(parent *delegation.Credential) (*delegation.ParentRef, error) {
	digest, err := delegation.ProofDigest(parent.Proof)
	if err != nil {
		return nil, fmt.Errorf("digest parent proof: %w", err)
	}

	return &delegation.ParentRef{Digest: digest}, nil
}

func (canonicalizer) SigningInput(claims delegation.ClaimSet, parent *delegation.ParentRef) ([]byte, error) {
	payload := signingPayload{ClaimSet: claims}

	if parent != nil {
		if parent.Digest == "" || len(parent.Bundle) > 0 {
			return nil, errors.New("malformed parent reference for hash-chain payload")
		}

		payload.ParentDigest = parent.Digest
	}

	return json.Marshal(payload)
}

// Protocol is the hash-chain variant's capability set.
type Protocol struct {
	issuer    *delegation.Issuer
	assembler *delegation.Assembler
	verifier  *delegation.Verifier
}

// New returns the hash-chain protocol variant.
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
